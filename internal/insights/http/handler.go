// Package http exposes the AI insight and suggestion endpoints.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrifit/nutrifit-backend/internal/auth"
	"github.com/nutrifit/nutrifit-backend/internal/insights/domain"
	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
)

type Handler struct {
	suggestions SuggestionService
	insights    InsightService
	now         func() time.Time
}

func New(suggestions SuggestionService, insights InsightService) *Handler {
	return &Handler{suggestions: suggestions, insights: insights, now: time.Now}
}

func (h *Handler) latest(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserFirebaseUID(c)

	insights, hasNew, err := h.insights.Latest(ctx, userID)
	if err != nil {
		h.fail(c, "latest_insights", "Failed to load insights: ", err)
		return
	}
	latest, err := h.suggestions.Latest(ctx, userID)
	if err != nil {
		h.fail(c, "latest_insights", "Failed to load insights: ", err)
		return
	}

	c.JSON(http.StatusOK, latestResponse{
		Insights:         insights,
		TotalCount:       len(insights),
		HasNewInsights:   hasNew,
		LatestSuggestion: latest,
	})
}

func (h *Handler) generateInsight(c *gin.Context) {
	var req dto.GenerateInsightRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}

	in, err := h.insights.Generate(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		h.fail(c, "generate_insight", "Failed to generate insight: ", err)
		return
	}
	c.JSON(http.StatusOK, dto.GenerateInsightResponse{
		Insight: in,
		Message: "New AI insight generated successfully",
	})
}

func (h *Handler) insightDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, err := h.insights.Details(c.Request.Context(), auth.UserFirebaseUID(c), id)
	if err != nil {
		h.fail(c, "insight_details", "Failed to load insight details: ", err)
		return
	}
	c.JSON(http.StatusOK, dto.InsightDetailsResponse{
		Insight:            in,
		CanEdit:            true,
		RelatedSuggestions: []string{},
	})
}

func (h *Handler) dismissInsight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.insights.Dismiss(c.Request.Context(), auth.UserFirebaseUID(c), id); err != nil {
		h.fail(c, "dismiss_insight", "Failed to delete insight: ", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Insight deleted successfully", InsightID: id})
}

func (h *Handler) quickSuggestion(c *gin.Context) {
	var params dto.QuickSuggestionParams
	if err := c.ShouldBindQuery(&params); err != nil || strings.TrimSpace(params.Type) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}
	if strings.TrimSpace(params.Goal) == "" {
		params.Goal = domain.GoalMaintenance
	}

	s, err := h.suggestions.Generate(c.Request.Context(), auth.UserFirebaseUID(c), dto.SuggestionRequest{
		SuggestionType: params.Type,
		UserGoal:       params.Goal,
		TimeFrame:      params.TimeFrame,
	})
	if err != nil {
		h.fail(c, "quick_suggestion", "Failed to get suggestions: ", err)
		return
	}

	env := h.envelope(c, s)
	env.Type = params.Type
	env.Goal = params.Goal
	c.JSON(http.StatusOK, env)
}

func (h *Handler) customSuggestion(c *gin.Context) {
	var req dto.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.SuggestionType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "suggestionType is required"})
		return
	}

	s, err := h.suggestions.Generate(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		h.fail(c, "custom_suggestion", "Failed to generate suggestions: ", err)
		return
	}
	c.JSON(http.StatusOK, h.envelope(c, s))
}

func (h *Handler) deleteSuggestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.suggestions.Delete(c.Request.Context(), auth.UserFirebaseUID(c), id); err != nil {
		h.fail(c, "delete_suggestion", "Failed to delete suggestion: ", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Suggestion deleted successfully", SuggestionID: id})
}

func (h *Handler) envelope(c *gin.Context, s *domain.Suggestion) dto.SuggestionEnvelope {
	rid := c.GetString("request_id")
	if rid == "" {
		rid = uuid.NewString()
	}
	return dto.SuggestionEnvelope{
		Suggestions:  generated(s),
		RequestID:    rid,
		Timestamp:    h.now().UTC().Format(time.RFC3339),
		SuggestionID: s.ID,
	}
}

// fail maps service errors to a status code and an {"error": ...} body.
func (h *Handler) fail(c *gin.Context, operation, prefix string, err error) {
	switch {
	case errors.Is(err, domain.ErrSuggestionNotFound), errors.Is(err, domain.ErrInsightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": prefix + err.Error()})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
