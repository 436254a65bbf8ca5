package http

import "github.com/gin-gonic/gin"

// BasePath is where Register is usually mounted.
const BasePath = "/api/homepage/ai-insights"

// Register attaches insight and suggestion routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/latest", h.latest)
	rg.POST("/generate", h.generateInsight)
	rg.GET("/detailed/:id", h.insightDetails)

	rg.GET("/suggestions", h.quickSuggestion)
	rg.POST("/suggestions", h.customSuggestion)
	rg.DELETE("/suggestions/:id", h.deleteSuggestion)

	rg.DELETE("/:id", h.dismissInsight)
}
