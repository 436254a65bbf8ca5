package suggestion

import "math"

// BuildDisplayState converts content into a display record. It returns nil
// when content is nil or carries nothing worth showing. meta may be nil.
func BuildDisplayState(content *Content, source Source, meta *Meta) *DisplayState {
	if content == nil || !content.Meaningful() {
		return nil
	}
	if meta == nil {
		meta = &Meta{}
	}

	state := &DisplayState{
		Content:   *content,
		RequestID: resolveRequestID(content, meta),
		Timestamp: resolveTimestamp(content, meta),
		Source:    source,
	}
	if id, ok := resolveSuggestionID(content, meta); ok {
		state.SuggestionID = id.String()
	}
	return state
}

// NormalizeResponse adapts a generation response. The nested "suggestions"
// object is preferred; otherwise the flattened root fields are assembled
// into content. The response's own ids and timestamps act as explicit meta.
func NormalizeResponse(resp *Response, source Source) *DisplayState {
	if resp == nil {
		return nil
	}
	content := resp.Suggestions
	if content == nil {
		content = &Content{
			SuggestionType:  resp.SuggestionType,
			UserGoal:        resp.UserGoal,
			TimeFrame:       resp.TimeFrame,
			Recommendations: resp.Recommendations,
			SpecificMetrics: resp.SpecificMetrics,
			Rationale:       resp.Rationale,
			ConfidenceScore: resp.ConfidenceScore,
			Title:           resp.Title,
			Summary:         resp.Summary,
			Plan:            resp.Plan,
			CreatedAt:       resp.CreatedAt,
			Meta:            resp.Meta,
		}
	}
	return BuildDisplayState(content, source, &Meta{
		RequestID:    resp.RequestID,
		Timestamp:    resp.Timestamp,
		SuggestionID: resp.SuggestionID,
		ID:           resp.ID,
	})
}

// Meaningful reports whether the content has at least one field worth
// rendering.
func (c *Content) Meaningful() bool {
	if c == nil {
		return false
	}
	if len(c.Recommendations) > 0 || len(c.SpecificMetrics) > 0 {
		return true
	}
	for _, s := range []*string{
		c.Rationale, c.Summary, c.Plan, c.Title,
		c.SuggestionType, c.UserGoal, c.TimeFrame,
	} {
		if s != nil && *s != "" {
			return true
		}
	}
	return c.ConfidenceScore != nil &&
		!math.IsNaN(*c.ConfidenceScore) &&
		!math.IsInf(*c.ConfidenceScore, 0)
}

// MetaID returns the identifier stored under meta.suggestionId, falling back
// to meta.id.
func (c *Content) MetaID() (ID, bool) {
	if c == nil {
		return ID{}, false
	}
	return firstID(
		func() (ID, bool) { return idFromValue(c.Meta["suggestionId"]) },
		func() (ID, bool) { return idFromValue(c.Meta["id"]) },
	)
}

type idCandidate func() (ID, bool)

// firstID tries each location in order and returns the first one present.
func firstID(candidates ...idCandidate) (ID, bool) {
	for _, candidate := range candidates {
		if id, ok := candidate(); ok {
			return id, true
		}
	}
	return ID{}, false
}

func fromID(id ID) idCandidate {
	return func() (ID, bool) { return id, id.IsSet() }
}

func resolveSuggestionID(c *Content, meta *Meta) (ID, bool) {
	return firstID(
		fromID(meta.SuggestionID),
		fromID(meta.ID),
		fromID(c.SuggestionID),
		fromID(c.ID),
		c.MetaID,
	)
}

func resolveRequestID(c *Content, meta *Meta) string {
	if meta.RequestID != "" {
		return meta.RequestID
	}
	if c.RequestID != nil {
		return *c.RequestID
	}
	if s, ok := c.Meta["requestId"].(string); ok {
		return s
	}
	return ""
}

func resolveTimestamp(c *Content, meta *Meta) string {
	switch {
	case meta.Timestamp != "":
		return meta.Timestamp
	case c.Timestamp != nil:
		return *c.Timestamp
	case c.CreatedAt != nil:
		return *c.CreatedAt
	}
	return ""
}
