package suggestion

import "encoding/json"

// UnmarshalJSON decodes every field on its own, so a field of the wrong JSON
// kind is dropped instead of failing the whole payload. A non-object value
// decodes to empty content.
func (c *Content) UnmarshalJSON(b []byte) error {
	*c = Content{}
	if !isObject(b) {
		return nil
	}

	type plain Content
	aux := struct {
		*plain
		RequestID       text     `json:"requestId"`
		Timestamp       text     `json:"timestamp"`
		SuggestionType  text     `json:"suggestionType"`
		UserGoal        text     `json:"userGoal"`
		TimeFrame       text     `json:"timeFrame"`
		Recommendations textList `json:"recommendations"`
		Rationale       text     `json:"rationale"`
		ConfidenceScore number   `json:"confidenceScore"`
		Title           text     `json:"title"`
		Summary         text     `json:"summary"`
		Plan            text     `json:"plan"`
		CreatedAt       text     `json:"createdAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	c.RequestID = aux.RequestID.v
	c.Timestamp = aux.Timestamp.v
	c.SuggestionType = aux.SuggestionType.v
	c.UserGoal = aux.UserGoal.v
	c.TimeFrame = aux.TimeFrame.v
	c.Recommendations = aux.Recommendations
	c.Rationale = aux.Rationale.v
	c.ConfidenceScore = aux.ConfidenceScore.v
	c.Title = aux.Title.v
	c.Summary = aux.Summary.v
	c.Plan = aux.Plan.v
	c.CreatedAt = aux.CreatedAt.v
	return nil
}

// UnmarshalJSON decodes a generation response with the same tolerance as
// Content. A "suggestions" value that is not an object counts as absent, so
// the flattened root fields are used instead.
func (r *Response) UnmarshalJSON(b []byte) error {
	*r = Response{}
	if !isObject(b) {
		return nil
	}

	type plain Response
	aux := struct {
		*plain
		RequestID       text            `json:"requestId"`
		Timestamp       text            `json:"timestamp"`
		Suggestions     json.RawMessage `json:"suggestions"`
		SuggestionType  text            `json:"suggestionType"`
		UserGoal        text            `json:"userGoal"`
		TimeFrame       text            `json:"timeFrame"`
		Recommendations textList        `json:"recommendations"`
		Rationale       text            `json:"rationale"`
		ConfidenceScore number          `json:"confidenceScore"`
		Title           text            `json:"title"`
		Summary         text            `json:"summary"`
		Plan            text            `json:"plan"`
		CreatedAt       text            `json:"createdAt"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	r.RequestID = aux.RequestID.value()
	r.Timestamp = aux.Timestamp.value()
	if isObject(aux.Suggestions) {
		r.Suggestions = &Content{}
		if err := r.Suggestions.UnmarshalJSON(aux.Suggestions); err != nil {
			return err
		}
	}
	r.SuggestionType = aux.SuggestionType.v
	r.UserGoal = aux.UserGoal.v
	r.TimeFrame = aux.TimeFrame.v
	r.Recommendations = aux.Recommendations
	r.Rationale = aux.Rationale.v
	r.ConfidenceScore = aux.ConfidenceScore.v
	r.Title = aux.Title.v
	r.Summary = aux.Summary.v
	r.Plan = aux.Plan.v
	r.CreatedAt = aux.CreatedAt.v
	return nil
}
