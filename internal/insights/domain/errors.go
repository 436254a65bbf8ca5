package domain

import "errors"

var (
	ErrSuggestionNotFound  = errors.New("suggestion not found")
	ErrInsightNotFound     = errors.New("insight not found")
	ErrBodyMetricsNotFound = errors.New("body metrics not found")
	ErrForbidden           = errors.New("resource belongs to another user")
	ErrUpstreamFailed      = errors.New("ai upstream request failed")
)
