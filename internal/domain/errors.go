package domain

import "errors"

// Sentinel errors for the optimization pipeline. Callers match with errors.Is.
var (
	// ErrEmptyText indicates an estimation or optimization call received no text.
	ErrEmptyText = errors.New("text is empty")

	// ErrUnknownStrategy indicates an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidBudget indicates a non-positive token budget.
	ErrInvalidBudget = errors.New("token budget must be positive")

	// ErrExtraction indicates upstream document retrieval or parsing failed.
	ErrExtraction = errors.New("extraction failed")

	// ErrProvider indicates an LLM provider call failed (network, auth, rate limit).
	ErrProvider = errors.New("provider request failed")

	// ErrCacheMiss indicates no cached entry was found.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNoPricing indicates no rate card is registered for a model.
	// Cost accounting treats such models as free; it never fails a request.
	ErrNoPricing = errors.New("no pricing registered for model")

	// ErrRelated indicates a related-papers lookup failed (unrecognized
	// source or upstream API error).
	ErrRelated = errors.New("related papers lookup failed")
)
