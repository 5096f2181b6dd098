// Package suggest composes reading extraction, dictionary lookup and
// learned reranking into the suggest and commit operations.
package suggest

import "context"

// ISuggester is what the host boundary drives.
type ISuggester interface {
	// Suggest returns at most MaxCandidates reranked candidates for the
	// request's reading. Misses and unusable input give an empty result.
	Suggest(req Request) Result

	// Commit records that candidate was chosen for reading.
	Commit(reading, candidate string)

	// Count returns how often the pair was committed.
	Count(reading, candidate string) int

	// Predict lists dictionary readings starting with prefix.
	Predict(prefix string, limit int) []string

	// Ready reports whether the dictionary finished loading.
	Ready() bool

	// Wait blocks until loading ends or ctx is done.
	Wait(ctx context.Context) error

	// Stats reports loaded and learned sizes.
	Stats() Stats
}
