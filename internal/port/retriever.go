package port

import "kalebbot/internal/domain"

// Searcher is the capability the task-routing layer consumes: semantic
// search over the knowledge base. It never fails; an unloaded or broken
// retrieval subsystem is reported as an empty result set.
type Searcher interface {
	Search(query string, k int) []domain.SearchResult
}
