package domain

// RetrievalOptions configures a retrieval query.
type RetrievalOptions struct {
	// Limit is the maximum number of candidates requested from the index.
	Limit int

	// ScoreThreshold drops candidates scoring below it.
	ScoreThreshold float32
}

// QueryResult represents a single similarity hit.
type QueryResult struct {
	// ID is the index-assigned point id, used for deterministic tie-breaks.
	ID int64

	// Score is the similarity, higher is more relevant.
	Score float32

	Payload Payload
}

// Retrieval is the ordered outcome of one query. An empty retrieval is a
// valid result, distinct from an error.
type Retrieval struct {
	Query   string
	Results []QueryResult
}

// Empty reports whether no candidate cleared the threshold.
func (r Retrieval) Empty() bool {
	return len(r.Results) == 0
}

// Len returns the number of results.
func (r Retrieval) Len() int {
	return len(r.Results)
}
