package services

import "sync/atomic"

// Sequence hands out chunk ids. Ids start at 1 and strictly increase.
// A Sequence is scoped to one processing run and is never persisted.
// Next is safe for concurrent use, so chunk production can be parallelised
// as long as callers need only uniqueness; order follows the call order.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a sequence whose first id is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last id handed out, or 0 if none was.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
