package domain

// RootReport summarises processing of one corpus root.
type RootReport struct {
	Root      CorpusRoot
	Documents int
	Skipped   int
	Produced  int
	Kept      int
}

// ProcessReport is the outcome of the chunking stage.
type ProcessReport struct {
	RunID string
	Roots []RootReport

	// Chunks holds the surviving chunks in id order.
	Chunks []Chunk

	// Skipped lists documents that could not be read.
	Skipped []InputReadError
}

// Empty reports whether no chunk survived filtering.
func (r *ProcessReport) Empty() bool {
	return len(r.Chunks) == 0
}

// Produced returns the number of chunks before quality filtering.
func (r *ProcessReport) Produced() int {
	total := 0
	for _, root := range r.Roots {
		total += root.Produced
	}
	return total
}

// EmbedReport is the outcome of the embedding stage.
type EmbedReport struct {
	RunID      string
	Model      string
	Dimensions int
	Batches    int
	Chunks     []Chunk
}

// LoadReport is the outcome of the index load stage.
type LoadReport struct {
	RunID      string
	Collection string

	// Deleted is true when a previous collection was dropped.
	Deleted bool

	Batches int
	Points  int
}

// Empty reports whether there was nothing to load.
func (r *LoadReport) Empty() bool {
	return r.Points == 0
}

// IndexReport aggregates a full pipeline run.
type IndexReport struct {
	Process ProcessReport
	Embed   EmbedReport
	Load    LoadReport
}
