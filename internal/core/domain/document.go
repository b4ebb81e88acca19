package domain

// Document is a corpus file after it has been read and decoded.
type Document struct {
	// Source identifies the originating document (its path).
	Source string

	// Content is the full decoded text.
	Content string
}

// Chunk represents a searchable window of words within a document.
type Chunk struct {
	// ID is assigned exactly once by the run's id sequence.
	// Zero means unassigned.
	ID int64

	// Content is the window of words joined by single spaces.
	Content string

	// Source is the originating document.
	Source string

	// ChunkIndex is the 0-based position of the chunk within its source.
	ChunkIndex int

	// Category is derived from Source.
	Category Category

	// Embedding is nil until the embedding stage runs.
	Embedding []float32
}

// HasID reports whether the chunk has been assigned an identifier.
func (c *Chunk) HasID() bool {
	return c.ID > 0
}

// HasEmbedding reports whether the embedding stage has populated the vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Payload returns the fields carried alongside the vector in the index.
func (c *Chunk) Payload() Payload {
	return Payload{
		Content:  c.Content,
		Source:   c.Source,
		Category: c.Category,
	}
}

// Point converts an embedded chunk into its index representation.
func (c *Chunk) Point() IndexPoint {
	return IndexPoint{
		ID:      c.ID,
		Vector:  c.Embedding,
		Payload: c.Payload(),
	}
}

// Payload is the metadata stored with each vector.
type Payload struct {
	Content  string   `json:"content"`
	Source   string   `json:"source"`
	Category Category `json:"category"`
}

// IndexPoint is one vector in the index. ID matches Chunk.ID.
type IndexPoint struct {
	ID      int64
	Vector  []float32
	Payload Payload
}
