// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline runs in stages: ProcessService turns the corpus into
// filtered chunks with ids, EmbedService adds embeddings in batches,
// LoadService rebuilds the vector collection and RetrievalService answers
// queries against it. IndexService chains the stages through the
// interchange files written by the ChunkStore.
package services
