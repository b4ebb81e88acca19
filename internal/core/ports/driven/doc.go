// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusReader: Lists and reads corpus documents in a deterministic order
//   - PostProcessor: Chunking, categorisation and quality filtering stages
//   - ChunkStore: Interchange files between pipeline stages
//   - EmbeddingService: Converts text into fixed-dimension vectors
//   - VectorIndex: Collection lifecycle, bulk upsert and similarity query
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run ledger. Without it partial loads are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven
