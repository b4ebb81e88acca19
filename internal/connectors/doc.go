// Package connectors provides implementations of the CorpusReader interface.
// Each connector knows how to list and read documents from one kind of
// corpus location.
//
// The filesystem connector is wired at startup by cmd/ragindex.
package connectors
