package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrieval_Empty(t *testing.T) {
	r := Retrieval{Query: "grpc"}
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Len())

	r.Results = []QueryResult{{ID: 1, Score: 0.9}}
	assert.False(t, r.Empty())
	assert.Equal(t, 1, r.Len())
}
