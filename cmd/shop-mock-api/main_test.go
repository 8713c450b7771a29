package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"ORD-001", "ORD-002"}, splitIDs(" ORD-001, ,ORD-002,"))
	assert.Empty(t, splitIDs(""))
}
