package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashIsDeterministic(t *testing.T) {
	a := ContentHash("還付金の手続きが必要です")
	b := ContentHash("還付金の手続きが必要です")

	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestContentHashDiffersPerInput(t *testing.T) {
	assert.NotEqual(t, ContentHash("テキストA"), ContentHash("テキストB"))
}

func TestContentHashEmptyInput(t *testing.T) {
	assert.Len(t, ContentHash(""), 32)
}
