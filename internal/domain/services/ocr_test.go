package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicExtractorFindsEmbeddedText(t *testing.T) {
	e := NewHeuristicTextExtractor(testLogger())

	payload := base64.StdEncoding.EncodeToString([]byte("高額報酬！受け子募集。荷物を受け取るだけ。"))
	text, err := e.ExtractText(context.Background(), payload)

	require.NoError(t, err)
	assert.Contains(t, text, "受け子募集")
}

func TestHeuristicExtractorInvalidBase64(t *testing.T) {
	e := NewHeuristicTextExtractor(testLogger())

	text, err := e.ExtractText(context.Background(), "!!not base64!!")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestHeuristicExtractorBinaryPayload(t *testing.T) {
	e := NewHeuristicTextExtractor(testLogger())

	payload := base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0xFF, 0xFE, 0x10})
	text, err := e.ExtractText(context.Background(), payload)

	require.NoError(t, err)
	assert.Empty(t, text)
}
