package services

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"mamoritalk-ai/pkg/logger"
)

// textRunPattern matches runs of Japanese or ASCII text embedded in
// decoded image bytes. Runs shorter than 4 characters are noise.
var textRunPattern = regexp.MustCompile(
	`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}\x{FF00}-\x{FFEF}a-zA-Z0-9\s,.!?、。！？「」（）\-]{4,}`,
)

// HeuristicTextExtractor scans base64-decoded image bytes for embedded
// text runs. It stands in for a real OCR engine in environments
// without one; production swaps in a vision-API backed TextExtractor.
type HeuristicTextExtractor struct {
	logger *logger.Logger
}

// NewHeuristicTextExtractor creates the fallback extractor
func NewHeuristicTextExtractor(log *logger.Logger) *HeuristicTextExtractor {
	return &HeuristicTextExtractor{
		logger: log.WithComponent("text-extractor"),
	}
}

// ExtractText decodes the payload and collects readable runs. Invalid
// base64 or a payload with no readable runs yields empty text, not an
// error; the check flow treats empty as extraction failure.
func (e *HeuristicTextExtractor) ExtractText(_ context.Context, imageBase64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		e.logger.Warn().Err(err).Msg("image payload is not valid base64")
		return "", nil
	}

	runs := textRunPattern.FindAllString(string(data), -1)
	result := strings.TrimSpace(strings.Join(runs, " "))
	if result != "" {
		e.logger.Debug().Int("chars", len([]rune(result))).Msg("heuristic text extraction")
	}
	return result, nil
}
