package services

import (
	"strings"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/pkg/logger"
)

// summaryMarkers flag sentences worth surfacing as key points: money
// movement, pressure tactics, institutions, and family references.
var summaryMarkers = []string{
	"お金", "振り込", "送金", "口座", "カード", "暗証番号",
	"今すぐ", "急いで", "警察", "役所", "銀行",
	"息子", "娘", "孫", "事故", "病院",
}

var recommendedActionsByRisk = map[string][]string{
	models.RiskLevelHigh: {
		"すぐに電話を切ってください",
		"家族に相談してください",
		"警察相談ダイヤル（#9110）に連絡してください",
		"ATMや銀行には絶対に行かないでください",
	},
	models.RiskLevelMedium: {
		"相手の身元を確認してください",
		"家族に内容を共有してください",
		"不審な点があれば消費者ホットライン（188）に相談",
	},
	models.RiskLevelLow: {
		"引き続き注意してください",
		"定期的に家族と連絡を取りましょう",
	},
}

// Summarizer builds a family-facing digest of a conversation report:
// risk assessment plus key points and recommended actions.
type Summarizer struct {
	analyzer *ScamAnalyzer
	logger   *logger.Logger
}

// NewSummarizer creates a new conversation summarizer
func NewSummarizer(analyzer *ScamAnalyzer, log *logger.Logger) *Summarizer {
	return &Summarizer{
		analyzer: analyzer,
		logger:   log.WithComponent("summarizer"),
	}
}

// Summarize scores the conversation and extracts key points and
// actions for the risk level.
func (s *Summarizer) Summarize(text string) *models.ConversationSummary {
	result := s.analyzer.Analyze(text, "")

	var riskLevel string
	switch {
	case result.RiskScore >= 60:
		riskLevel = models.RiskLevelHigh
	case result.RiskScore >= 30:
		riskLevel = models.RiskLevelMedium
	default:
		riskLevel = models.RiskLevelLow
	}

	return &models.ConversationSummary{
		RiskScore:          result.RiskScore,
		ScamType:           result.ScamType,
		Summary:            result.Summary,
		KeyPoints:          extractKeyPoints(text),
		RecommendedActions: recommendedActionsByRisk[riskLevel],
		KeywordsFound:      result.KeywordsFound,
		ModelVersion:       result.ModelVersion,
	}
}

// extractKeyPoints picks marker-bearing sentences from the first 10,
// truncated to 80 runes, max 5. With no marker hits it falls back to
// the first 3 sentences.
func extractKeyPoints(text string) []string {
	var sentences []string
	for _, s := range strings.Split(strings.ReplaceAll(text, "。", "。\n"), "\n") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	var points []string
	limit := len(sentences)
	if limit > 10 {
		limit = 10
	}
	for _, sentence := range sentences[:limit] {
		for _, marker := range summaryMarkers {
			if strings.Contains(sentence, marker) {
				points = append(points, truncateRunes(sentence, 80))
				break
			}
		}
	}

	if len(points) == 0 && len(sentences) > 0 {
		n := len(sentences)
		if n > 3 {
			n = 3
		}
		for _, s := range sentences[:n] {
			points = append(points, truncateRunes(s, 80))
		}
	}

	if len(points) > 5 {
		points = points[:5]
	}
	return points
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
