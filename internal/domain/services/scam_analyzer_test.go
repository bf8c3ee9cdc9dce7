package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mamoritalk-ai/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func TestScamAnalyzerDetectsCashCardFraud(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("あなたの口座が凍結されました。暗証番号を教えてください。ATMで手続きしてください。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 70)
	assert.Equal(t, "cash_card_fraud", result.ScamType)
	assert.NotEmpty(t, result.KeywordsFound)
	assert.Equal(t, "rule-v0.1.0", result.ModelVersion)
}

func TestScamAnalyzerDetectsRefundFraud(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("還付金があります。ATMで手続きしてください。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 50)
	assert.Equal(t, "refund_fraud", result.ScamType)
	assert.Contains(t, result.KeywordsFound, "還付金")
}

func TestScamAnalyzerDetectsOreOreFraud(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("お母さん、オレだよ、事故を起こしてお金が必要なんだ。示談金を振り込んでほしい。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 50)
	assert.Equal(t, "ore_ore", result.ScamType)
}

func TestScamAnalyzerSafeConversation(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("お元気ですか？明日公園に散歩に行きましょう。天気が良さそうです。", "")

	assert.Equal(t, 5, result.RiskScore)
	assert.Equal(t, "none", result.ScamType)
	assert.Equal(t, "特に詐欺の兆候は検出されませんでした。", result.Summary)
	assert.Empty(t, result.KeywordsFound)
}

func TestScamAnalyzerUrgencyBoostsScore(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	base := a.Analyze("口座が危険です。暗証番号を教えてください。", "")
	urgent := a.Analyze("口座が危険です。暗証番号を教えてください。今すぐ急いでください！", "")

	assert.GreaterOrEqual(t, urgent.RiskScore, base.RiskScore)
	assert.Contains(t, urgent.KeywordsFound, "今すぐ")
}

func TestScamAnalyzerUrgencyBonusCapped(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	// 5 urgency hits on top of one 60-weight category: bonus caps at 15
	result := a.Analyze("必ず儲かる投資。今すぐ、急いで、すぐに、明日までに、内緒で。", "")

	assert.Equal(t, 75, result.RiskScore)
}

func TestScamAnalyzerMultiPatternBonus(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	single := a.Analyze("暗証番号を教えてください。", "")
	multi := a.Analyze("暗証番号を教えてください。還付金の手続きです。", "")

	require.Equal(t, "cash_card_fraud", multi.ScamType)
	assert.Equal(t, single.RiskScore+10, multi.RiskScore)
}

func TestScamAnalyzerScoreClampedTo100(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze(
		"暗証番号とキャッシュカードを封筒に入れてください。還付金はATMで。未払いの裁判。必ず儲かる投資。今すぐ急いで、誰にも内緒で。",
		"",
	)

	assert.Equal(t, 100, result.RiskScore)
}

func TestScamAnalyzerSummaryNamesTopType(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("還付金があります。期限が今日までです。市役所の者です。", "")

	assert.Contains(t, result.Summary, "還付金詐欺")
	assert.Contains(t, result.Summary, "「還付金」")
}

func TestScamAnalyzerKeywordsDeduplicated(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.Analyze("今すぐ、今すぐ、還付金を。誰にも言わないで。", "")

	seen := map[string]int{}
	for _, kw := range result.KeywordsFound {
		seen[kw]++
		assert.Equal(t, 1, seen[kw], "keyword %q duplicated", kw)
	}
}

func TestQuickCheckSuspicious(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.QuickCheck("還付金があります。ATMで手続きしてください。")

	assert.True(t, result.IsSuspicious)
	assert.GreaterOrEqual(t, result.RiskScore, 50)
	assert.NotEmpty(t, result.Reason)
}

func TestQuickCheckSafe(t *testing.T) {
	a := NewScamAnalyzer(testLogger())

	result := a.QuickCheck("明日の天気は晴れです。")

	assert.False(t, result.IsSuspicious)
	assert.Less(t, result.RiskScore, 30)
}
