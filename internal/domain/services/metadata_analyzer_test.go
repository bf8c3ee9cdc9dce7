package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mamoritalk-ai/internal/domain/models"
)

func TestMetadataInternationalNumber(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("+44 20 1234 5678", models.CallTypeCall, "")

	// +40 international, +20 suspicious prefix
	assert.Equal(t, 60, result.RiskScore)
	assert.Equal(t, "suspicious_call", result.ScamType)
	assert.Contains(t, result.Reasons, "国際番号からの着信")
	assert.Contains(t, result.Summary, "着信")
	assert.Equal(t, "metadata-rule-v0.1.0", result.ModelVersion)
}

func TestMetadataChinaPrefix(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("+8613812345678", models.CallTypeCall, "")

	assert.GreaterOrEqual(t, result.RiskScore, 50)
	assert.Contains(t, result.Reasons, "疑わしいプレフィックス: +86")
}

func TestMetadataWithheldNumber(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("非通知", models.CallTypeCall, "")

	// +30 withheld, +15 short after stripping
	assert.Equal(t, 45, result.RiskScore)
	assert.Contains(t, result.Reasons, "非通知番号")
	assert.Equal(t, "suspicious_call", result.ScamType)
}

func TestMetadataEmptyNumber(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("", models.CallTypeCall, "")

	assert.GreaterOrEqual(t, result.RiskScore, 30)
	assert.Contains(t, result.Reasons, "非通知番号")
}

func TestMetadataShortNumber(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("110", models.CallTypeCall, "")

	assert.Equal(t, 15, result.RiskScore)
	assert.Contains(t, result.Reasons, "短い番号（偽装の可能性）")
}

func TestMetadataSafeDomesticNumber(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("090-1234-5678", models.CallTypeCall, "")

	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, "unknown", result.ScamType)
	assert.Empty(t, result.Reasons)
	assert.Contains(t, result.Summary, "低リスク")
}

func TestMetadataJapanCountryCodeNotInternational(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("+819012345678", models.CallTypeCall, "")

	assert.NotContains(t, result.Reasons, "国際番号からの着信")
}

func TestMetadataSMSPhishing(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	content := "【重要】お客様のアカウント停止のお知らせ。本人確認のため至急 http://example-bank.xyz/verify にアクセスしてください。"
	result := a.Analyze("+12025551234", models.CallTypeSMS, content)

	// Number: +40 intl, +20 prefix. SMS: 3 keywords +30, URL +20, urgency +15.
	assert.Equal(t, 100, result.RiskScore)
	assert.Equal(t, "sms_phishing", result.ScamType)
	assert.Contains(t, result.KeywordsFound, "アカウント停止")
	assert.Contains(t, result.KeywordsFound, "本人確認")
	assert.Contains(t, result.Reasons, "不審なURLが含まれています")
	assert.Contains(t, result.Reasons, "緊急性を煽る表現を検出")
	assert.Contains(t, result.Summary, "SMS")
	assert.Contains(t, result.Summary, "高リスク")
}

func TestMetadataSMSContentIgnoredForCalls(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	result := a.Analyze("090-1234-5678", models.CallTypeCall, "当選しました。至急ご連絡ください。")

	assert.Equal(t, 0, result.RiskScore)
	assert.Empty(t, result.KeywordsFound)
}

func TestMetadataSMSUrgencyScoredOnce(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	// Multiple urgency words add the flat bonus once. 至急 and 本日中
	// also hit the keyword list.
	result := a.Analyze("090-1234-5678", models.CallTypeSMS, "今すぐ急いで至急、本日中にお願いします。")

	// 2 keywords +20, urgency +15
	assert.Equal(t, 35, result.RiskScore)
}

func TestMetadataSummaryListsTopThreeReasons(t *testing.T) {
	a := NewMetadataAnalyzer(testLogger())

	content := "当選おめでとうございます。還付金の振込のため口座情報の本人確認が必要です。https://claim.example.top/x"
	result := a.Analyze("非通知", models.CallTypeSMS, content)

	assert.Contains(t, result.Summary, "理由: ")
	assert.Contains(t, result.Summary, "非通知番号")
}
