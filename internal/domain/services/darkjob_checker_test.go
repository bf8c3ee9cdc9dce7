package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mamoritalk-ai/internal/domain/models"
)

func newTestChecker(escalator Escalator, extractor TextExtractor) *DarkJobChecker {
	return NewDarkJobChecker(escalator, extractor, testLogger())
}

func TestDarkJobDetectsObviousRecruitment(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("高額報酬！受け子募集。荷物を受け取るだけの簡単な仕事。誰にも言わないで。", "")

	assert.True(t, result.IsDarkJob)
	assert.Equal(t, models.RiskLevelHigh, result.RiskLevel)
	assert.GreaterOrEqual(t, result.RiskScore, 60)
	assert.NotEmpty(t, result.KeywordsFound)
	assert.Equal(t, "darkjob-hybrid-v2.0.0", result.ModelVersion)
}

func TestDarkJobDetectsCriminalKeywords(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("出し子として銀行で引き出しをお願いします。運び屋の仕事です。", "")

	assert.True(t, result.IsDarkJob)
	assert.Contains(t, []string{models.RiskLevelHigh, models.RiskLevelMedium}, result.RiskLevel)
}

func TestDarkJobSafePosting(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("コンビニスタッフ募集。時給1100円。シフト制。交通費支給。", "")

	assert.False(t, result.IsDarkJob)
	assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, "闇バイトの兆候は検出されませんでした。", result.Explanation)
}

func TestDarkJobSafeRegularJob(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("居酒屋スタッフ募集！時給1200円。22時以降は深夜手当あり。社員登用あり。", "")

	assert.False(t, result.IsDarkJob)
	assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
}

func TestDarkJobSNSRecruitmentPattern(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("DMください。インスタのプロフのリンクから応募してね。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 15)
	found := false
	for _, kw := range result.KeywordsFound {
		if kw == "DM" || kw == "インスタ" || kw == "プロフのリンク" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDarkJobSyndicatePattern(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("指示役からの指示に従うだけの簡単なお仕事。グループに入って活動。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 35)
	assert.True(t, result.IsDarkJob)
}

func TestDarkJobDisguisedLegitimatePattern(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("口座開設代行のお仕事。名前を貸すだけで報酬があります。", "")

	assert.GreaterOrEqual(t, result.RiskScore, 20)
}

func TestDarkJobMultiCategoryBonus(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check(
		"高額バイト！受け子募集。Telegramで連絡。今すぐ連絡ください。DMで応募。指示に従うだけ。口座開設代行。",
		"",
	)

	assert.GreaterOrEqual(t, result.RiskScore, 60)
	assert.Equal(t, models.RiskLevelHigh, result.RiskLevel)
}

func TestDarkJobHighRiskExplanation(t *testing.T) {
	c := newTestChecker(nil, nil)

	result := c.Check("受け子として現金を受け取るだけ。高額報酬。Telegramで連絡。", "")

	assert.True(t, result.IsDarkJob)
	assert.Contains(t, result.Explanation, "検出カテゴリ")
	assert.Contains(t, result.Explanation, "警察")
}

func TestDarkJobGreyZoneEscalation(t *testing.T) {
	c := newTestChecker(NewHeuristicEscalator(), nil)

	// One 30-point category in the grey zone, lifted by the
	// pay/identity-document co-occurrence pass
	result := c.Check("高収入のお仕事です。日払いもOK。応募時に身分証の写真が必要です。", "")

	assert.Equal(t, 45, result.RiskScore)
	assert.Equal(t, models.RiskLevelMedium, result.RiskLevel)
	assert.True(t, result.IsDarkJob)
}

func TestDarkJobEscalationSkippedOutsideBand(t *testing.T) {
	c := newTestChecker(nil, nil)

	// Single criminal-activity match scores 50... still in band; use a
	// clearly high combination instead
	high := c.Check("受け子募集。口座を貸してください。テレグラムで。", "")
	assert.GreaterOrEqual(t, high.RiskScore, 60)

	low := c.Check("事務スタッフ募集。経験不問。", "")
	assert.Equal(t, 0, low.RiskScore)
}

type panicEscalator struct{}

func (panicEscalator) Escalate(string, int) (int, bool) {
	panic("boom")
}

func TestDarkJobEscalatorPanicIsRecovered(t *testing.T) {
	c := newTestChecker(panicEscalator{}, nil)

	result := c.Check("高収入のお仕事です。日払いもOK。応募時に身分証の写真が必要です。", "")

	// Panic degrades to no adjustment
	assert.Equal(t, 30, result.RiskScore)
	assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
	assert.False(t, result.IsDarkJob)
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(context.Context, string) (string, error) {
	return s.text, s.err
}

func TestDarkJobCheckImageWithExtractedText(t *testing.T) {
	c := newTestChecker(nil, stubExtractor{text: "受け子募集。高額報酬。Telegramで連絡。"})

	result := c.CheckImage(context.Background(), "aGVsbG8=", "sns")

	require.True(t, result.IsDarkJob)
	assert.Equal(t, "受け子募集。高額報酬。Telegramで連絡。", result.ExtractedText)
}

func TestDarkJobCheckImageEmptyExtractionFallsBack(t *testing.T) {
	c := newTestChecker(nil, stubExtractor{text: ""})

	result := c.CheckImage(context.Background(), "aGVsbG8=", "")

	assert.False(t, result.IsDarkJob)
	assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
	assert.Equal(t, 0, result.RiskScore)
	assert.Contains(t, result.Explanation, "抽出できませんでした")
	assert.Empty(t, result.ExtractedText)
}

func TestDarkJobCheckImageExtractionErrorFallsBack(t *testing.T) {
	c := newTestChecker(nil, stubExtractor{err: assert.AnError})

	result := c.CheckImage(context.Background(), "not-base64", "")

	assert.False(t, result.IsDarkJob)
	assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
}
