package services

import (
	"context"
	"fmt"
	"strings"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/pkg/logger"
)

// DarkJobModelVersion marks results produced by the expanded keyword
// tables with the grey-zone escalation pass.
const DarkJobModelVersion = "darkjob-hybrid-v2.0.0"

const (
	darkJobHighThreshold   = 60
	darkJobMediumThreshold = 35
)

var darkJobPatterns = []models.PatternEntry{
	{
		Category: "high_pay_lure",
		Keywords: []string{
			"高額バイト", "日給10万", "日給5万", "簡単に稼げる", "即日払い",
			"高収入", "高額報酬", "短時間で", "誰でもできる", "スマホだけ",
		},
		Weight: 30,
	},
	{
		Category: "criminal_activity",
		Keywords: []string{
			"受け子", "出し子", "運び屋", "荷物を受け取る", "現金を受け取り",
			"カードを回収", "ATMで引き出", "口座を貸し", "名義貸し",
		},
		Weight: 50,
	},
	{
		Category: "secrecy_signals",
		Keywords: []string{
			"Telegram", "シグナル", "テレグラム", "秘密厳守", "誰にも言わない",
			"身分証を送", "顔写真を送", "消えるメッセージ", "アカウント削除",
		},
		Weight: 25,
	},
	{
		Category: "urgency_coercion",
		Keywords: []string{
			"今すぐ連絡", "急募", "人数限定", "途中でやめたら", "逃げたら",
			"家族に危害", "個人情報握ってる", "辞められない",
		},
		Weight: 35,
	},
	{
		Category: "sns_recruitment",
		Keywords: []string{
			"DM", "インスタ", "プロフのリンク", "ストーリーから", "裏アカ", "鍵垢",
		},
		Weight: 15,
	},
	{
		Category: "syndicate_recruitment",
		Keywords: []string{
			"指示役", "グループに入", "指示に従うだけ", "上の人", "トクリュウ",
		},
		Weight: 35,
	},
	{
		Category: "disguised_legitimate",
		Keywords: []string{
			"口座開設代行", "名前を貸す", "名義を貸", "契約代行", "受け取り代行",
		},
		Weight: 20,
	},
}

var darkJobCategoryNames = map[string]string{
	"high_pay_lure":         "高額報酬の誘い",
	"criminal_activity":     "犯罪行為の示唆",
	"secrecy_signals":       "秘匿性の要求",
	"urgency_coercion":      "緊急性・脅迫",
	"sns_recruitment":       "SNS経由の勧誘",
	"syndicate_recruitment": "指示役グループへの勧誘",
	"disguised_legitimate":  "正規業務を装った勧誘",
}

// TextExtractor pulls text out of a base64-encoded image for the image
// check flow. Implementations must not panic; returning empty text is
// the failure signal.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}

// DarkJobChecker scores job-offer text against the dark-job pattern
// table, with a grey-zone escalation pass for ambiguous scores.
type DarkJobChecker struct {
	escalator Escalator
	extractor TextExtractor
	logger    *logger.Logger
}

// NewDarkJobChecker creates a new dark job checker
func NewDarkJobChecker(escalator Escalator, extractor TextExtractor, log *logger.Logger) *DarkJobChecker {
	if escalator == nil {
		escalator = NewHeuristicEscalator()
	}
	return &DarkJobChecker{
		escalator: escalator,
		extractor: extractor,
		logger:    log.WithComponent("darkjob-checker"),
	}
}

// Check scores a job posting or recruitment message. The source tag is
// accepted but not used in scoring (reserved for per-channel tuning).
func (c *DarkJobChecker) Check(text string, source string) *models.DarkJobResult {
	matched := MatchPatterns(text, darkJobPatterns)

	if len(matched) == 0 {
		return &models.DarkJobResult{
			IsDarkJob:     false,
			RiskLevel:     models.RiskLevelLow,
			RiskScore:     0,
			KeywordsFound: []string{},
			Explanation:   "闇バイトの兆候は検出されませんでした。",
			ModelVersion:  DarkJobModelVersion,
		}
	}

	total := 0
	var allKeywords []string
	var categories []string
	for _, m := range matched {
		total += m.Weight
		allKeywords = append(allKeywords, m.MatchedKeywords...)
		name := darkJobCategoryNames[m.Category]
		if name == "" {
			name = m.Category
		}
		categories = append(categories, name)
	}

	switch {
	case len(matched) >= 4:
		total += 20
	case len(matched) >= 3:
		total += 15
	case len(matched) >= 2:
		total += 10
	}
	total = clampScore(total)

	if total >= greyZoneLow && total <= greyZoneHigh {
		if boost, ok := c.escalate(text, total); ok {
			c.logger.Debug().
				Int("score", total).
				Int("boost", boost).
				Msg("grey zone escalation applied")
			total = clampScore(total + boost)
		}
	}

	var riskLevel string
	switch {
	case total >= darkJobHighThreshold:
		riskLevel = models.RiskLevelHigh
	case total >= darkJobMediumThreshold:
		riskLevel = models.RiskLevelMedium
	default:
		riskLevel = models.RiskLevelLow
	}

	var explanation string
	if riskLevel == models.RiskLevelHigh {
		explanation = fmt.Sprintf(
			"闇バイトの可能性が高います。検出カテゴリ: %s。絶対に応じないでください。警察相談専用電話（#9110）に相談してください。",
			strings.Join(categories, ", "),
		)
	} else {
		explanation = fmt.Sprintf(
			"闇バイトの可能性があります。検出カテゴリ: %s。十分注意してください。",
			strings.Join(categories, ", "),
		)
	}

	return &models.DarkJobResult{
		IsDarkJob:     total >= darkJobMediumThreshold,
		RiskLevel:     riskLevel,
		RiskScore:     total,
		KeywordsFound: dedupeKeywords(allKeywords),
		Explanation:   explanation,
		ModelVersion:  DarkJobModelVersion,
	}
}

// escalate runs the pluggable escalator and swallows any fault inside
// it. The scoring path must never abort a request because the
// secondary pass misbehaved.
func (c *DarkJobChecker) escalate(text string, score int) (boost int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn().
				Interface("panic", r).
				Msg("escalator panicked, treating as no adjustment")
			boost, ok = 0, false
		}
	}()
	return c.escalator.Escalate(text, score)
}

// CheckImage extracts text from a base64 image and runs the standard
// check on it. Extraction failures return the fixed fallback rather
// than an error; the caller has no recovery path beyond the fallback.
func (c *DarkJobChecker) CheckImage(ctx context.Context, imageBase64 string, source string) *models.DarkJobResult {
	fallback := &models.DarkJobResult{
		IsDarkJob:     false,
		RiskLevel:     models.RiskLevelLow,
		RiskScore:     0,
		KeywordsFound: []string{},
		Explanation:   "画像からテキストを抽出できませんでした。テキストでの確認をお試しください。",
		ModelVersion:  DarkJobModelVersion,
	}

	if c.extractor == nil {
		return fallback
	}

	text, err := c.extractor.ExtractText(ctx, imageBase64)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			c.logger.Warn().Err(err).Msg("image text extraction failed")
		}
		return fallback
	}

	result := c.Check(text, source)
	result.ExtractedText = text
	return result
}

// DarkJobCategoryName returns the Japanese label for a dark-job
// category, falling back to the raw category string.
func DarkJobCategoryName(category string) string {
	if name, ok := darkJobCategoryNames[category]; ok {
		return name
	}
	return category
}

// DarkJobPatterns exposes the pattern table for the read-only patterns
// endpoint. Callers must not mutate the returned slice.
func DarkJobPatterns() []models.PatternEntry {
	return darkJobPatterns
}
