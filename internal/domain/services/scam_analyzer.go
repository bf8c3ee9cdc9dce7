package services

import (
	"fmt"
	"sort"
	"strings"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/pkg/logger"
)

// ScamModelVersion identifies the rule-table revision behind every
// conversation analysis result, for auditing across deployments.
const ScamModelVersion = "rule-v0.1.0"

// scamPatterns is the conversation scoring table. Weights are the base
// score of the single top-matched category, not additive.
var scamPatterns = []models.PatternEntry{
	{
		Category: "ore_ore", // オレオレ詐欺
		Keywords: []string{
			"俺だけど", "オレだよ", "事故を起こし", "示談金", "会社の金", "使い込み",
			"弁護士に", "今日中に", "誰にも言わないで", "声が変わった",
		},
		Weight: 70,
	},
	{
		Category: "refund_fraud", // 還付金詐欺
		Keywords: []string{
			"還付金", "払い戻し", "ATMで", "保険料", "医療費", "手続き期限",
			"市役所", "年金事務所", "社会保険", "期限が今日",
		},
		Weight: 75,
	},
	{
		Category: "billing_fraud", // 架空請求
		Keywords: []string{
			"未払い", "裁判", "訴訟", "法的手続き", "最終通告", "身に覚え",
			"滞納", "差し押さえ", "電子マネー", "コンビニで払",
		},
		Weight: 65,
	},
	{
		Category: "investment_fraud", // 投資詐欺
		Keywords: []string{
			"必ず儲かる", "元本保証", "高配当", "今だけ", "限定", "仮想通貨",
			"投資", "口座に振り込", "利回り", "特別な案件",
		},
		Weight: 60,
	},
	{
		Category: "cash_card_fraud", // キャッシュカード詐欺
		Keywords: []string{
			"キャッシュカード", "暗証番号", "銀行協会", "預金を守る", "口座が危険",
			"不正利用", "カードを預かり", "封筒に入れ", "すぐに届く",
		},
		Weight: 80,
	},
}

// scamUrgencyKeywords boost the score on top of the category weight:
// +5 per hit, capped at +15.
var scamUrgencyKeywords = []string{
	"今すぐ", "急いで", "すぐに", "今日中", "明日まで", "時間がない",
	"誰にも", "内緒", "秘密", "警察に言わない",
}

var scamTypeNames = map[string]string{
	"ore_ore":          "オレオレ詐欺",
	"refund_fraud":     "還付金詐欺",
	"billing_fraud":    "架空請求詐欺",
	"investment_fraud": "投資詐欺",
	"cash_card_fraud":  "キャッシュカード詐欺",
}

// ScamAnalyzer scores conversation transcripts against the scam pattern
// table. Stateless; safe for concurrent use.
type ScamAnalyzer struct {
	logger *logger.Logger
}

// NewScamAnalyzer creates a new scam analyzer
func NewScamAnalyzer(log *logger.Logger) *ScamAnalyzer {
	return &ScamAnalyzer{
		logger: log.WithComponent("scam-analyzer"),
	}
}

// Analyze scores a conversation transcript. The caller number is
// accepted but not yet used in scoring (reserved for number reputation
// enrichment).
func (a *ScamAnalyzer) Analyze(text string, callerNumber string) *models.ConversationAnalysis {
	matched := MatchPatterns(text, scamPatterns)

	if len(matched) == 0 {
		return &models.ConversationAnalysis{
			RiskScore:     5,
			ScamType:      "none",
			Summary:       "特に詐欺の兆候は検出されませんでした。",
			KeywordsFound: []string{},
			ModelVersion:  ScamModelVersion,
		}
	}

	// Highest weight wins; stable sort keeps table order as the tiebreak.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Weight > matched[j].Weight
	})
	top := matched[0]

	urgencyFound := countContained(text, scamUrgencyKeywords)
	urgencyBonus := len(urgencyFound) * 5
	if urgencyBonus > 15 {
		urgencyBonus = 15
	}

	multiBonus := (len(matched) - 1) * 10
	if multiBonus > 20 {
		multiBonus = 20
	}

	var allKeywords []string
	for _, m := range matched {
		allKeywords = append(allKeywords, m.MatchedKeywords...)
	}
	allKeywords = append(allKeywords, urgencyFound...)

	finalScore := clampScore(top.Weight + urgencyBonus + multiBonus)

	var severity string
	switch {
	case finalScore >= 70:
		severity = "高い確率"
	case finalScore >= 50:
		severity = "中程度の可能性"
	default:
		severity = "やや疑わしい兆候"
	}

	topLabel := scamTypeNames[top.Category]
	if topLabel == "" {
		topLabel = top.Category
	}

	highlight := top.MatchedKeywords
	if len(highlight) > 3 {
		highlight = highlight[:3]
	}

	summary := fmt.Sprintf(
		"%sの%sがあります。「%s」などの典型的なキーワードが検出されました。",
		topLabel, severity, strings.Join(highlight, "」「"),
	)

	a.logger.Debug().
		Int("risk_score", finalScore).
		Str("scam_type", top.Category).
		Int("matched_categories", len(matched)).
		Msg("conversation analyzed")

	return &models.ConversationAnalysis{
		RiskScore:     finalScore,
		ScamType:      top.Category,
		Summary:       summary,
		KeywordsFound: dedupeKeywords(allKeywords),
		ModelVersion:  ScamModelVersion,
	}
}

// QuickCheck condenses an analysis into the suspicious/not verdict used
// by the one-tap check.
func (a *ScamAnalyzer) QuickCheck(text string) *models.QuickCheckResult {
	result := a.Analyze(text, "")
	return &models.QuickCheckResult{
		IsSuspicious: result.RiskScore >= 50,
		RiskScore:    result.RiskScore,
		Reason:       result.Summary,
	}
}

// ScamTypeLabel returns the Japanese label for a scam type, falling
// back to the raw type string.
func ScamTypeLabel(scamType string) string {
	if label, ok := scamTypeNames[scamType]; ok {
		return label
	}
	return scamType
}

// ScamPatterns exposes the pattern table for the read-only patterns
// endpoint. Callers must not mutate the returned slice.
func ScamPatterns() []models.PatternEntry {
	return scamPatterns
}
