package services

import (
	"fmt"
	"strings"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/pkg/logger"
)

var adviceScamTypeLabels = map[string]string{
	"ore_ore":          "オレオレ詐欺",
	"refund_fraud":     "還付金詐欺",
	"billing_fraud":    "架空請求詐欺",
	"investment_fraud": "投資詐欺",
	"cash_card_fraud":  "キャッシュカード詐欺",
	"romance_fraud":    "ロマンス詐欺",
}

var scamTypeAdvice = map[string]string{
	"ore_ore": "息子や孫を名乗る電話に注意してください。" +
		"「携帯番号が変わった」「会社のお金を使い込んだ」は典型的な手口です。" +
		"必ず元の番号に折り返し確認しましょう。",
	"refund_fraud": "市役所や税務署を名乗る還付金の電話にご注意ください。" +
		"ATM操作で還付金は受け取れません。" +
		"不審な電話は一度切って、公式番号に確認しましょう。",
	"billing_fraud": "身に覚えのない請求書やメールに返信しないでください。" +
		"「未払い料金がある」「法的措置を取る」は脅し文句です。" +
		"公的機関に直接確認しましょう。",
	"investment_fraud": "「必ず儲かる」「元本保証」の投資話は詐欺です。" +
		"SNSやマッチングアプリ経由の投資勧誘に注意してください。" +
		"金融庁の登録業者か必ず確認しましょう。",
	"cash_card_fraud": "キャッシュカードを他人に渡さないでください。" +
		"「封印する」「預かる」「新しいカードに交換する」は全て詐欺です。" +
		"銀行員や警察官がカードを受け取りに来ることはありません。",
	"romance_fraud": "ネット上で知り合った人から金銭を要求された場合は詐欺を疑いましょう。" +
		"「投資で一緒に稼ごう」「渡航費用を貸して」は典型パターンです。" +
		"実際に会ったことがない人への送金は絶対にやめましょう。",
}

// AdviceGenerator builds prefecture-specific warnings from regional
// scam statistics.
type AdviceGenerator struct {
	logger *logger.Logger
}

// NewAdviceGenerator creates a new advice generator
func NewAdviceGenerator(log *logger.Logger) *AdviceGenerator {
	return &AdviceGenerator{
		logger: log.WithComponent("advice-generator"),
	}
}

// Generate produces advice for the prefecture from its top scam types.
// Only the top 3 entries contribute; empty stats yield the no-data
// variant.
func (g *AdviceGenerator) Generate(prefecture string, topScamTypes []models.ScamTypeStat) *models.RegionalAdvice {
	if len(topScamTypes) == 0 {
		return &models.RegionalAdvice{
			Prefecture: prefecture,
			Advice: fmt.Sprintf(
				"%sの詐欺統計データがまだありません。全国的な注意喚起として、不審な電話やメールには十分ご注意ください。",
				prefecture,
			),
			Details: []models.AdviceDetail{},
		}
	}

	top := topScamTypes
	if len(top) > 3 {
		top = top[:3]
	}

	details := make([]models.AdviceDetail, 0, len(top))
	labels := make([]string, 0, len(top))
	for _, item := range top {
		label := adviceScamTypeLabels[item.ScamType]
		if label == "" {
			label = item.ScamType
		}
		advice, ok := scamTypeAdvice[item.ScamType]
		if !ok {
			advice = fmt.Sprintf("「%s」型の詐欺にご注意ください。不審に感じたら#9110に相談しましょう。", label)
		}
		details = append(details, models.AdviceDetail{
			ScamType: item.ScamType,
			Label:    label,
			Count:    item.Count,
			Amount:   item.Amount,
			Advice:   advice,
		})
		labels = append(labels, label)
	}

	summary := fmt.Sprintf(
		"%sでは、%sが多く報告されています。以下の注意点を確認し、ご家族とも共有してください。",
		prefecture, strings.Join(labels, ", "),
	)

	return &models.RegionalAdvice{
		Prefecture: prefecture,
		Advice:     summary,
		Details:    details,
	}
}
