package services

import (
	"fmt"
	"regexp"
	"strings"

	"mamoritalk-ai/internal/domain/models"
	"mamoritalk-ai/pkg/logger"
)

// MetadataModelVersion identifies the metadata rule revision.
const MetadataModelVersion = "metadata-rule-v0.1.0"

// suspiciousPrefixes are area codes and international prefixes commonly
// spoofed by scam callers. Domestic 050 (IP phone) and 0120 (toll-free)
// are included because both get spoofed.
var suspiciousPrefixes = []string{
	"+1", "+44", "+86", "+63", "+234", "+855", "050", "0120",
}

var smsScamKeywords = []string{
	"当選", "未払い", "口座", "振込", "至急", "本日中",
	"最終通告", "裁判", "差し押さえ", "支払い期限",
	"不正アクセス", "不正利用", "アカウント停止",
	"ログイン確認", "本人確認", "お届け物",
	"還付金", "払い戻し", "投資", "高収益",
	"クリックしてください", "URLをタップ",
}

var smsURLPattern = regexp.MustCompile(`https?://[^\s]+|[a-zA-Z0-9.-]+\.(com|jp|net|org|xyz|top|click|info)/[^\s]*`)

var smsUrgencyWords = []string{"今すぐ", "急いで", "至急", "本日中", "期限"}

// MetadataAnalyzer scores auto-forwarded call/SMS events by number
// reputation and, for SMS, message content.
type MetadataAnalyzer struct {
	logger *logger.Logger
}

// NewMetadataAnalyzer creates a new metadata analyzer
func NewMetadataAnalyzer(log *logger.Logger) *MetadataAnalyzer {
	return &MetadataAnalyzer{
		logger: log.WithComponent("metadata-analyzer"),
	}
}

// Analyze scores an event. SMS content only contributes when callType
// is "sms" and the body is non-empty.
func (a *MetadataAnalyzer) Analyze(phoneNumber string, callType string, smsContent string) *models.MetadataAnalysis {
	riskScore := 0
	var reasons []string
	scamType := "unknown"
	keywordsFound := []string{}

	numberRisk, numberReasons := a.analyzeNumber(phoneNumber)
	riskScore += numberRisk
	reasons = append(reasons, numberReasons...)

	if smsContent != "" && callType == models.CallTypeSMS {
		smsRisk, smsReasons, smsKeywords := a.analyzeSMS(smsContent)
		riskScore += smsRisk
		reasons = append(reasons, smsReasons...)
		keywordsFound = append(keywordsFound, smsKeywords...)

		if smsRisk >= 40 {
			scamType = "sms_phishing"
		}
	}

	if numberRisk >= 30 && scamType == "unknown" {
		scamType = "suspicious_call"
	}

	riskScore = clampScore(riskScore)

	return &models.MetadataAnalysis{
		RiskScore:     riskScore,
		ScamType:      scamType,
		Summary:       buildMetadataSummary(riskScore, reasons, callType),
		KeywordsFound: keywordsFound,
		Reasons:       reasons,
		ModelVersion:  MetadataModelVersion,
	}
}

func (a *MetadataAnalyzer) analyzeNumber(phoneNumber string) (int, []string) {
	risk := 0
	var reasons []string

	if strings.HasPrefix(phoneNumber, "+") && !strings.HasPrefix(phoneNumber, "+81") {
		risk += 40
		reasons = append(reasons, "国際番号からの着信")
	}

	for _, prefix := range suspiciousPrefixes {
		if strings.HasPrefix(phoneNumber, prefix) {
			risk += 20
			reasons = append(reasons, "疑わしいプレフィックス: "+prefix)
			break
		}
	}

	switch phoneNumber {
	case "非通知", "unknown", "private", "":
		risk += 30
		reasons = append(reasons, "非通知番号")
	}

	stripped := strings.NewReplacer("+", "", "-", "").Replace(phoneNumber)
	if len([]rune(stripped)) < 8 {
		risk += 15
		reasons = append(reasons, "短い番号（偽装の可能性）")
	}

	return risk, reasons
}

func (a *MetadataAnalyzer) analyzeSMS(content string) (int, []string, []string) {
	risk := 0
	var reasons []string
	var keywords []string

	for _, keyword := range smsScamKeywords {
		if strings.Contains(content, keyword) {
			risk += 10
			keywords = append(keywords, keyword)
		}
	}
	if len(keywords) > 0 {
		sample := keywords
		if len(sample) > 5 {
			sample = sample[:5]
		}
		reasons = append(reasons, "詐欺関連キーワード検出: "+strings.Join(sample, ", "))
	}

	if smsURLPattern.MatchString(content) {
		risk += 20
		reasons = append(reasons, "不審なURLが含まれています")
	}

	for _, w := range smsUrgencyWords {
		if strings.Contains(content, w) {
			risk += 15
			reasons = append(reasons, "緊急性を煽る表現を検出")
			break
		}
	}

	return risk, reasons, keywords
}

func buildMetadataSummary(riskScore int, reasons []string, callType string) string {
	callLabel := "着信"
	if callType == models.CallTypeSMS {
		callLabel = "SMS"
	}

	var level string
	switch {
	case riskScore >= 70:
		level = "高リスク"
	case riskScore >= 40:
		level = "中リスク"
	case riskScore >= 20:
		level = "やや疑わしい"
	default:
		level = "低リスク"
	}

	summary := fmt.Sprintf("この%sは%sと判定されました。", callLabel, level)
	if len(reasons) > 0 {
		top := reasons
		if len(top) > 3 {
			top = top[:3]
		}
		summary += "理由: " + strings.Join(top, "; ")
	}
	return summary
}
