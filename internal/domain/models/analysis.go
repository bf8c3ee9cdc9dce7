package models

// PatternEntry is one row of a keyword pattern table: a named category,
// its keyword list and the base weight it contributes when matched.
// Tables are defined at package init and never mutated afterwards, so
// they are safe to share across concurrent requests without locking.
type PatternEntry struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Weight   int      `json:"weight"`
}

// MatchResult is one matched category: the subset of its keywords found
// in the input text (in table order) and the category weight. Produced
// transiently per request, never persisted.
type MatchResult struct {
	Category        string   `json:"category"`
	MatchedKeywords []string `json:"matched_keywords"`
	Weight          int      `json:"weight"`
}

// ConversationAnalysis is the result of scoring a phone conversation
// transcript against the scam pattern tables.
type ConversationAnalysis struct {
	RiskScore     int      `json:"risk_score"`
	ScamType      string   `json:"scam_type"`
	Summary       string   `json:"summary"`
	KeywordsFound []string `json:"keywords_found"`
	ModelVersion  string   `json:"model_version"`
}

// QuickCheckResult is the condensed verdict for the "これ詐欺？" button.
type QuickCheckResult struct {
	IsSuspicious bool   `json:"is_suspicious"`
	RiskScore    int    `json:"risk_score"`
	Reason       string `json:"reason"`
}

// DarkJobResult is the result of checking a message or job posting for
// dark-job (闇バイト) recruitment signals.
type DarkJobResult struct {
	IsDarkJob     bool     `json:"is_dark_job"`
	RiskLevel     string   `json:"risk_level"` // high / medium / low
	RiskScore     int      `json:"risk_score"`
	KeywordsFound []string `json:"keywords_found"`
	Explanation   string   `json:"explanation"`
	ModelVersion  string   `json:"model_version"`

	// Populated only by the image flow.
	ExtractedText string `json:"extracted_text,omitempty"`
}

// MetadataAnalysis is the result of scoring call/SMS metadata.
type MetadataAnalysis struct {
	RiskScore     int      `json:"risk_score"`
	ScamType      string   `json:"scam_type"`
	Summary       string   `json:"summary"`
	KeywordsFound []string `json:"keywords_found"`
	Reasons       []string `json:"reasons"`
	ModelVersion  string   `json:"model_version"`
}

// ConversationSummary is the result of the summary flow: scam scoring
// plus extracted key points and recommended actions.
type ConversationSummary struct {
	RiskScore          int      `json:"risk_score"`
	ScamType           string   `json:"scam_type"`
	Summary            string   `json:"summary"`
	KeyPoints          []string `json:"key_points"`
	RecommendedActions []string `json:"recommended_actions"`
	KeywordsFound      []string `json:"keywords_found"`
	ModelVersion       string   `json:"model_version"`
}

// Risk levels shared by the analyzers.
const (
	RiskLevelHigh   = "high"
	RiskLevelMedium = "medium"
	RiskLevelLow    = "low"
)

// Call types accepted by the metadata analyzer.
const (
	CallTypeCall = "call"
	CallTypeSMS  = "sms"
)
