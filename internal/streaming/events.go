package streaming

import (
	"time"

	"github.com/google/uuid"

	"mamoritalk-ai/internal/domain/models"
)

// EventType represents the type of alert event
type EventType string

const (
	EventTypeScamConversation   EventType = "scam_conversation"
	EventTypeDarkJobDetected    EventType = "dark_job_detected"
	EventTypeSuspiciousMetadata EventType = "suspicious_metadata"
)

// AlertEvent represents a real-time risk alert pushed to watching
// family members
type AlertEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	RiskScore int    `json:"risk_score"`
	RiskLevel string `json:"risk_level"`
	ScamType  string `json:"scam_type,omitempty"`
	Summary   string `json:"summary"`

	KeywordsFound []string `json:"keywords_found,omitempty"`
	ModelVersion  string   `json:"model_version,omitempty"`

	// Call/SMS origin, only set for metadata alerts
	PhoneNumber string `json:"phone_number,omitempty"`
	CallType    string `json:"call_type,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// riskLevelForScore maps a 0-100 score to the three-tier alert level.
func riskLevelForScore(score int) string {
	switch {
	case score >= 70:
		return models.RiskLevelHigh
	case score >= 40:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// NewConversationAlert creates an alert event from a conversation analysis
func NewConversationAlert(result *models.ConversationAnalysis) *AlertEvent {
	return &AlertEvent{
		ID:            uuid.New().String(),
		Type:          EventTypeScamConversation,
		Timestamp:     time.Now(),
		RiskScore:     result.RiskScore,
		RiskLevel:     riskLevelForScore(result.RiskScore),
		ScamType:      result.ScamType,
		Summary:       result.Summary,
		KeywordsFound: result.KeywordsFound,
		ModelVersion:  result.ModelVersion,
	}
}

// NewDarkJobAlert creates an alert event from a dark-job check
func NewDarkJobAlert(result *models.DarkJobResult) *AlertEvent {
	return &AlertEvent{
		ID:            uuid.New().String(),
		Type:          EventTypeDarkJobDetected,
		Timestamp:     time.Now(),
		RiskScore:     result.RiskScore,
		RiskLevel:     result.RiskLevel,
		Summary:       result.Explanation,
		KeywordsFound: result.KeywordsFound,
		ModelVersion:  result.ModelVersion,
	}
}

// NewMetadataAlert creates an alert event from a call/SMS metadata analysis
func NewMetadataAlert(result *models.MetadataAnalysis, phoneNumber, callType string) *AlertEvent {
	return &AlertEvent{
		ID:            uuid.New().String(),
		Type:          EventTypeSuspiciousMetadata,
		Timestamp:     time.Now(),
		RiskScore:     result.RiskScore,
		RiskLevel:     riskLevelForScore(result.RiskScore),
		ScamType:      result.ScamType,
		Summary:       result.Summary,
		KeywordsFound: result.KeywordsFound,
		ModelVersion:  result.ModelVersion,
		PhoneNumber:   phoneNumber,
		CallType:      callType,
	}
}

// Subscription represents a client's alert filtering preferences
type Subscription struct {
	// Minimum risk score to receive (0 = all)
	MinRiskScore int `json:"min_risk_score,omitempty"`

	// Filter by event types (empty = all)
	Types []EventType `json:"types,omitempty"`

	// Filter by scam types (empty = all)
	ScamTypes []string `json:"scam_types,omitempty"`

	// Include only high risk alerts
	HighRiskOnly bool `json:"high_risk_only,omitempty"`
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *AlertEvent) bool {
	if event.RiskScore < s.MinRiskScore {
		return false
	}

	if len(s.Types) > 0 {
		found := false
		for _, t := range s.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(s.ScamTypes) > 0 {
		found := false
		for _, t := range s.ScamTypes {
			if t == event.ScamType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.HighRiskOnly && event.RiskLevel != models.RiskLevelHigh {
		return false
	}

	return true
}
