package models

// ScamTypeStat is one entry of a prefecture's top-scam-type ranking,
// as reported by the statistics backend.
type ScamTypeStat struct {
	ScamType string  `json:"scam_type"`
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`
}

// AdviceDetail is the per-scam-type advisory block of a regional advice.
type AdviceDetail struct {
	ScamType string  `json:"scam_type"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`
	Advice   string  `json:"advice"`
}

// RegionalAdvice is the composed advisory for one prefecture.
type RegionalAdvice struct {
	Prefecture string         `json:"prefecture"`
	Advice     string         `json:"advice"`
	Details    []AdviceDetail `json:"details"`
}
