package models

const ReportStatusComplete = "COMPLETE"

// Traffic light colors keyed by alignment score.
const (
	ColorGreen  = "GREEN"
	ColorYellow = "YELLOW"
	ColorRed    = "RED"
	ColorGrey   = "GREY"
)

// TrafficLightColor maps an alignment score to its UI color.
func TrafficLightColor(s AlignmentScore) string {
	switch s {
	case ScoreHigh:
		return ColorGreen
	case ScoreMedium:
		return ColorYellow
	case ScoreLow:
		return ColorRed
	default:
		return ColorGrey
	}
}

// AuditReport is the terminal aggregate of one audit request.
type AuditReport struct {
	ReportID     string       `json:"report_id"`
	Timestamp    string       `json:"timestamp"`
	Asset        string       `json:"asset"`
	Status       string       `json:"status"`
	UIComponents UIComponents `json:"ui_components"`
	Details      AuditDetails `json:"details"`
}

type UIComponents struct {
	TrafficLight TrafficLight `json:"traffic_light"`
	RegimeCard   RegimeCard   `json:"regime_card"`
	RiskCard     RiskCard     `json:"risk_card"`
	AIAnalysis   AIAnalysis   `json:"ai_analysis"`
}

type TrafficLight struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

type RegimeCard struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Subtext string `json:"subtext"`
}

type RiskCard struct {
	Title   string `json:"title"`
	Metric1 string `json:"metric_1"`
	Metric2 string `json:"metric_2"`
}

type AIAnalysis struct {
	Text     string   `json:"text"`
	Blockers []string `json:"blockers"`
}

// AuditDetails exposes the structured outputs the UI bundle was built from.
type AuditDetails struct {
	Strategy        string          `json:"strategy_type"`
	Regime          RegimeState     `json:"regime"`
	Alignment       AlignmentResult `json:"alignment"`
	Metrics         MetricSnapshot  `json:"metrics"`
	Risk            RiskAssessment  `json:"risk"`
	NarrativeSource string          `json:"narrative_source"`
}
