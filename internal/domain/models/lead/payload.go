package lead

import (
	"time"
)

// Payload is the single outbound document delivered to the CRM webhook when a
// session ends. Built exactly once per session by the delivery coordinator.
type Payload struct {
	SessionID   string          `json:"session_id"`
	Contact     ContactBlock    `json:"contact"`
	QA          QABlock         `json:"qa"`
	Preferences PreferenceBlock `json:"preferences"`
	Meta        MetaBlock       `json:"meta"`
}

// ContactBlock carries the visitor's contact fields.
type ContactBlock struct {
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CountryPrefix string `json:"country_prefix,omitempty"`
}

// QAPair is one numbered question/answer exchange. Direction-agnostic: either
// side may have asked the question.
type QAPair struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QABlock carries the numbered Q&A pairs plus how many were filled.
type QABlock struct {
	Count int      `json:"count"`
	Pairs []QAPair `json:"pairs,omitempty"`
}

// PreferenceBlock carries the structured property-preference fields.
type PreferenceBlock struct {
	Location     string `json:"location,omitempty"`
	Budget       string `json:"budget,omitempty"`
	Bedrooms     string `json:"bedrooms,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Timeframe    string `json:"timeframe,omitempty"`
}

// MetaBlock carries system and page-context metadata.
type MetaBlock struct {
	Language        string      `json:"language"`
	Disposition     Disposition `json:"disposition"`
	ExitPoint       string      `json:"exit_point"`
	DurationSeconds int         `json:"duration_seconds"`
	LeadScore       int         `json:"lead_score"`
	Referrer        string      `json:"referrer,omitempty"`
	EntryURL        string      `json:"entry_url,omitempty"`
	SiteID          string      `json:"site_id,omitempty"`
	SubmittedAt     time.Time   `json:"submitted_at"`
}
