package lead

import (
	"fmt"
	"strings"
)

// Record is the accumulated structured summary of what a visitor has revealed
// during a session. Fields are grouped into contact info, numbered Q&A pairs,
// structured property preferences and completion markers.
type Record map[string]string

// Contact fields.
const (
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldPhone         = "phone"
	FieldCountryPrefix = "country_prefix"
)

// Structured preference fields, ordered by funnel depth (location is asked
// first, timeframe last).
const (
	FieldLocation     = "location"
	FieldBudget       = "budget"
	FieldBedrooms     = "bedrooms"
	FieldPropertyType = "property_type"
	FieldPurpose      = "purpose"
	FieldTimeframe    = "timeframe"
)

// Completion markers, set by the upstream responder via structured tags or
// synthesized by the completion detector from closing phrases.
const (
	MarkerIntakeComplete    = "intake_complete"
	MarkerDeclinedSelection = "declined_selection"
)

// MaxQAPairs is the cap on numbered question/answer pairs in a record.
const MaxQAPairs = 10

// QuestionField returns the field name for the nth question (1-based).
func QuestionField(n int) string { return fmt.Sprintf("question_%d", n) }

// AnswerField returns the field name for the nth answer (1-based).
func AnswerField(n int) string { return fmt.Sprintf("answer_%d", n) }

// Has reports whether the field is set to a non-empty value.
func (r Record) Has(field string) bool {
	return strings.TrimSpace(r[field]) != ""
}

// IsEmpty reports whether the record holds no non-empty fields.
func (r Record) IsEmpty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// HasContact reports whether any contact field is populated.
func (r Record) HasContact() bool {
	return r.Has(FieldFirstName) || r.Has(FieldLastName) || r.Has(FieldPhone)
}

// QACount returns how many numbered Q&A pairs are populated.
func (r Record) QACount() int {
	count := 0
	for n := 1; n <= MaxQAPairs; n++ {
		if r.Has(QuestionField(n)) && r.Has(AnswerField(n)) {
			count++
		}
	}
	return count
}

// NextQASlot returns the first unused Q&A pair number, or 0 if all slots are
// taken.
func (r Record) NextQASlot() int {
	for n := 1; n <= MaxQAPairs; n++ {
		if !r.Has(QuestionField(n)) {
			return n
		}
	}
	return 0
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
