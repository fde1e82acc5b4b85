package lead

import (
	"time"

	leadModels "leadgate/internal/domain/models/lead"
)

// Score derives a lead-priority score (0-100) from how much the session
// collected. A validated phone is worth the most; preferences and Q&A depth
// refine the ordering for the sales team.
func Score(record leadModels.Record) int {
	score := 0

	if ValidPhone(record[leadModels.FieldPhone]) {
		score += 40
	}
	if record.Has(leadModels.FieldFirstName) {
		score += 10
	}
	if record.Has(leadModels.FieldLastName) {
		score += 5
	}

	for _, field := range []string{
		leadModels.FieldLocation,
		leadModels.FieldBudget,
		leadModels.FieldBedrooms,
		leadModels.FieldPropertyType,
		leadModels.FieldPurpose,
		leadModels.FieldTimeframe,
	} {
		if record.Has(field) {
			score += 5
		}
	}

	qa := record.QACount()
	if qa > 5 {
		qa = 5
	}
	score += qa

	if record.Has(leadModels.MarkerIntakeComplete) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// BuildPayload assembles the single outbound CRM document from the session's
// accumulated state. Pure; the coordinator calls it exactly once per session.
func BuildPayload(session *leadModels.Session, disposition leadModels.Disposition, exitPoint string, now time.Time) *leadModels.Payload {
	record := session.Record

	pairs := make([]leadModels.QAPair, 0, record.QACount())
	for n := 1; n <= leadModels.MaxQAPairs; n++ {
		if !record.Has(leadModels.QuestionField(n)) || !record.Has(leadModels.AnswerField(n)) {
			continue
		}
		pairs = append(pairs, leadModels.QAPair{
			Number:   n,
			Question: record[leadModels.QuestionField(n)],
			Answer:   record[leadModels.AnswerField(n)],
		})
	}

	return &leadModels.Payload{
		SessionID: session.ID,
		Contact: leadModels.ContactBlock{
			FirstName:     record[leadModels.FieldFirstName],
			LastName:      record[leadModels.FieldLastName],
			Phone:         record[leadModels.FieldPhone],
			CountryPrefix: record[leadModels.FieldCountryPrefix],
		},
		QA: leadModels.QABlock{
			Count: len(pairs),
			Pairs: pairs,
		},
		Preferences: leadModels.PreferenceBlock{
			Location:     record[leadModels.FieldLocation],
			Budget:       record[leadModels.FieldBudget],
			Bedrooms:     record[leadModels.FieldBedrooms],
			PropertyType: record[leadModels.FieldPropertyType],
			Purpose:      record[leadModels.FieldPurpose],
			Timeframe:    record[leadModels.FieldTimeframe],
		},
		Meta: leadModels.MetaBlock{
			Language:        session.Language,
			Disposition:     disposition,
			ExitPoint:       exitPoint,
			DurationSeconds: int(now.Sub(session.StartedAt).Seconds()),
			LeadScore:       Score(record),
			Referrer:        session.PageContext.Referrer,
			EntryURL:        session.PageContext.EntryURL,
			SiteID:          session.PageContext.SiteID,
			SubmittedAt:     now,
		},
	}
}
