package lead

import (
	"testing"
	"time"

	leadModels "leadgate/internal/domain/models/lead"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name   string
		record leadModels.Record
		want   int
	}{
		{"empty", leadModels.Record{}, 0},
		{"name only", leadModels.Record{leadModels.FieldFirstName: "Anna"}, 10},
		{"valid phone", leadModels.Record{leadModels.FieldPhone: "0612345678"}, 40},
		{"implausible phone scores nothing", leadModels.Record{leadModels.FieldPhone: "123"}, 0},
		{
			"full contact with preference",
			leadModels.Record{
				leadModels.FieldFirstName: "Anna",
				leadModels.FieldLastName:  "de Vries",
				leadModels.FieldPhone:     "0612345678",
				leadModels.FieldLocation:  "Amsterdam",
			},
			60,
		},
		{
			"qa depth capped at five",
			leadModels.Record{
				leadModels.QuestionField(1): "q", leadModels.AnswerField(1): "a",
				leadModels.QuestionField(2): "q", leadModels.AnswerField(2): "a",
				leadModels.QuestionField(3): "q", leadModels.AnswerField(3): "a",
				leadModels.QuestionField(4): "q", leadModels.AnswerField(4): "a",
				leadModels.QuestionField(5): "q", leadModels.AnswerField(5): "a",
				leadModels.QuestionField(6): "q", leadModels.AnswerField(6): "a",
				leadModels.QuestionField(7): "q", leadModels.AnswerField(7): "a",
			},
			5,
		},
		{
			"completion marker bonus",
			leadModels.Record{
				leadModels.FieldPhone:           "0612345678",
				leadModels.MarkerIntakeComplete: "true",
			},
			50,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.record); got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := started.Add(95 * time.Second)

	session := &leadModels.Session{
		ID:       "sess-1",
		Language: "nl",
		PageContext: leadModels.PageContext{
			SiteID:   "site-1",
			Referrer: "https://www.funda.nl/",
			EntryURL: "https://example.com/listing/42",
		},
		Record: leadModels.Record{
			leadModels.FieldFirstName:   "Anna",
			leadModels.FieldPhone:       "0612345678",
			leadModels.FieldLocation:    "Amsterdam",
			leadModels.QuestionField(1): "Which area?",
			leadModels.AnswerField(1):   "De Pijp",
			// Slot 2 has a question without an answer; it must be skipped.
			leadModels.QuestionField(2): "dangling",
			leadModels.QuestionField(3): "Budget range?",
			leadModels.AnswerField(3):   "Up to 450k",
		},
		StartedAt: started,
	}

	payload := BuildPayload(session, leadModels.DispositionCompleted, "reached_location_question", now)

	if payload.SessionID != "sess-1" {
		t.Errorf("session id = %q", payload.SessionID)
	}
	if payload.Contact.FirstName != "Anna" || payload.Contact.Phone != "0612345678" {
		t.Errorf("contact = %+v", payload.Contact)
	}
	if payload.Preferences.Location != "Amsterdam" {
		t.Errorf("location = %q", payload.Preferences.Location)
	}

	if payload.QA.Count != 2 {
		t.Fatalf("qa count = %d, want 2", payload.QA.Count)
	}
	if payload.QA.Pairs[0].Number != 1 || payload.QA.Pairs[0].Answer != "De Pijp" {
		t.Errorf("pair 0 = %+v", payload.QA.Pairs[0])
	}
	if payload.QA.Pairs[1].Number != 3 || payload.QA.Pairs[1].Question != "Budget range?" {
		t.Errorf("pair 1 = %+v", payload.QA.Pairs[1])
	}

	meta := payload.Meta
	if meta.Language != "nl" {
		t.Errorf("language = %q", meta.Language)
	}
	if meta.Disposition != leadModels.DispositionCompleted {
		t.Errorf("disposition = %q", meta.Disposition)
	}
	if meta.ExitPoint != "reached_location_question" {
		t.Errorf("exit point = %q", meta.ExitPoint)
	}
	if meta.DurationSeconds != 95 {
		t.Errorf("duration = %d, want 95", meta.DurationSeconds)
	}
	if meta.SiteID != "site-1" || meta.Referrer != "https://www.funda.nl/" {
		t.Errorf("meta context = %+v", meta)
	}
	if !meta.SubmittedAt.Equal(now) {
		t.Errorf("submitted at = %v", meta.SubmittedAt)
	}
	if meta.LeadScore != 57 {
		t.Errorf("lead score = %d, want 57", meta.LeadScore)
	}
}
