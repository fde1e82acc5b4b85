package lead

import (
	"testing"

	leadModels "leadgate/internal/domain/models/lead"
	"leadgate/internal/service/lead/phrases"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	registry, err := phrases.NewRegistry()
	if err != nil {
		t.Fatalf("loading phrase registry: %v", err)
	}
	return NewDetector(registry)
}

func TestEvaluate_CompletionMarkerWins(t *testing.T) {
	d := newTestDetector(t)

	record := leadModels.Record{
		leadModels.FieldFirstName:       "Anna",
		leadModels.FieldPhone:           "0612345678",
		leadModels.MarkerIntakeComplete: "true",
	}

	disposition, exit := d.Evaluate(record, nil, "en", TriggerTurn)
	if disposition != leadModels.DispositionCompleted {
		t.Errorf("disposition = %q, want completed", disposition)
	}
	if exit != ExitPhone {
		t.Errorf("exit = %q, want %q", exit, ExitPhone)
	}
}

func TestEvaluate_DeclinedMarker(t *testing.T) {
	d := newTestDetector(t)

	record := leadModels.Record{
		leadModels.FieldFirstName:          "Anna",
		leadModels.MarkerDeclinedSelection: "true",
	}

	disposition, exit := d.Evaluate(record, nil, "en", TriggerTurn)
	if disposition != leadModels.DispositionDeclined {
		t.Errorf("disposition = %q, want declined", disposition)
	}
	if exit != ExitName {
		t.Errorf("exit = %q, want %q", exit, ExitName)
	}
}

func TestEvaluate_ClosingPhraseSynthesizesCompletion(t *testing.T) {
	d := newTestDetector(t)

	// No marker on the record, but the assistant closed the conversation.
	record := leadModels.Record{leadModels.FieldFirstName: "Anna"}
	transcript := leadModels.Transcript{
		{Role: leadModels.RoleUser, Text: "That's everything."},
		{Role: leadModels.RoleAssistant, Text: "Perfect, we have everything we need. An agent will be in touch."},
	}

	disposition, _ := d.Evaluate(record, transcript, "en", TriggerTurn)
	if disposition != leadModels.DispositionCompleted {
		t.Errorf("disposition = %q, want completed", disposition)
	}
}

func TestEvaluate_ClosingPhraseSynthesizesDecline(t *testing.T) {
	d := newTestDetector(t)

	transcript := leadModels.Transcript{
		{Role: leadModels.RoleUser, Text: "I'd rather not give my number."},
		{Role: leadModels.RoleAssistant, Text: "No problem at all, feel free to come back any time."},
	}

	disposition, _ := d.Evaluate(leadModels.Record{}, transcript, "en", TriggerTurn)
	if disposition != leadModels.DispositionDeclined {
		t.Errorf("disposition = %q, want declined", disposition)
	}
}

func TestEvaluate_AbandonedOnTerminalTriggers(t *testing.T) {
	d := newTestDetector(t)

	record := leadModels.Record{leadModels.FieldLocation: "Amsterdam"}

	cases := []struct {
		trigger Trigger
		exit    string
	}{
		{TriggerTimeout, ExitLocation + "_timed_out"},
		{TriggerClose, ExitLocation + "_closed_early"},
		{TriggerTermination, ExitLocation + "_browser_closed"},
	}
	for _, tc := range cases {
		disposition, exit := d.Evaluate(record, nil, "en", tc.trigger)
		if disposition != leadModels.DispositionAbandoned {
			t.Errorf("trigger %q: disposition = %q, want abandoned", tc.trigger, disposition)
		}
		if exit != tc.exit {
			t.Errorf("trigger %q: exit = %q, want %q", tc.trigger, exit, tc.exit)
		}
	}
}

func TestEvaluate_InProgressOnTurn(t *testing.T) {
	d := newTestDetector(t)

	disposition, exit := d.Evaluate(leadModels.Record{}, nil, "en", TriggerTurn)
	if disposition != leadModels.DispositionInProgress {
		t.Errorf("disposition = %q, want in_progress", disposition)
	}
	if exit != ExitGreetingOnly {
		t.Errorf("exit = %q, want %q", exit, ExitGreetingOnly)
	}
}

func TestEvaluate_ExitPointDeepestFieldWins(t *testing.T) {
	d := newTestDetector(t)

	// Timeframe is the deepest intake stage; it wins over everything
	// shallower even when all fields are populated.
	record := leadModels.Record{
		leadModels.FieldFirstName:    "Anna",
		leadModels.FieldPhone:        "0612345678",
		leadModels.FieldLocation:     "Amsterdam",
		leadModels.FieldBudget:       "450000",
		leadModels.FieldBedrooms:     "2",
		leadModels.FieldPropertyType: "apartment",
		leadModels.FieldPurpose:      "primary residence",
		leadModels.FieldTimeframe:    "3 months",
	}

	_, exit := d.Evaluate(record, nil, "en", TriggerTurn)
	if exit != ExitTimeframe {
		t.Errorf("exit = %q, want %q", exit, ExitTimeframe)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	d := newTestDetector(t)

	record := leadModels.Record{
		leadModels.FieldFirstName:       "Anna",
		leadModels.MarkerIntakeComplete: "true",
	}

	d1, e1 := d.Evaluate(record, nil, "en", TriggerClose)
	d2, e2 := d.Evaluate(record, nil, "en", TriggerClose)
	if d1 != d2 || e1 != e2 {
		t.Errorf("evaluation not stable: (%q,%q) then (%q,%q)", d1, e1, d2, e2)
	}
}

func TestInferMarker_IgnoresUserTurns(t *testing.T) {
	d := newTestDetector(t)

	transcript := leadModels.Transcript{
		{Role: leadModels.RoleUser, Text: "we have everything we need"},
	}
	if marker, ok := d.InferMarker("en", transcript); ok {
		t.Errorf("inferred %q from a user turn", marker)
	}
}

func TestInferMarker_FallsBackToEnglishTables(t *testing.T) {
	d := newTestDetector(t)

	transcript := leadModels.Transcript{
		{Role: leadModels.RoleAssistant, Text: "We have everything we need, thank you."},
	}
	// An unknown language code still matches through the English tables.
	if _, ok := d.InferMarker("zz", transcript); !ok {
		t.Error("expected closing phrase to match via fallback tables")
	}
}
