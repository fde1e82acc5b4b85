package lead

import (
	leadModels "leadgate/internal/domain/models/lead"
	"leadgate/internal/service/lead/phrases"
)

// Trigger identifies what caused a completion evaluation.
type Trigger string

const (
	TriggerTurn        Trigger = "turn"
	TriggerTimeout     Trigger = "timeout"
	TriggerClose       Trigger = "close"
	TriggerTermination Trigger = "termination"
)

// Exit points, deepest intake stage first. The detector reports the first
// populated field walking this order.
const (
	ExitTimeframe    = "reached_timeframe_question"
	ExitPurpose      = "reached_purpose_question"
	ExitPropertyType = "reached_property_type_question"
	ExitBedrooms     = "reached_bedrooms_question"
	ExitBudget       = "reached_budget_question"
	ExitLocation     = "reached_location_question"
	ExitPhone        = "reached_phone_question"
	ExitName         = "reached_name_question"
	ExitGreetingOnly = "greeting_only"
)

// funnel maps intake fields to exit points, deepest to shallowest.
var funnel = []struct {
	field string
	exit  string
}{
	{leadModels.FieldTimeframe, ExitTimeframe},
	{leadModels.FieldPurpose, ExitPurpose},
	{leadModels.FieldPropertyType, ExitPropertyType},
	{leadModels.FieldBedrooms, ExitBedrooms},
	{leadModels.FieldBudget, ExitBudget},
	{leadModels.FieldLocation, ExitLocation},
	{leadModels.FieldPhone, ExitPhone},
	{leadModels.FieldFirstName, ExitName},
}

// Detector decides whether a conversation is finished and with what
// disposition. Evaluation is pure: the same (record, transcript, trigger)
// always yields the same result.
type Detector struct {
	phrases *phrases.Registry
}

// NewDetector creates a completion detector over the given phrase tables.
func NewDetector(registry *phrases.Registry) *Detector {
	return &Detector{phrases: registry}
}

// Evaluate computes the disposition and exit point for the current session
// state. Markers set by the responder win; absent markers, a closing phrase
// in the last assistant turn is treated as the marker the responder forgot
// to set; otherwise timer/close/termination triggers mean abandonment.
func (d *Detector) Evaluate(record leadModels.Record, transcript leadModels.Transcript, lang string, trigger Trigger) (leadModels.Disposition, string) {
	exitPoint := d.exitPoint(record, trigger)

	if record.Has(leadModels.MarkerIntakeComplete) {
		return leadModels.DispositionCompleted, exitPoint
	}
	if record.Has(leadModels.MarkerDeclinedSelection) {
		return leadModels.DispositionDeclined, exitPoint
	}

	if marker, ok := d.InferMarker(lang, transcript); ok {
		if marker == leadModels.MarkerIntakeComplete {
			return leadModels.DispositionCompleted, exitPoint
		}
		return leadModels.DispositionDeclined, exitPoint
	}

	switch trigger {
	case TriggerTimeout, TriggerClose, TriggerTermination:
		return leadModels.DispositionAbandoned, exitPoint
	default:
		return leadModels.DispositionInProgress, exitPoint
	}
}

// InferMarker detects a closing phrase in the most recent assistant turn and
// returns the marker the record should carry. Compensates for the responder
// forgetting to tag completion.
func (d *Detector) InferMarker(lang string, transcript leadModels.Transcript) (string, bool) {
	last := transcript.LastAssistant()
	if last == nil {
		return "", false
	}

	if d.phrases.Matches(lang, phrases.CategoryClosingComplete, last.Text) {
		return leadModels.MarkerIntakeComplete, true
	}
	if d.phrases.Matches(lang, phrases.CategoryClosingDeclined, last.Text) {
		return leadModels.MarkerDeclinedSelection, true
	}
	return "", false
}

// exitPoint walks the funnel deepest-first and suffixes the result with how
// the session ended.
func (d *Detector) exitPoint(record leadModels.Record, trigger Trigger) string {
	exit := ExitGreetingOnly
	for _, stage := range funnel {
		if record.Has(stage.field) {
			exit = stage.exit
			break
		}
	}

	switch trigger {
	case TriggerTimeout:
		return exit + "_timed_out"
	case TriggerClose:
		return exit + "_closed_early"
	case TriggerTermination:
		return exit + "_browser_closed"
	default:
		return exit
	}
}
