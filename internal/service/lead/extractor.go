package lead

import (
	"log/slog"
	"strings"

	leadModels "leadgate/internal/domain/models/lead"
	"leadgate/internal/service/lead/phrases"
)

// ExtractConfig holds the fallback-extraction thresholds. They are length
// heuristics, inherently fuzzy; tune per deployment rather than trusting
// them as a parser.
type ExtractConfig struct {
	// MinUserQuestionLen is the minimum length for a user message to count
	// as a substantive question (Q&A rule: user asks, assistant answers).
	MinUserQuestionLen int
	// MinAssistantAnswerLen is the minimum length for the assistant reply
	// completing a user-asked pair.
	MinAssistantAnswerLen int
	// MinUserAnswerLen is the minimum length for a user reply completing an
	// assistant-asked pair.
	MinUserAnswerLen int
	// FallbackLeadingTurns is where the content phase is assumed to begin
	// when no content-start phrase or question can be located.
	FallbackLeadingTurns int
}

// DefaultExtractConfig returns the stock thresholds.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		MinUserQuestionLen:    15,
		MinAssistantAnswerLen: 50,
		MinUserAnswerLen:      2,
		FallbackLeadingTurns:  4,
	}
}

// Extractor produces partial record patches from responder tags (primary) or
// from the raw transcript (fallback). Both paths are pure.
type Extractor struct {
	phrases *phrases.Registry
	cfg     ExtractConfig
	logger  *slog.Logger
}

// NewExtractor creates an extractor over the given phrase tables.
func NewExtractor(registry *phrases.Registry, cfg ExtractConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		phrases: registry,
		cfg:     cfg,
		logger:  logger,
	}
}

// FromTags converts the responder's structured tags into a record patch.
// Tags are taken verbatim except phone-like fields, which must pass the digit
// heuristic; implausible values are discarded, not surfaced.
func (e *Extractor) FromTags(tags map[string]string) leadModels.Record {
	patch := leadModels.Record{}
	for field, value := range tags {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if field == leadModels.FieldPhone && !ValidPhone(value) {
			e.logger.Debug("discarding implausible phone tag", "value_digits", len(StripNonDigits(value)))
			continue
		}
		patch[field] = value
	}
	return patch
}

// FromTranscript mines the transcript for contact fields and Q&A pairs when
// structured tags are missing.
func (e *Extractor) FromTranscript(lang string, transcript leadModels.Transcript) leadModels.Record {
	patch := leadModels.Record{}
	e.mineContact(lang, transcript, patch)
	e.mineQA(lang, transcript, patch)
	return patch
}

// mineContact scans assistant->user turn pairs for "ask for X" phrasings
// followed by a usable user reply.
func (e *Extractor) mineContact(lang string, transcript leadModels.Transcript, patch leadModels.Record) {
	for i := 0; i < len(transcript)-1; i++ {
		ask, reply := transcript[i], transcript[i+1]
		if ask.Role != leadModels.RoleAssistant || reply.Role != leadModels.RoleUser {
			continue
		}

		answer := strings.TrimSpace(reply.Text)
		if answer == "" {
			continue
		}

		switch {
		case !patch.Has(leadModels.FieldFirstName) &&
			e.phrases.Matches(lang, phrases.CategoryNameAsk, ask.Text):
			words := strings.Fields(answer)
			patch[leadModels.FieldFirstName] = words[0]
			if len(words) > 1 {
				patch[leadModels.FieldLastName] = strings.Join(words[1:], " ")
			}

		case !patch.Has(leadModels.FieldPhone) &&
			e.phrases.Matches(lang, phrases.CategoryPhoneAsk, ask.Text):
			if ValidPhone(answer) {
				patch[leadModels.FieldPhone] = answer
			}
		}
	}
}

// mineQA records up to MaxQAPairs numbered question/answer pairs from the
// content phase, first-found order. Two symmetric rules: a substantive user
// question answered substantially by the assistant, or a structured assistant
// question answered non-trivially by the user. Setup turns and short
// confirmations never start a pair.
func (e *Extractor) mineQA(lang string, transcript leadModels.Transcript, patch leadModels.Record) {
	for i := e.contentStartIndex(lang, transcript); i < len(transcript)-1; i++ {
		slot := patch.NextQASlot()
		if slot == 0 {
			return
		}

		cur, next := transcript[i], transcript[i+1]
		question := strings.TrimSpace(cur.Text)
		answer := strings.TrimSpace(next.Text)

		recorded := false
		switch {
		case cur.Role == leadModels.RoleUser && next.Role == leadModels.RoleAssistant:
			recorded = e.userAskedPair(lang, question, answer)
		case cur.Role == leadModels.RoleAssistant && next.Role == leadModels.RoleUser:
			recorded = e.assistantAskedPair(lang, question, answer)
		}

		if recorded {
			patch[leadModels.QuestionField(slot)] = question
			patch[leadModels.AnswerField(slot)] = answer
			i++ // pair consumed both turns
		}
	}
}

// userAskedPair: the visitor asked something substantive and the assistant
// replied substantially.
func (e *Extractor) userAskedPair(lang, question, answer string) bool {
	if len([]rune(question)) < e.cfg.MinUserQuestionLen {
		return false
	}
	if e.phrases.IsAcknowledgement(lang, question) {
		return false
	}
	return len([]rune(answer)) >= e.cfg.MinAssistantAnswerLen
}

// assistantAskedPair: the assistant asked a structured intake question and
// the visitor gave a non-trivial answer.
func (e *Extractor) assistantAskedPair(lang, question, answer string) bool {
	if !strings.Contains(question, "?") && !phrases.HasOptionsMarker(question) {
		return false
	}
	if e.phrases.IsSetup(lang, question) {
		return false
	}
	if len([]rune(answer)) < e.cfg.MinUserAnswerLen {
		return false
	}
	return !e.phrases.IsAcknowledgement(lang, answer)
}

// contentStartIndex locates where session setup ends and content begins:
// the first assistant turn matching a content-start phrase, else the first
// assistant question that is not a setup turn, else a fixed number of
// leading turns.
func (e *Extractor) contentStartIndex(lang string, transcript leadModels.Transcript) int {
	for i, turn := range transcript {
		if turn.Role == leadModels.RoleAssistant &&
			e.phrases.Matches(lang, phrases.CategoryContentStart, turn.Text) {
			return i
		}
	}

	for i, turn := range transcript {
		if turn.Role == leadModels.RoleAssistant &&
			strings.Contains(turn.Text, "?") &&
			!e.phrases.IsSetup(lang, turn.Text) {
			return i
		}
	}

	if len(transcript) < e.cfg.FallbackLeadingTurns {
		return len(transcript)
	}
	return e.cfg.FallbackLeadingTurns
}
