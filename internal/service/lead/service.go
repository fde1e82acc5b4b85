package lead

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"leadgate/internal/config"
	"leadgate/internal/domain"
	leadModels "leadgate/internal/domain/models/lead"
	leadRepo "leadgate/internal/domain/repositories/lead"
	leadSvc "leadgate/internal/domain/services/lead"
	"leadgate/internal/service/lead/phrases"
)

// ServiceConfig holds the coordinator's timing knobs and fallback policy.
type ServiceConfig struct {
	InactivityTimeout time.Duration
	RecoveryGrace     time.Duration
	PersistTimeout    time.Duration
	DefaultLanguage   string
	// FallbackMinTurns is how many turns must have passed before the
	// transcript-mining extractor runs when tags are missing.
	FallbackMinTurns int
}

// DefaultServiceConfig returns the stock configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		InactivityTimeout: config.InactivityTimeout,
		RecoveryGrace:     config.RecoveryGrace,
		PersistTimeout:    5 * time.Second,
		DefaultLanguage:   "en",
		FallbackMinTurns:  4,
	}
}

// Service implements the SessionService interface: the per-session
// lead-capture pipeline and the delivery coordinator state machine.
type Service struct {
	store     *sessionStore
	responder leadSvc.Responder
	records   leadRepo.RecordRepository
	delivery  leadSvc.DeliveryClient
	beacon    leadSvc.BeaconTransport
	extractor *Extractor
	detector  *Detector
	phrases   *phrases.Registry
	cfg       ServiceConfig
	logger    *slog.Logger
}

// NewService creates the session service.
func NewService(
	responder leadSvc.Responder,
	records leadRepo.RecordRepository,
	delivery leadSvc.DeliveryClient,
	beacon leadSvc.BeaconTransport,
	registry *phrases.Registry,
	extractCfg ExtractConfig,
	cfg ServiceConfig,
	logger *slog.Logger,
) leadSvc.SessionService {
	return &Service{
		store:     newSessionStore(),
		responder: responder,
		records:   records,
		delivery:  delivery,
		beacon:    beacon,
		extractor: NewExtractor(registry, extractCfg, logger),
		detector:  NewDetector(registry),
		phrases:   registry,
		cfg:       cfg,
		logger:    logger,
	}
}

// Open creates a new session with the page context captured once.
func (s *Service) Open(ctx context.Context, req *leadSvc.OpenSessionRequest) (*leadModels.Session, error) {
	if err := s.validateOpenRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	now := time.Now()
	st := &sessionState{
		model: leadModels.Session{
			ID:       uuid.NewString(),
			Language: language,
			PageContext: leadModels.PageContext{
				SiteID:    req.SiteID,
				Referrer:  req.Referrer,
				EntryURL:  req.EntryURL,
				EnteredAt: now,
			},
			Record:    leadModels.Record{},
			State:     leadModels.StateActive,
			StartedAt: now,
		},
	}
	s.store.put(st)

	s.logger.Info("session opened",
		"id", st.model.ID,
		"language", language,
		"site_id", req.SiteID,
	)

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// Get returns a snapshot of the session.
func (s *Service) Get(ctx context.Context, sessionID string) (*leadModels.Session, error) {
	st, ok := s.store.get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// SubmitTurn processes one inbound user message: responder round-trip,
// extraction, merge, progressive persistence, completion detection and - when
// the intake finished - delivery (trigger 1).
func (s *Service) SubmitTurn(ctx context.Context, req *leadSvc.TurnRequest) (*leadSvc.TurnResponse, error) {
	if err := s.validateTurnRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	st, ok := s.store.get(req.SessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", req.SessionID, domain.ErrNotFound)
	}

	st.mu.Lock()
	switch st.model.State {
	case leadModels.StateSubmitting, leadModels.StateSubmitted:
		st.mu.Unlock()
		return nil, fmt.Errorf("session %s %w", req.SessionID, domain.ErrConflict)
	case leadModels.StateAwaitingResponse:
		st.mu.Unlock()
		return nil, fmt.Errorf("%w: a message is already being processed", domain.ErrValidation)
	}

	// A new turn ends any pending recovery window.
	s.cancelRecoveryLocked(st)
	s.disarmInactivityLocked(st)

	st.model.Transcript = append(st.model.Transcript, leadModels.Turn{
		Role:      leadModels.RoleUser,
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: time.Now(),
	})
	st.model.State = leadModels.StateAwaitingResponse

	genReq := &leadSvc.ResponderRequest{
		SessionID:  st.model.ID,
		UserText:   strings.TrimSpace(req.Text),
		Transcript: st.model.Transcript.Clone(),
		Language:   st.model.Language,
	}
	st.mu.Unlock()

	resp, err := s.responder.Generate(ctx, genReq)

	st.mu.Lock()
	switch st.model.State {
	case leadModels.StateSubmitting, leadModels.StateSubmitted:
		// Another trigger claimed the submission while the round-trip
		// was suspended. The session is done; the reply is dropped and
		// the submitted state must not be reverted.
		st.mu.Unlock()
		return nil, fmt.Errorf("session %s %w", req.SessionID, domain.ErrConflict)
	}
	if err != nil {
		return s.enterRecoveryLocked(st, err), nil
	}

	st.model.Transcript = append(st.model.Transcript, leadModels.Turn{
		Role:      leadModels.RoleAssistant,
		Text:      resp.Reply,
		CreatedAt: time.Now(),
	})
	st.model.State = leadModels.StateActive
	if resp.Language != "" {
		st.model.Language = resp.Language
	}

	s.accumulateLocked(st, resp.Tags)

	disposition, exitPoint := s.detector.Evaluate(
		st.model.Record, st.model.Transcript, st.model.Language, TriggerTurn)

	if disposition == leadModels.DispositionCompleted || disposition == leadModels.DispositionDeclined {
		if s.claimSubmitLocked(st) {
			notice := s.submit(ctx, st, disposition, exitPoint)
			return &leadSvc.TurnResponse{
				Reply:  resp.Reply,
				State:  leadModels.StateSubmitted,
				Notice: notice,
			}, nil
		}
	}

	s.armInactivityLocked(st)
	state := st.model.State
	st.mu.Unlock()

	return &leadSvc.TurnResponse{Reply: resp.Reply, State: state}, nil
}

// Close handles the visitor dismissing the widget (trigger 3).
func (s *Service) Close(ctx context.Context, sessionID string) error {
	st, ok := s.store.get(sessionID)
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	st.mu.Lock()
	if st.model.State == leadModels.StateSubmitting || st.model.State == leadModels.StateSubmitted {
		alreadyDone := st.model.State == leadModels.StateSubmitted
		st.mu.Unlock()
		if alreadyDone {
			s.store.remove(sessionID)
		}
		return nil
	}

	// One last fallback-extraction pass if contact or Q&A is still missing.
	if !st.model.Record.HasContact() || st.model.Record.QACount() == 0 {
		patch := s.extractor.FromTranscript(st.model.Language, st.model.Transcript)
		st.model.Record = Merge(st.model.Record, patch)
		s.persistAsync(st.model.ID, st.model.Language, st.model.Record.Clone())
	}

	disposition, exitPoint := s.detector.Evaluate(
		st.model.Record, st.model.Transcript, st.model.Language, TriggerClose)

	if !s.claimSubmitLocked(st) {
		st.mu.Unlock()
		return nil
	}

	s.submit(ctx, st, disposition, exitPoint)

	// The widget is gone; the session is inert from here on.
	s.store.remove(sessionID)
	return nil
}

// Terminate handles abrupt page teardown (trigger 4). No further extraction:
// the payload is built from already-accumulated fields and handed to the
// best-effort transport without blocking.
func (s *Service) Terminate(ctx context.Context, sessionID string) error {
	st, ok := s.store.get(sessionID)
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	st.mu.Lock()
	if !s.claimSubmitLocked(st) {
		st.mu.Unlock()
		return nil
	}

	disposition, exitPoint := s.detector.Evaluate(
		st.model.Record, st.model.Transcript, st.model.Language, TriggerTermination)

	payload := BuildPayload(st.snapshot(), disposition, exitPoint, time.Now())
	st.model.State = leadModels.StateSubmitted
	st.mu.Unlock()

	s.beacon.Dispatch(payload)
	s.store.remove(sessionID)

	s.logger.Info("session terminated via beacon",
		"id", sessionID,
		"disposition", disposition,
		"exit_point", exitPoint,
	)
	return nil
}

// accumulateLocked runs extraction and merges the patch into the record:
// responder tags when present, transcript mining when tags are missing and
// expected fields still are too. Synthesized completion markers are merged so
// progressive persistence sees them. Callers must hold st.mu.
func (s *Service) accumulateLocked(st *sessionState, tags map[string]string) {
	var patch leadModels.Record
	if len(tags) > 0 {
		patch = s.extractor.FromTags(tags)
	} else if s.shouldFallback(&st.model) {
		patch = s.extractor.FromTranscript(st.model.Language, st.model.Transcript)
	} else {
		patch = leadModels.Record{}
	}

	if marker, ok := s.detector.InferMarker(st.model.Language, st.model.Transcript); ok {
		patch[marker] = "true"
	}

	before := len(st.model.Record)
	st.model.Record = Merge(st.model.Record, patch)

	if len(st.model.Record) != before {
		s.logger.Debug("record accumulated",
			"session_id", st.model.ID,
			"fields", len(st.model.Record),
			"qa_pairs", st.model.Record.QACount(),
		)
	}

	s.persistAsync(st.model.ID, st.model.Language, st.model.Record.Clone())
}

// shouldFallback gates transcript mining: only after enough turns, and only
// while contact or Q&A fields are still missing.
func (s *Service) shouldFallback(model *leadModels.Session) bool {
	if len(model.Transcript) < s.cfg.FallbackMinTurns {
		return false
	}
	return !model.Record.HasContact() || model.Record.QACount() == 0
}

// claimSubmitLocked is the single submission guard: the first trigger to call
// it wins, every later one observes SUBMITTING/SUBMITTED and no-ops. Callers
// must hold st.mu.
func (s *Service) claimSubmitLocked(st *sessionState) bool {
	switch st.model.State {
	case leadModels.StateSubmitting, leadModels.StateSubmitted:
		return false
	}
	st.model.State = leadModels.StateSubmitting
	s.disarmInactivityLocked(st)
	s.cancelRecoveryLocked(st)
	return true
}

// submit builds the payload and sends it through the retrying client.
// Callers must hold st.mu with the guard already claimed; the lock is
// released during the network round-trip and the state ends at SUBMITTED
// regardless of outcome - a failed delivery is logged, never re-armed, so a
// retry trigger cannot produce a duplicate lead. Returns a localized notice
// when delivery failed.
func (s *Service) submit(ctx context.Context, st *sessionState, disposition leadModels.Disposition, exitPoint string) string {
	payload := BuildPayload(st.snapshot(), disposition, exitPoint, time.Now())
	language := st.model.Language
	st.mu.Unlock()

	err := s.delivery.Send(ctx, payload)

	st.mu.Lock()
	st.model.State = leadModels.StateSubmitted
	st.mu.Unlock()

	if err != nil {
		s.logger.Error("lead delivery failed",
			"session_id", payload.SessionID,
			"disposition", disposition,
			"error", err,
		)
		return s.phrases.ErrorMessage(language)
	}

	s.logger.Info("lead delivered",
		"session_id", payload.SessionID,
		"disposition", disposition,
		"exit_point", exitPoint,
		"lead_score", payload.Meta.LeadScore,
	)
	return ""
}

// enterRecoveryLocked handles a failed responder round-trip: the session
// moves to RECOVERING for the grace window (inactivity suppressed), then back
// to ACTIVE. Releases st.mu before returning.
func (s *Service) enterRecoveryLocked(st *sessionState, cause error) *leadSvc.TurnResponse {
	st.model.State = leadModels.StateRecovering
	language := st.model.Language

	s.cancelRecoveryLocked(st)
	st.recovery = time.AfterFunc(s.cfg.RecoveryGrace, func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		if st.model.State == leadModels.StateRecovering {
			st.model.State = leadModels.StateActive
			s.armInactivityLocked(st)
		}
	})
	st.mu.Unlock()

	s.logger.Warn("responder request failed",
		"session_id", st.model.ID,
		"error", cause,
	)

	return &leadSvc.TurnResponse{
		State:  leadModels.StateRecovering,
		Notice: s.phrases.ErrorMessage(language),
	}
}

// armInactivityLocked (re)arms the abandonment timer. Armed only when the
// session is quiescent: ACTIVE, non-empty record, no request in flight, no
// recovery window. Callers must hold st.mu.
func (s *Service) armInactivityLocked(st *sessionState) {
	if st.model.State != leadModels.StateActive || st.model.Record.IsEmpty() {
		return
	}
	s.disarmInactivityLocked(st)
	st.inactivity = time.AfterFunc(s.cfg.InactivityTimeout, func() {
		s.onInactivity(st)
	})
}

func (s *Service) disarmInactivityLocked(st *sessionState) {
	if st.inactivity != nil {
		st.inactivity.Stop()
		st.inactivity = nil
	}
}

func (s *Service) cancelRecoveryLocked(st *sessionState) {
	if st.recovery != nil {
		st.recovery.Stop()
		st.recovery = nil
	}
	if st.model.State == leadModels.StateRecovering {
		st.model.State = leadModels.StateActive
	}
}

// onInactivity is trigger 2: the session went quiet with a non-empty record.
func (s *Service) onInactivity(st *sessionState) {
	st.mu.Lock()
	if st.model.State != leadModels.StateActive {
		// A turn, request or another trigger got here first.
		st.mu.Unlock()
		return
	}

	disposition, exitPoint := s.detector.Evaluate(
		st.model.Record, st.model.Transcript, st.model.Language, TriggerTimeout)

	if !s.claimSubmitLocked(st) {
		st.mu.Unlock()
		return
	}

	s.logger.Info("session timed out",
		"id", st.model.ID,
		"exit_point", exitPoint,
	)
	s.submit(context.Background(), st, disposition, exitPoint)
}

// persistAsync is the progressive-persistence safety net: fire-and-forget
// upsert after every merge. Failures are logged and never surfaced.
func (s *Service) persistAsync(sessionID, language string, record leadModels.Record) {
	if s.records == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
		defer cancel()
		if err := s.records.Upsert(ctx, sessionID, language, record); err != nil {
			s.logger.Warn("progressive persistence failed",
				"session_id", sessionID,
				"error", err,
			)
		}
	}()
}

func (s *Service) validateOpenRequest(req *leadSvc.OpenSessionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Language, validation.Length(0, config.MaxLanguageCodeLength)),
		validation.Field(&req.Referrer, validation.Length(0, 2048)),
		validation.Field(&req.EntryURL, validation.Length(0, 2048)),
	)
}

func (s *Service) validateTurnRequest(req *leadSvc.TurnRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Text,
			validation.Required,
			validation.Length(1, config.MaxTurnTextLength),
		),
	)
}
