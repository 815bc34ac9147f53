package followup

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Trigger actions accepted by ProcessTrigger.
const (
	TriggerNewLead       = "new_lead"
	TriggerAgedLeadCheck = "aged_lead_check"
	TriggerFollowUp      = "follow_up"
)

// recentWindow is how many log entries the follow-up decision looks at.
const recentWindow = 5

// TriggerResult summarizes what a trigger did, for the API response.
type TriggerResult struct {
	LeadID      uuid.UUID `json:"leadId"`
	ActionTaken string    `json:"actionTaken"`
}

// Service coordinates follow-up processing for a single lead: onboarding
// on creation, the recurring decision table, and aged-lead reactivation.
type Service struct {
	leads      LeadStore
	commLog    CommunicationLog
	dispatcher *Dispatcher
	scheduler  ActionScheduler
	log        *logger.Logger
	now        func() time.Time
}

func NewService(leads LeadStore, commLog CommunicationLog, dispatcher *Dispatcher, scheduler ActionScheduler, log *logger.Logger) *Service {
	return &Service{
		leads:      leads,
		commLog:    commLog,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		log:        log,
		now:        time.Now,
	}
}

// ProcessTrigger runs one follow-up evaluation for a lead. A missing lead
// is a hard failure; everything downstream of the lookup degrades into
// logged failed communications instead of aborting.
func (s *Service) ProcessTrigger(ctx context.Context, leadID uuid.UUID, action string) (TriggerResult, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return TriggerResult{}, apperr.NotFound("lead not found").WithOp("followup.ProcessTrigger")
	}
	if err != nil {
		return TriggerResult{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err).WithOp("followup.ProcessTrigger")
	}

	switch action {
	case TriggerNewLead:
		return s.processNewLead(ctx, lead), nil
	case TriggerAgedLeadCheck:
		return s.processAgedLead(ctx, lead), nil
	case TriggerFollowUp:
		return s.processFollowUp(ctx, lead), nil
	default:
		return TriggerResult{}, apperr.BadRequest("unknown trigger action: " + action)
	}
}

// processNewLead runs the onboarding sequence: the immediate touches are
// dispatched now, the delayed ones are logged as scheduled and handed to
// the delivery queue.
func (s *Service) processNewLead(ctx context.Context, lead domain.Lead) TriggerResult {
	if !lead.Contactable() {
		return TriggerResult{LeadID: lead.ID, ActionTaken: "skipped_not_contactable"}
	}

	for _, action := range OnboardingSequence() {
		if action.DelayHours == 0 {
			s.dispatcher.Dispatch(ctx, lead, action)
			continue
		}

		s.dispatcher.RecordScheduled(ctx, lead, action)
		s.schedule(ctx, lead, action)
	}

	return TriggerResult{LeadID: lead.ID, ActionTaken: "onboarding_started"}
}

// processAgedLead sends the reactivation touch when the lead has gone 30+
// days without contact. Never-contacted leads always qualify.
func (s *Service) processAgedLead(ctx context.Context, lead domain.Lead) TriggerResult {
	if !lead.Contactable() {
		return TriggerResult{LeadID: lead.ID, ActionTaken: "skipped_not_contactable"}
	}

	days := DaysSince(lead.LastContacted, s.now())
	if days < 30 {
		return TriggerResult{LeadID: lead.ID, ActionTaken: "no_action_needed"}
	}

	s.dispatcher.Dispatch(ctx, lead, Action{
		Channel:     domain.ChannelSMS,
		TemplateKey: "reactivation",
		Reason:      "no contact for 30+ days",
	})
	return TriggerResult{LeadID: lead.ID, ActionTaken: "reactivation_sent"}
}

// processFollowUp runs the recurring decision table against the lead's
// recent communication history.
func (s *Service) processFollowUp(ctx context.Context, lead domain.Lead) TriggerResult {
	recent, err := s.commLog.ListRecentCommunications(ctx, lead.ID, recentWindow)
	if err != nil {
		// Without history the table cannot run; skip rather than risk
		// double-sending against an unknown state.
		s.log.DatabaseError("list recent communications", err)
		return TriggerResult{LeadID: lead.ID, ActionTaken: "skipped_history_unavailable"}
	}

	actions := NextActions(lead, recent, false, s.now())
	if len(actions) == 0 {
		return TriggerResult{LeadID: lead.ID, ActionTaken: "no_action_needed"}
	}

	for _, action := range actions {
		if action.DelayHours == 0 {
			s.dispatcher.Dispatch(ctx, lead, action)
			continue
		}
		s.dispatcher.RecordScheduled(ctx, lead, action)
		s.schedule(ctx, lead, action)
	}

	return TriggerResult{LeadID: lead.ID, ActionTaken: actions[0].TemplateKey}
}

func (s *Service) schedule(ctx context.Context, lead domain.Lead, action Action) {
	if s.scheduler == nil {
		s.log.Warn("follow-up queue not configured, delayed touch not scheduled",
			"lead_id", lead.ID, "template_key", action.TemplateKey)
		return
	}

	err := s.scheduler.ScheduleDispatch(ctx, DispatchPayload{
		LeadID:      lead.ID.String(),
		Channel:     string(action.Channel),
		TemplateKey: action.TemplateKey,
		Reason:      action.Reason,
	}, time.Duration(action.DelayHours)*time.Hour)
	if err != nil {
		s.log.Error("failed to schedule follow-up touch",
			"lead_id", lead.ID, "template_key", action.TemplateKey, "error", err)
	}
}

// RegisterHandlers subscribes the service to ingestion events so every
// upserted lead is routed into onboarding or follow-up.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadIngested{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadIngested)
		if !ok {
			return nil
		}

		action := TriggerFollowUp
		if e.WasCreated {
			action = TriggerNewLead
		}

		if _, err := s.ProcessTrigger(ctx, e.LeadID, action); err != nil {
			s.log.Error("lead ingestion follow-up failed", "lead_id", e.LeadID, "error", err)
		}
		return nil
	}))
}
