package followup

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/logger"
)

// DispatchResult reports the outcome of a single dispatch attempt.
type DispatchResult struct {
	Success           bool
	Content           string
	ProviderMessageID *string
	Err               error
}

// Dispatcher renders a template, hands it to the messenger, and records the
// outcome. Exactly one communication record is appended per Dispatch call,
// success or failure.
type Dispatcher struct {
	leads     LeadStore
	commLog   CommunicationLog
	messenger Messenger
	bus       events.Bus
	log       *logger.Logger
	agentName string
	now       func() time.Time
}

func NewDispatcher(leads LeadStore, commLog CommunicationLog, messenger Messenger, bus events.Bus, agentName string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		leads:     leads,
		commLog:   commLog,
		messenger: messenger,
		bus:       bus,
		log:       log,
		agentName: agentName,
		now:       time.Now,
	}
}

// Dispatch sends one action to the lead. Provider failures are recorded as
// failed communications and returned in the result, never raised; only a
// failure to even render counts the same way. lastContacted moves only on
// provider success.
func (d *Dispatcher) Dispatch(ctx context.Context, lead domain.Lead, action Action) DispatchResult {
	intent := DetectIntent(lead)

	content, messageID, err := d.send(ctx, lead, action, intent)

	result := DispatchResult{
		Success: err == nil,
		Content: content,
		Err:     err,
	}
	if messageID != "" {
		result.ProviderMessageID = &messageID
	}

	d.record(ctx, lead, action, result)

	if err != nil {
		d.log.MessengerError(string(action.Channel), action.TemplateKey, err)
		return result
	}

	if touchErr := d.leads.TouchLastContacted(ctx, lead.ID, d.now()); touchErr != nil {
		d.log.DatabaseError("touch last_contacted", touchErr)
	}
	return result
}

func (d *Dispatcher) send(ctx context.Context, lead domain.Lead, action Action, intent Intent) (content, messageID string, err error) {
	switch action.Channel {
	case domain.ChannelEmail:
		email, renderErr := RenderEmail(action.TemplateKey, lead, intent, d.agentName)
		if renderErr != nil {
			return "", "", renderErr
		}
		if lead.Email == nil || *lead.Email == "" {
			return email.Text, "", fmt.Errorf("lead has no email address")
		}
		messageID, err = d.messenger.SendEmail(ctx, *lead.Email, email.Subject, email.HTML, email.Text)
		return email.Text, messageID, err

	case domain.ChannelSMS:
		body := RenderSMS(action.TemplateKey, lead, intent)
		messageID, err = d.messenger.SendSMS(ctx, lead.Phone, body)
		return body, messageID, err

	case domain.ChannelWhatsApp:
		body := RenderSMS(action.TemplateKey, lead, intent)
		messageID, err = d.messenger.SendWhatsApp(ctx, lead.Phone, body)
		return body, messageID, err

	default:
		return "", "", fmt.Errorf("unknown channel: %s", action.Channel)
	}
}

// record appends the log entry for this attempt. An append failure is
// logged but does not change the dispatch outcome.
func (d *Dispatcher) record(ctx context.Context, lead domain.Lead, action Action, result DispatchResult) {
	params := domain.AppendCommunicationParams{
		LeadID:            lead.ID,
		Channel:           action.Channel,
		Direction:         domain.DirectionOutbound,
		Content:           result.Content,
		Status:            domain.CommStatusSent,
		TemplateKey:       action.TemplateKey,
		ProviderMessageID: result.ProviderMessageID,
	}
	if !result.Success {
		params.Status = domain.CommStatusFailed
		detail := result.Err.Error()
		params.ErrorDetail = &detail
	}

	if _, err := d.commLog.AppendCommunication(ctx, params); err != nil {
		d.log.DatabaseError("append communication", err)
	}

	d.bus.Publish(ctx, events.CommunicationLogged{
		LeadID:      lead.ID,
		Channel:     string(action.Channel),
		TemplateKey: action.TemplateKey,
		Success:     result.Success,
	})
}

// RecordScheduled appends a scheduled placeholder for a future touch so
// the conversation view shows the pending sequence.
func (d *Dispatcher) RecordScheduled(ctx context.Context, lead domain.Lead, action Action) {
	intent := DetectIntent(lead)

	var content string
	if action.Channel == domain.ChannelEmail {
		email, err := RenderEmail(action.TemplateKey, lead, intent, d.agentName)
		if err != nil {
			d.log.Error("failed to render scheduled email", "template_key", action.TemplateKey, "error", err)
			return
		}
		content = email.Text
	} else {
		content = RenderSMS(action.TemplateKey, lead, intent)
	}

	if _, err := d.commLog.AppendCommunication(ctx, domain.AppendCommunicationParams{
		LeadID:      lead.ID,
		Channel:     action.Channel,
		Direction:   domain.DirectionOutbound,
		Content:     content,
		Status:      domain.CommStatusScheduled,
		TemplateKey: action.TemplateKey,
	}); err != nil {
		d.log.DatabaseError("append scheduled communication", err)
	}
}
