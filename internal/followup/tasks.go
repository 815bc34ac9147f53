package followup

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpDispatch = "followup.dispatch"

const TaskAgedLeadCheck = "followup.aged_check"

// DispatchPayload is the queued form of a delayed touch.
type DispatchPayload struct {
	LeadID      string `json:"leadId"`
	Channel     string `json:"channel"`
	TemplateKey string `json:"templateKey"`
	Reason      string `json:"reason,omitempty"`
}

// AgedLeadCheckPayload asks the worker to evaluate one lead for reactivation.
type AgedLeadCheckPayload struct {
	LeadID string `json:"leadId"`
}

func NewFollowUpDispatchTask(payload DispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDispatch, data), nil
}

func ParseFollowUpDispatchPayload(task *asynq.Task) (DispatchPayload, error) {
	var payload DispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DispatchPayload{}, err
	}
	return payload, nil
}

func NewAgedLeadCheckTask(payload AgedLeadCheckPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAgedLeadCheck, data), nil
}

func ParseAgedLeadCheckPayload(task *asynq.Task) (AgedLeadCheckPayload, error) {
	var payload AgedLeadCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AgedLeadCheckPayload{}, err
	}
	return payload, nil
}
