package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskTokenRegeneration rebuilds the finalization token of every lead and
// re-sends the invitation emails. The batch is slow and throttled, so it
// runs on the worker instead of the request path.
const TaskTokenRegeneration = "leads.tokens.regenerate_all"

type TokenRegenerationPayload struct {
	RequestedBy string `json:"requestedBy"`
}

func NewTokenRegenerationTask(payload TokenRegenerationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTokenRegeneration, data), nil
}

func ParseTokenRegenerationPayload(task *asynq.Task) (TokenRegenerationPayload, error) {
	var payload TokenRegenerationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TokenRegenerationPayload{}, err
	}
	return payload, nil
}
