package models

type DeliveryOutcome struct {
	Token        string `json:"token"`
	Success      bool   `json:"success"`
	MessageID    string `json:"message_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// DeliveryReport aggregates the result of one dispatch. Outcomes follow the
// order of the tokens handed to the gateway. Errors holds batch-level
// transport failures whose tokens are counted in FailureCount but have no
// per-token outcome.
type DeliveryReport struct {
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
	Outcomes     []DeliveryOutcome `json:"outcomes"`
	Errors       []string          `json:"errors,omitempty"`
}

func (r *DeliveryReport) Add(outcome DeliveryOutcome) {
	if outcome.Success {
		r.SuccessCount++
	} else {
		r.FailureCount++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// AddBatchFailure records a whole batch rejected by the gateway.
func (r *DeliveryReport) AddBatchFailure(tokenCount int, message string) {
	r.FailureCount += tokenCount
	r.Errors = append(r.Errors, message)
}

func (r *DeliveryReport) Total() int {
	return r.SuccessCount + r.FailureCount
}
