package task

type PayoutRetryTask struct {
	Original     PayoutTask `json:"original"`      // The payout that failed
	RetryCount   int        `json:"retry_count"`   // Number of times this payout has been retried
	Error        string     `json:"error"`         // Error message from the original failure
	FailureStage string     `json:"failure_stage"` // "calculate" or "save" - which stage failed
}

func (t *PayoutRetryTask) TaskType() string {
	return "PayoutRetryTask"
}

func (t *PayoutRetryTask) TaskValue() ([]byte, error) {
	return marshalTask(t)
}
