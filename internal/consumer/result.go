package consumer

import "fmt"

// Status is the terminal outcome of one job.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Skip and failure reasons.
const (
	ReasonParsingFailed      = "parsing_failed"
	ReasonTokenNotObserved   = "token_not_observed_by_us"
	ReasonUnhandledEventType = "unhandled_event_type"
	ReasonRPCError           = "rpc_error"
	ReasonStorageError       = "storage_error"
)

// Result is the terminal outcome of processing one job. Every job reaches
// exactly one result; jobs are never requeued.
type Result struct {
	Status  Status
	Reason  string
	Message string
}

func processed() Result {
	return Result{Status: StatusProcessed}
}

func skipped(reason string) Result {
	return Result{Status: StatusSkipped, Reason: reason}
}

func failed(reason string, err error) Result {
	return Result{Status: StatusFailed, Reason: reason, Message: err.Error()}
}

// String renders the result for logs.
func (r Result) String() string {
	if r.Reason == "" {
		return string(r.Status)
	}
	if r.Message == "" {
		return fmt.Sprintf("%s (%s)", r.Status, r.Reason)
	}
	return fmt.Sprintf("%s (%s: %s)", r.Status, r.Reason, r.Message)
}
