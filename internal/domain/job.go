package domain

// RawJob is one queued unit of work: the log lines of a single transaction
// touching the pump.fun program, as captured by the upstream producer.
type RawJob struct {
	Signature string   `json:"signature"`
	Slot      int64    `json:"slot"`
	Logs      []string `json:"logs"`
	Timestamp int64    `json:"timestamp"` // observation time, Unix ms
}
