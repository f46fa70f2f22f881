package solana

import "fmt"

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}

// TransactionMessage contains the parsed transaction message.
type TransactionMessage struct {
	AccountKeys  []string
	Instructions []CompiledInstruction
}

// CompiledInstruction is one top-level instruction of a transaction message.
// Accounts and ProgramIDIndex are indices into the static account list;
// Data is base58-encoded instruction data as returned by the json encoding.
type CompiledInstruction struct {
	ProgramIDIndex int
	Accounts       []int
	Data           string
}

// RateLimitedError indicates the upstream RPC rejected a call with HTTP 429.
// Callers retry these with their own backoff policy; any other upstream
// error is not retryable at the job level.
type RateLimitedError struct {
	Endpoint string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (429) by %s", e.Endpoint)
}
