package pumpfun

import (
	"strings"

	"pumpstream/internal/domain"
)

// Instruction log lines emitted by the pump.fun programs. Classification
// matches whole lines, so "Instruction: Create" never matches
// "Instruction: CreatePool".
const (
	logCreate     = "Program log: Instruction: Create"
	logBuy        = "Program log: Instruction: Buy"
	logSell       = "Program log: Instruction: Sell"
	logCreatePool = "Program log: Instruction: CreatePool"
	logMigrate    = "Program log: Instruction: Migrate"

	// alreadyMigratedMarker appears when a migration is rejected because the
	// bonding curve already graduated.
	alreadyMigratedMarker = "already migrated"
)

// Classify maps a job's ordered log lines to an event kind. Evaluation
// order is a correctness requirement: a graduation transaction also carries
// trade-like lines, so graduation is checked first, then create, then trade.
func Classify(logs []string) domain.EventKind {
	if hasLine(logs, logCreatePool) {
		return domain.EventGraduation
	}
	if hasLine(logs, logMigrate) && !containsMarker(logs, alreadyMigratedMarker) {
		return domain.EventGraduation
	}
	if hasLine(logs, logCreate) {
		return domain.EventCreate
	}
	if hasLine(logs, logBuy) || hasLine(logs, logSell) {
		return domain.EventTrade
	}
	return domain.EventUnknown
}

func hasLine(logs []string, want string) bool {
	for _, l := range logs {
		if l == want {
			return true
		}
	}
	return false
}

func containsMarker(logs []string, marker string) bool {
	for _, l := range logs {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}
