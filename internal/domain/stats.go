package domain

// StatsSnapshot is the derived pipeline-wide statistics view published on
// stats:update. It is recomputed from the shared counter store on each
// publish and is never authoritative.
type StatsSnapshot struct {
	EventsInDB              int64 `json:"eventsInDb"`
	TokensCreatedSinceStart int64 `json:"tokensCreatedSinceStart"`
	TotalTransactions       int64 `json:"totalTransactionsSinceStart"`
	TradesPerSecond         int64 `json:"tradesPerSecond"`
}
