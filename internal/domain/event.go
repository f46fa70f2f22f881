package domain

// EventKind identifies the pump.fun instruction family a job's logs belong to.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventCreate
	EventTrade
	EventGraduation
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCreate:
		return "create"
	case EventTrade:
		return "trade"
	case EventGraduation:
		return "graduation"
	default:
		return "unknown"
	}
}

// TradeAction is the direction of a bonding-curve trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// CreateEvent is a decoded token creation.
// Mint and Creator come from the transaction's static account list;
// name/symbol/uri from the create instruction payload.
type CreateEvent struct {
	Mint         string `json:"mint"`
	BondingCurve string `json:"bondingCurve"`
	Creator      string `json:"creator,omitempty"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	URI          string `json:"uri"`
	Signature    string `json:"signature"`
	Slot         int64  `json:"slot"`
	Timestamp    int64  `json:"timestamp"` // Unix ms

	// Complete is false when some fields could not be recovered.
	Complete bool `json:"complete"`
}

// TradeEvent is a decoded bonding-curve trade. All *Sol/token amount fields
// are decimal values scaled by 1e-9 from the raw u64 lamport units; values
// above 2^53 lose integer precision once scaled into a float64.
type TradeEvent struct {
	Mint   string      `json:"mint"`
	Action TradeAction `json:"action"`
	User   string      `json:"user"`

	SolAmount   float64 `json:"solAmount"`
	TokenAmount float64 `json:"tokenAmount"`

	VirtualSolReserves   float64 `json:"virtualSolReserves"`
	VirtualTokenReserves float64 `json:"virtualTokenReserves"`
	RealSolReserves      float64 `json:"realSolReserves"`
	RealTokenReserves    float64 `json:"realTokenReserves"`

	FeeRecipient          string  `json:"feeRecipient"`
	FeeBasisPoints        uint16  `json:"feeBasisPoints"`
	Fee                   float64 `json:"fee"`
	Creator               string  `json:"creator"`
	CreatorFeeBasisPoints uint16  `json:"creatorFeeBasisPoints"`
	CreatorFee            float64 `json:"creatorFee"`

	TrackVolume          bool    `json:"trackVolume"`
	TotalUnclaimedTokens float64 `json:"totalUnclaimedTokens"`
	TotalClaimedTokens   float64 `json:"totalClaimedTokens"`
	CurrentSolVolume     float64 `json:"currentSolVolume"`
	LastUpdateTimestamp  float64 `json:"lastUpdateTimestamp"`

	Signature string `json:"signature"`
	Slot      int64  `json:"slot"`
	Timestamp int64  `json:"timestamp"` // Unix ms

	// Complete is false when the payload was truncated past the required prefix.
	Complete bool `json:"complete"`
}

// GraduationEvent is a decoded bonding-curve migration to an AMM pool.
// Lamports keeps the raw u64 amount; it serializes as a decimal string.
type GraduationEvent struct {
	TokenMint     string  `json:"tokenMint"`
	BondingCurve  string  `json:"bondingCurve"`
	PoolAuthority string  `json:"poolAuthority"`
	WSOLMint      string  `json:"wsolMint"`
	Lamports      uint64  `json:"lamports,string"`
	SolAmount     float64 `json:"solAmount"`
	Signature     string  `json:"signature"`
	Slot          int64   `json:"slot"`
	Timestamp     int64   `json:"timestamp"` // Unix ms
}
