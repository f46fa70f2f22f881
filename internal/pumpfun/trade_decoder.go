package pumpfun

import (
	"go.uber.org/zap"

	"pumpstream/internal/domain"
)

// tradeMinPayload is the smallest payload worth decoding. Shorter payloads
// yield the event shell with no fields so the consumer can still classify
// the skip reason.
const tradeMinPayload = 96

// TradeDecoder decodes buy/sell event payloads from transaction logs.
type TradeDecoder struct {
	logger *zap.Logger
}

// NewTradeDecoder creates a trade decoder.
func NewTradeDecoder(logger *zap.Logger) *TradeDecoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeDecoder{logger: logger}
}

// Decode extracts a trade event from the job's log lines. It always returns
// an event; a missing or short payload leaves the mint empty, and a payload
// truncated past the required prefix keeps the fields already read with
// Complete=false. Decoding is a pure function of the input bytes.
func (d *TradeDecoder) Decode(job *domain.RawJob) *domain.TradeEvent {
	ev := &domain.TradeEvent{
		Signature: job.Signature,
		Slot:      job.Slot,
		Timestamp: job.Timestamp,
	}

	data, ok := findProgramData(job.Logs)
	if !ok {
		d.logger.Debug("trade event without program data", zap.String("signature", job.Signature))
		return ev
	}
	if len(data) < tradeMinPayload {
		d.logger.Debug("trade payload too short",
			zap.String("signature", job.Signature),
			zap.Int("payload_len", len(data)))
		return ev
	}

	cur := NewCursor(data)
	var err error
	readU64 := func(dst *float64) {
		if err != nil {
			return
		}
		var v uint64
		if v, err = cur.ReadU64LE(); err == nil {
			*dst = lamportsToSol(v)
		}
	}
	readU16 := func(dst *uint16) {
		if err != nil {
			return
		}
		*dst, err = cur.ReadU16LE()
	}
	readPubkey := func(dst *string) {
		if err != nil {
			return
		}
		*dst, err = cur.ReadPubkey()
	}
	readBool := func(dst *bool) {
		if err != nil {
			return
		}
		var v uint8
		if v, err = cur.ReadU8(); err == nil {
			*dst = v != 0
		}
	}

	var isBuy bool
	var eventTimestamp float64

	readPubkey(&ev.Mint)
	readU64(&ev.SolAmount)
	readU64(&ev.TokenAmount)
	readBool(&isBuy)
	readPubkey(&ev.User)
	readU64(&eventTimestamp)
	readU64(&ev.VirtualSolReserves)
	readU64(&ev.VirtualTokenReserves)
	readU64(&ev.RealSolReserves)
	readU64(&ev.RealTokenReserves)
	readPubkey(&ev.FeeRecipient)
	readU16(&ev.FeeBasisPoints)
	readU64(&ev.Fee)
	readPubkey(&ev.Creator)
	readU16(&ev.CreatorFeeBasisPoints)
	readU64(&ev.CreatorFee)
	readBool(&ev.TrackVolume)
	readU64(&ev.TotalUnclaimedTokens)
	readU64(&ev.TotalClaimedTokens)
	readU64(&ev.CurrentSolVolume)
	readU64(&ev.LastUpdateTimestamp)

	if isBuy {
		ev.Action = domain.ActionBuy
	} else {
		ev.Action = domain.ActionSell
	}

	if err != nil {
		d.logger.Debug("trade payload truncated",
			zap.String("signature", job.Signature),
			zap.Int("offset", cur.Offset()),
			zap.Error(err))
		return ev
	}

	ev.Complete = true
	return ev
}
