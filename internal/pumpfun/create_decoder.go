package pumpfun

import (
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"pumpstream/internal/domain"
	"pumpstream/internal/solana"
)

// Static account positions of the pump.fun create instruction. The mint and
// creator are supplied as transaction accounts, not embedded in program data.
const (
	createAccountCreator = 0 // fee payer
	createAccountMint    = 1
)

// CreateDecoder decodes token creations from a fetched transaction.
type CreateDecoder struct {
	programID string
	logger    *zap.Logger
}

// NewCreateDecoder creates a create decoder for the given program.
func NewCreateDecoder(programID string, logger *zap.Logger) *CreateDecoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateDecoder{programID: programID, logger: logger}
}

// Decode locates the create instruction addressed to the program and reads
// name, symbol and uri from its payload; the mint and creator come from the
// transaction's static account list, and the bonding curve is derived from
// the mint. A missing instruction or decode failure yields nil; the
// consumer skips such a job without marking it failed.
func (d *CreateDecoder) Decode(tx *solana.Transaction, job *domain.RawJob) *domain.CreateEvent {
	if tx == nil || tx.Message == nil {
		return nil
	}
	msg := tx.Message

	var data []byte
	found := false
	for _, ins := range msg.Instructions {
		if ins.ProgramIDIndex >= len(msg.AccountKeys) || msg.AccountKeys[ins.ProgramIDIndex] != d.programID {
			continue
		}
		raw, err := base58.Decode(ins.Data)
		if err != nil {
			d.logger.Warn("create instruction data is not valid base58",
				zap.String("signature", job.Signature),
				zap.Error(err))
			return nil
		}
		data = raw
		found = true
		break
	}
	if !found {
		d.logger.Warn("no program instruction in create transaction",
			zap.String("signature", job.Signature),
			zap.String("program", d.programID))
		return nil
	}

	if len(msg.AccountKeys) <= createAccountMint {
		d.logger.Warn("create transaction account list too short",
			zap.String("signature", job.Signature),
			zap.Int("accounts", len(msg.AccountKeys)))
		return nil
	}

	cur := NewCursor(data)
	name, err := cur.ReadString()
	var symbol, uri string
	if err == nil {
		symbol, err = cur.ReadString()
	}
	if err == nil {
		uri, err = cur.ReadString()
	}
	if err != nil {
		d.logger.Warn("create payload decode failed",
			zap.String("signature", job.Signature),
			zap.Error(err))
		return nil
	}

	ev := &domain.CreateEvent{
		Mint:      msg.AccountKeys[createAccountMint],
		Creator:   msg.AccountKeys[createAccountCreator],
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
		Signature: job.Signature,
		Slot:      job.Slot,
		Timestamp: job.Timestamp,
		Complete:  true,
	}

	bondingCurve, err := DeriveBondingCurve(ev.Mint, d.programID)
	if err != nil {
		d.logger.Warn("bonding curve derivation failed",
			zap.String("signature", job.Signature),
			zap.String("mint", ev.Mint),
			zap.Error(err))
		ev.Complete = false
		return ev
	}
	ev.BondingCurve = bondingCurve

	return ev
}
