package pumpfun

import (
	"go.uber.org/zap"

	"pumpstream/internal/domain"
)

// GraduationDecoder decodes migration (bonding curve → AMM pool) payloads.
type GraduationDecoder struct {
	programID string
	logger    *zap.Logger
}

// NewGraduationDecoder creates a graduation decoder for the given program.
func NewGraduationDecoder(programID string, logger *zap.Logger) *GraduationDecoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraduationDecoder{programID: programID, logger: logger}
}

// Decode extracts a graduation event from the job's log lines.
// Layout after the discriminator: lamports u64, 2 reserved bytes, then
// pool authority, token mint and wrapped-SOL mint pubkeys. Any decode
// failure yields nil; the consumer skips the job without failing it.
func (d *GraduationDecoder) Decode(job *domain.RawJob) *domain.GraduationEvent {
	data, ok := findProgramData(job.Logs)
	if !ok {
		d.logger.Debug("graduation event without program data", zap.String("signature", job.Signature))
		return nil
	}

	cur := NewCursor(data)

	lamports, err := cur.ReadU64LE()
	if err == nil {
		err = cur.Skip(2) // reserved
	}

	var poolAuthority, tokenMint, wsolMint string
	if err == nil {
		poolAuthority, err = cur.ReadPubkey()
	}
	if err == nil {
		tokenMint, err = cur.ReadPubkey()
	}
	if err == nil {
		wsolMint, err = cur.ReadPubkey()
	}
	if err != nil {
		d.logger.Warn("graduation payload decode failed",
			zap.String("signature", job.Signature),
			zap.Error(err))
		return nil
	}

	bondingCurve, err := DeriveBondingCurve(tokenMint, d.programID)
	if err != nil {
		d.logger.Warn("bonding curve derivation failed",
			zap.String("signature", job.Signature),
			zap.String("mint", tokenMint),
			zap.Error(err))
		return nil
	}

	return &domain.GraduationEvent{
		TokenMint:     tokenMint,
		BondingCurve:  bondingCurve,
		PoolAuthority: poolAuthority,
		WSOLMint:      wsolMint,
		Lamports:      lamports,
		SolAmount:     lamportsToSol(lamports),
		Signature:     job.Signature,
		Slot:          job.Slot,
		Timestamp:     job.Timestamp,
	}
}
