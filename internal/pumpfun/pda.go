package pumpfun

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// pdaMarker is the fixed domain suffix of the program-derived-address hash.
const pdaMarker = "ProgramDerivedAddress"

// bondingCurveSeed is the seed prefix pump.fun uses for bonding-curve PDAs.
var bondingCurveSeed = []byte("bonding-curve")

// ErrNoValidBump is returned when no bump in [1,255] produces an
// off-curve address. Statistically this does not happen.
var ErrNoValidBump = errors.New("no off-curve program address found")

// DeriveProgramAddress derives a program-owned address from seeds using the
// Solana algorithm: iterate a bump byte from 255 downward, hash
// seeds|bump|programID|marker with SHA-256, and return the first digest
// that is not a valid ed25519 curve point.
func DeriveProgramAddress(seeds [][]byte, programID []byte) (string, error) {
	for bump := 255; bump > 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(programID)
		h.Write([]byte(pdaMarker))
		digest := h.Sum(nil)

		if !isOnCurve(digest) {
			return base58.Encode(digest), nil
		}
	}
	return "", ErrNoValidBump
}

// DeriveBondingCurve derives the bonding-curve address for a mint under the
// given program, using the seed set ["bonding-curve", mint-bytes].
func DeriveBondingCurve(mint, programID string) (string, error) {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return "", fmt.Errorf("decode mint %q: %w", mint, err)
	}
	programBytes, err := base58.Decode(programID)
	if err != nil {
		return "", fmt.Errorf("decode program id %q: %w", programID, err)
	}
	return DeriveProgramAddress([][]byte{bondingCurveSeed, mintBytes}, programBytes)
}

// isOnCurve reports whether the 32 bytes decode to a valid ed25519 point.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
