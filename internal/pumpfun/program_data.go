package pumpfun

import (
	"encoding/base64"
	"strings"
)

// programDataPrefix marks the log line carrying the base64 event payload.
const programDataPrefix = "Program data:"

// findProgramData locates the first "Program data:" log line and decodes
// its base64 payload. Returns false when no such line exists or the
// payload is not valid base64.
func findProgramData(logs []string) ([]byte, bool) {
	for _, l := range logs {
		if !strings.HasPrefix(l, programDataPrefix) {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(l, programDataPrefix))
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}

// lamportsToSol converts a raw u64 lamport amount into decimal SOL. Values
// above 2^53 lamports lose integer precision here; conversion happens only
// after the full u64 has been decoded.
func lamportsToSol(v uint64) float64 {
	return float64(v) / 1e9
}
