package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	trackingPrefix   = "RMVK"
	trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingSuffix   = 11
)

// GenerateTrackingNumber returns an opaque carrier-facing identifier with a
// fixed prefix and a random upper-case alphanumeric suffix.
func GenerateTrackingNumber() string {
	var sb strings.Builder
	sb.WriteString(trackingPrefix)

	max := big.NewInt(int64(len(trackingAlphabet)))
	for i := 0; i < trackingSuffix; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback keeps issuance best-effort
			sb.WriteByte(trackingAlphabet[i%len(trackingAlphabet)])
			continue
		}
		sb.WriteByte(trackingAlphabet[n.Int64()])
	}

	return sb.String()
}
