package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference builds the human-readable ledger reference for a
// transaction: the first three letters of the type, the date, and a
// random six character suffix, e.g. DEP-20250901-X7K2QM.
func GenerateReference(txType string, now time.Time) (string, error) {
	prefix := strings.ToUpper(txType)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to read random suffix: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix), nil
}
