package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint derives a stable identifier for a table's header shape. Two
// uploads with the same columns (in any order, any formatting) share a
// fingerprint, so a suggested mapping can be served from cache instead of
// being recomputed.
func Fingerprint(headers []string) string {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		if n := NormalizeLabel(h); n != "" {
			normalized = append(normalized, n)
		}
	}
	sort.Strings(normalized)
	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}
