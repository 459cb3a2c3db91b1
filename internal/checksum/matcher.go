package checksum

import (
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint identifies uploaded bytes in logs and responses. It is not a
// security hash: two uploads with the same fingerprint are the same file for
// audit purposes only.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// ChecksumMatcher checks data against a fingerprint recorded earlier.
type ChecksumMatcher struct {
	expectedChecksum string
}

func NewChecksumMatcher(expectedChecksum string) *ChecksumMatcher {
	return &ChecksumMatcher{expectedChecksum: expectedChecksum}
}

// Match reports whether data has the expected fingerprint.
func (cm *ChecksumMatcher) Match(data []byte) (bool, error) {
	if cm.expectedChecksum == "" {
		return false, errors.New("expected checksum is not set")
	}
	return Fingerprint(data) == cm.expectedChecksum, nil
}
