package sms

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Signature-Timestamp"
)

// Sign returns the hex HMAC-SHA256 of "<ts>.<payload>".
func Sign(secret string, payload []byte, ts time.Time) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", ts.Unix())
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a signature produced by Sign. A positive maxAge rejects old timestamps.
func Verify(secret string, payload []byte, signature, timestamp string, maxAge time.Duration) error {
	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	ts := time.Unix(sec, 0)
	if maxAge > 0 && time.Since(ts) > maxAge {
		return fmt.Errorf("%w: timestamp too old", ErrInvalidSignature)
	}
	if !hmac.Equal([]byte(Sign(secret, payload, ts)), []byte(signature)) {
		return fmt.Errorf("%w: mismatch", ErrInvalidSignature)
	}
	return nil
}
