package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
)

const maxIdempotencyKeyLength = 128

func normalizeIdempotencyKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) > maxIdempotencyKeyLength {
		return "", fmt.Errorf("%w: idempotency key longer than %d characters", ErrInvalidLedgerRequest, maxIdempotencyKeyLength)
	}
	return key, nil
}

// consumeRequestHash fingerprints what a keyed consumption asked for, so a
// reused key with a different body is detected. Map keys marshal sorted.
func consumeRequestHash(category string, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	payload, err := json.Marshal(struct {
		Category string         `json:"category"`
		Metadata map[string]any `json:"metadata"`
	}{
		Category: category,
		Metadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("%w: metadata is not serializable: %v", ErrInvalidLedgerRequest, err)
	}

	hash := sha256.Sum256(payload)
	return hex.EncodeToString(hash[:]), nil
}

func receiptExpired(receipt models.ConsumeReceipt, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.After(receipt.CreatedAt.Add(ttl))
}

func replayReceipt(receipt models.ConsumeReceipt, requestHash string) (ConsumeResult, error) {
	if receipt.RequestHash != requestHash {
		return ConsumeResult{}, ErrIdempotencyConflict
	}

	var result ConsumeResult
	if err := json.Unmarshal(receipt.Response, &result); err != nil {
		return ConsumeResult{}, fmt.Errorf("decode consume receipt: %w", err)
	}
	result.Replayed = true
	return result, nil
}
