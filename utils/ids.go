package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns an identifier for a single entity: creation time in milliseconds followed by a
// random suffix, so two entities created in the same millisecond (or on a coarse clock) differ.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// BatchPrefix is shared by every entity of one bulk operation: time in milliseconds and a short
// random suffix, so two batches in the same millisecond never share ids.
func BatchPrefix(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d%s", now.UnixMilli(), suffix)
}

// BatchID returns the identifier for the index-th entity created by one bulk operation.
func BatchID(prefix string, index int) string {
	return fmt.Sprintf("%s-%d", prefix, index)
}
