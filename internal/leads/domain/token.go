package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewAccessToken mints a one-time finalization token. The format is
// "{leadID}-{unixMillis}-{random base36}". Tokens do not expire by time:
// expiry is driven by the is_used flag, expires_at only keeps the schema
// satisfied with a far-future date.
func NewAccessToken(leadID uuid.UUID, now time.Time) string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 13 {
		suffix = suffix[:13]
	}
	return fmt.Sprintf("%s-%d-%s", leadID, now.UnixMilli(), suffix)
}

// TokenExpiry returns the schema-compatibility expiry for a token minted now.
func TokenExpiry(now time.Time, years int) time.Time {
	return now.AddDate(years, 0, 0)
}
