package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newLimaNormalizer(t *testing.T) *TimeNormalizer {
	t.Helper()
	n, err := NewTimeNormalizer(DefaultTimezone)
	require.NoError(t, err)
	return n
}

// at parses an RFC3339 instant and returns it in UTC.
func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v.UTC()
}

func day(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}
