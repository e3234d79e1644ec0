package opid

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := New(now)

	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	require.Len(t, id, len(prefix)+suffixLen)
	assert.Equal(t, prefix, id[:len(prefix)])
	assert.Regexp(t, `^[0-9a-z]+$`, id)
}

func TestNew_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := New(now)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
