package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := OrderID()
		_, dup := seen[id]
		require.Falsef(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDFormats(t *testing.T) {
	assert.True(t, strings.HasPrefix(OrderID(), "ORD-"))
	assert.True(t, strings.HasPrefix(ItemID(), "IT-"))
	assert.True(t, strings.HasPrefix(NotificationID(), "NT-"))
}

func TestNextIDMonotonic(t *testing.T) {
	a := NextID()
	b := NextID()
	assert.Greater(t, b, a)
}
