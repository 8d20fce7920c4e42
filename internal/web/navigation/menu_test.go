package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidKey(t *testing.T) {
	for _, key := range Keys() {
		assert.True(t, IsValidKey(key), "catalog key %q should validate", key)
	}

	assert.False(t, IsValidKey("invoices"))
	assert.False(t, IsValidKey(""))
	assert.False(t, IsValidKey("Dashboard")) // keys are case-sensitive
}

func TestItems(t *testing.T) {
	items := Items([]string{"posts", "dashboard", "bogus"})

	// catalog display order wins over input order; unknown keys dropped
	assert.Len(t, items, 2)
	assert.Equal(t, KeyDashboard, items[0].Key)
	assert.Equal(t, KeyPosts, items[1].Key)
}

func TestItemsEmpty(t *testing.T) {
	assert.Empty(t, Items(nil))
	assert.Empty(t, Items([]string{}))
}

func TestAllItems(t *testing.T) {
	all := AllItems()
	assert.Len(t, all, len(Keys()))

	// returned slice is a copy
	all[0].Title = "mutated"
	assert.NotEqual(t, "mutated", AllItems()[0].Title)
}

func TestIconString(t *testing.T) {
	assert.Equal(t, "gauge", IconGauge.String())
	assert.Equal(t, "none", IconNone.String())
	assert.Equal(t, "none", Icon(999).String())

	// every catalog entry resolves to a known icon
	for _, item := range AllItems() {
		assert.NotEqual(t, "none", item.Icon, "entry %q should carry an icon", item.Key)
	}
}
