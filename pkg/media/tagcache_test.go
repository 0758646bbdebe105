package media

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagCache_Put(t *testing.T) {
	c := NewTagCache()
	macro := `[[{"type":"media","fid":1}]]`

	assert.True(t, c.Put(macro, TagEntry{Markup: `<img alt="a" data-fid="1">`, FID: "1", Signature: "alt=a"}))

	// Same tracked state, different serialization: the stored markup stays.
	assert.False(t, c.Put(macro, TagEntry{Markup: `<img data-fid="1" alt="a"/>`, FID: "1", Signature: "alt=a"}))
	got, ok := c.Get(macro)
	require.True(t, ok)
	assert.Equal(t, `<img alt="a" data-fid="1">`, got)

	// Tracked state changed.
	assert.True(t, c.Put(macro, TagEntry{Markup: `<img alt="b" data-fid="1">`, FID: "1", Signature: "alt=b"}))
	got, _ = c.Get(macro)
	assert.Equal(t, `<img alt="b" data-fid="1">`, got)

	// No signature means no basis for comparison.
	assert.True(t, c.Put(macro, TagEntry{Markup: "<span></span>"}))
	assert.Equal(t, 1, c.Len())
}

func TestTagCache_SeedAndInvalidate(t *testing.T) {
	c := NewTagCache()
	c.Seed("[[x]]", "<img>")

	e, ok := c.Lookup("[[x]]")
	require.True(t, ok)
	assert.Equal(t, "<img>", e.Markup)
	assert.Empty(t, e.FID)

	c.Invalidate("[[x]]")
	_, ok = c.Lookup("[[x]]")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTagCache_JSON(t *testing.T) {
	c := NewTagCache()
	c.Put("[[a]]", TagEntry{Markup: "<img>", FID: "1", Signature: "s"})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	loaded := NewTagCache()
	require.NoError(t, json.Unmarshal(data, loaded))
	e, ok := loaded.Lookup("[[a]]")
	require.True(t, ok)
	assert.Equal(t, TagEntry{Markup: "<img>", FID: "1", Signature: "s"}, e)
}
