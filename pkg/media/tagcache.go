package media

import "encoding/json"

// TagEntry is the markup last produced for a macro.
type TagEntry struct {
	Markup string `json:"markup"`
	// FID is empty for entries seeded from outside a translation pass.
	FID string `json:"fid,omitempty"`
	// Signature is the tracked state of the element behind Markup.
	Signature string `json:"signature,omitempty"`
}

// TagCache maps macro text to placeholder markup.
//
// An entry is replaced only when the tracked state of the new markup differs
// from the stored one. Markup that differs from the stored entry only in
// serialization (attribute order, void tag style) leaves the entry alone, so
// placeholders stay stable across editor re-renders.
type TagCache struct {
	entries map[string]TagEntry
}

// NewTagCache creates an empty cache.
func NewTagCache() *TagCache {
	return &TagCache{entries: make(map[string]TagEntry)}
}

// Lookup returns the entry for macro.
func (c *TagCache) Lookup(macro string) (TagEntry, bool) {
	e, ok := c.entries[macro]
	return e, ok
}

// Get returns the markup for macro.
func (c *TagCache) Get(macro string) (string, bool) {
	e, ok := c.entries[macro]
	return e.Markup, ok
}

// Put records entry for macro and reports whether the cache changed.
func (c *TagCache) Put(macro string, entry TagEntry) bool {
	if old, ok := c.entries[macro]; ok && entry.Signature != "" && old.Signature == entry.Signature && old.FID == entry.FID {
		return false
	}
	c.entries[macro] = entry
	return true
}

// Seed records markup produced elsewhere, such as the server rendering of a
// stored macro. Seeded markup is rebuilt on first use.
func (c *TagCache) Seed(macro, markup string) {
	c.entries[macro] = TagEntry{Markup: markup}
}

// Invalidate drops the entry for macro.
func (c *TagCache) Invalidate(macro string) {
	delete(c.entries, macro)
}

// Len returns the number of entries.
func (c *TagCache) Len() int {
	return len(c.entries)
}

// MarshalJSON implements json.Marshaler.
func (c *TagCache) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *TagCache) UnmarshalJSON(data []byte) error {
	entries := make(map[string]TagEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if entries == nil {
		entries = make(map[string]TagEntry)
	}
	c.entries = entries
	return nil
}
