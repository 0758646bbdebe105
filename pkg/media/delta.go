package media

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DeltaTracker hands out the small integers that tell apart several embeds
// of the same file within one editing session.
type DeltaTracker struct {
	owners map[int]string // delta -> fid
	max    int
}

// NewDeltaTracker creates an empty tracker.
func NewDeltaTracker() *DeltaTracker {
	return &DeltaTracker{owners: make(map[int]string)}
}

// Assign returns the delta for an embed of fid. A positive existing delta is
// kept unless it already belongs to another file, in which case the embed is
// treated as new.
func (d *DeltaTracker) Assign(fid string, existing int) int {
	if existing > 0 {
		owner, ok := d.owners[existing]
		if !ok {
			d.owners[existing] = fid
			if existing > d.max {
				d.max = existing
			}
			return existing
		}
		if owner == fid {
			return existing
		}
	}
	d.max++
	d.owners[d.max] = fid
	return d.max
}

// Owner returns the file that owns delta.
func (d *DeltaTracker) Owner(delta int) (string, bool) {
	fid, ok := d.owners[delta]
	return fid, ok
}

// Max returns the highest delta seen.
func (d *DeltaTracker) Max() int {
	return d.max
}

type deltaState struct {
	Owners map[int]string `json:"owners"`
	Max    int            `json:"max"`
}

// MarshalJSON implements json.Marshaler.
func (d *DeltaTracker) MarshalJSON() ([]byte, error) {
	return json.Marshal(deltaState{Owners: d.owners, Max: d.max})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DeltaTracker) UnmarshalJSON(data []byte) error {
	var st deltaState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Owners == nil {
		st.Owners = make(map[int]string)
	}
	for delta := range st.Owners {
		if delta > st.Max {
			st.Max = delta
		}
	}
	d.owners = st.Owners
	d.max = st.Max
	return nil
}

// parseDelta reads a data-delta attribute value; anything but a positive
// integer counts as no delta.
func parseDelta(value string, ok bool) int {
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
