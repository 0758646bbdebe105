package cmdutil

import (
	"context"
	"errors"

	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

// ErrNoSession is returned when the latest session is asked for and none
// has been saved.
var ErrNoSession = errors.New("no saved session (run 'mfl content attach' first)")

// SessionMode says what LoadSession does when no session ID is given.
type SessionMode int

const (
	// NewSession starts a new session.
	NewSession SessionMode = iota
	// LatestSession uses the most recently saved session.
	LatestSession
	// LatestOrNewSession uses the latest session, or starts a new one.
	LatestOrNewSession
)

// LoadSession returns the session stored under id and its ID. With an empty
// id, mode decides between the latest session and a new one.
func LoadSession(ctx context.Context, st *store.Store, id string, mode SessionMode, opts media.Options) (*media.Session, string, error) {
	if id == "" && mode != NewSession {
		rec, err := st.Latest(ctx)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if mode == LatestSession {
				return nil, "", ErrNoSession
			}
		case err != nil:
			return nil, "", err
		default:
			id = rec.ID
		}
	}

	if id == "" {
		return media.NewSession(opts), store.NewID(), nil
	}

	sess, err := st.Load(ctx, id, opts)
	if err != nil {
		return nil, "", err
	}
	return sess, id, nil
}
