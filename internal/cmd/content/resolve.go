package content

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/media-filter-cli/api"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

const resolveWorkers = 4

// unresolved returns the fids referenced by content that the session can
// not render yet, in order of first appearance.
func unresolved(sess *media.Session, content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range media.MediaMacros(content) {
		if _, ok := sess.Tags.Lookup(tok.Text); ok {
			continue
		}
		info, err := media.ParseMacro(tok.Text)
		if err != nil || info.FID == "" {
			continue
		}
		fid := string(info.FID)
		if seen[fid] || sess.HasSource(fid) {
			continue
		}
		seen[fid] = true
		out = append(out, fid)
	}
	return out
}

// resolveSources looks up every unresolved fid and registers its source.
// Lookups that fail are returned as warnings; the macro then stays in place.
func resolveSources(ctx context.Context, client *api.Client, sess *media.Session, content string) []string {
	fids := unresolved(sess, content)
	if len(fids) == 0 {
		return nil
	}

	files := make([]*api.File, len(fids))
	errs := make([]error, len(fids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveWorkers)
	for i, fid := range fids {
		g.Go(func() error {
			f, err := client.GetFile(gctx, fid)
			if err != nil {
				errs[i] = err
				return nil
			}
			files[i] = f
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	for i, fid := range fids {
		if errs[i] != nil {
			warnings = append(warnings, fmt.Sprintf("failed to look up file %s: %v", fid, errs[i]))
			continue
		}
		sess.RegisterSource(fid, files[i].Source())
	}
	return warnings
}
