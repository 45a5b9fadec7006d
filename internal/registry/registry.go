// Package registry loads site profiles from a directory and keeps them
// cached by site id.
package registry

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"wikititle/internal/site"
	"wikititle/internal/syncx"
)

// ProfileExt is the file extension of profile files. A profile for site
// "en.wikipedia.org" lives in "en.wikipedia.org.json".
const ProfileExt = ".json"

// ErrUnknownSite is returned when no profile file exists for a site.
var ErrUnknownSite = errors.New("unknown site")

// loader wraps a single coalesced load so it can be compared and deleted.
type loader struct {
	load func() (*site.Profile, error)
}

// Registry caches decoded profiles per site id. Concurrent requests for the
// same site share one decode. Failed loads are not cached.
type Registry struct {
	dir     string
	entries syncx.Map[string, *loader]
}

// New returns a Registry reading profiles from dir.
func New(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the profile directory.
func (r *Registry) Dir() string { return r.dir }

// Path returns the profile file for a site id.
func (r *Registry) Path(siteID string) string {
	return filepath.Join(r.dir, siteID+ProfileExt)
}

// Get returns the profile for siteID, decoding it on first use.
func (r *Registry) Get(ctx context.Context, siteID string) (*site.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if siteID == "" || strings.ContainsAny(siteID, `/\`) || siteID == "." || siteID == ".." {
		return nil, errors.Errorf("invalid site id %q", siteID)
	}

	path := r.Path(siteID)
	l, _ := r.entries.LoadOrStore(siteID, &loader{load: sync.OnceValues(func() (*site.Profile, error) {
		return site.Load(path)
	})})

	p, err := l.load()
	if err != nil {
		r.entries.CompareAndDelete(siteID, l)
		var siteErr *site.Error
		if errors.As(err, &siteErr) && siteErr.Type == site.FileNotFound {
			return nil, errors.Wrapf(ErrUnknownSite, "%s (no %s)", siteID, path)
		}
		return nil, errors.Wrapf(err, "loading profile for %s", siteID)
	}
	return p, nil
}

// Invalidate drops the cached profile for siteID so the next Get reloads it.
func (r *Registry) Invalidate(siteID string) {
	r.entries.Delete(siteID)
}

// Cached reports how many sites currently have a cached or in-flight load.
func (r *Registry) Cached() int {
	return r.entries.Len()
}

// Sites lists the site ids that have a profile file, sorted.
func (r *Registry) Sites() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile directory %s", r.dir)
	}
	var sites []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := SiteID(e.Name()); ok {
			sites = append(sites, id)
		}
	}
	sort.Strings(sites)
	return sites, nil
}
