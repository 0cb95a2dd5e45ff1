package profiles

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases and strips Latin diacritics so "Medellín" matches "medellin".
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Directory is the in-memory profile snapshot the category search runs over.
// It is owned by whoever constructs it and must be invalidated on profile
// writes; it is not an ambient singleton.
type Directory struct {
	db *gorm.DB

	mu       sync.RWMutex
	loaded   bool
	profiles []Profile
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// Reload replaces the snapshot with the current set of profiles.
func (d *Directory) Reload(ctx context.Context) error {
	var rows []Profile
	if err := d.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return err
	}

	d.mu.Lock()
	d.profiles = rows
	d.loaded = true
	d.mu.Unlock()
	return nil
}

// Invalidate drops the snapshot; the next EnsureLoaded fetches a fresh one.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.loaded = false
	d.profiles = nil
	d.mu.Unlock()
}

func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

func (d *Directory) EnsureLoaded(ctx context.Context) error {
	if d.Loaded() {
		return nil
	}
	return d.Reload(ctx)
}

// Search tokenizes the query and returns profiles of the given category where
// every token appears in at least one indexed field. An unloaded snapshot
// yields no results; callers that want freshness call EnsureLoaded first.
func (d *Directory) Search(query string, category Category) []Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return nil
	}

	tokens := strings.Fields(Fold(query))

	var out []Profile
	for _, p := range d.profiles {
		if p.Category != category {
			continue
		}
		if matchesAll(&p, tokens) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAll(p *Profile, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}

	haystacks := []string{
		Fold(p.Name),
		Fold(p.City),
		Fold(p.Country),
		Fold(p.Neighborhood),
		Fold(p.Responsible),
		Fold(strings.Join(p.Specialties, " ")),
		Fold(strings.Join(p.Machines, " ")),
	}

	for _, tok := range tokens {
		found := false
		for _, h := range haystacks {
			if strings.Contains(h, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
