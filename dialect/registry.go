package dialect

import (
	"sort"
	"strings"
	"sync"

	"github.com/zoobzio/sqlrender/internal/logging"
)

// Dialect registry.
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Register adds a dialect to the global registry, replacing any dialect of
// the same name. Called by dialect packages in their init() functions.
func Register(d *Dialect) {
	if d == nil {
		return
	}
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.name)] = d

	logging.Debug().Str("dialect", d.name).Msg("dialect registered")
}

// RegisterAlias makes an existing dialect available under another name.
func RegisterAlias(alias string, d *Dialect) {
	if d == nil {
		return
	}
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(alias)] = d
}

// Get returns a dialect by name. Lookup is case-insensitive.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
