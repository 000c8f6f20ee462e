package modules

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexicon"
)

// Store caches effect signatures per module name. Reads are cache-first
// and concurrent; a miss fills the cache through a singleflight group so
// parallel checks of modules sharing a dependency parse it once. Entries
// are never evicted automatically; callers invalidate by module name or
// source URI when a dependency changes.
type Store struct {
	mu    sync.RWMutex
	sigs  map[string]map[string]effects.Signature
	group singleflight.Group
}

// NewStore returns an empty signature store.
func NewStore() *Store {
	return &Store{sigs: make(map[string]map[string]effects.Signature)}
}

// Load returns the effect signatures of a module, parsing its source on
// a cache miss.
func (s *Store) Load(name string, searchPaths []string, lex *lexicon.Lexicon) (map[string]effects.Signature, error) {
	s.mu.RLock()
	cached, ok := s.sigs[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		// Re-check under the group: another caller may have filled the
		// entry between the read miss and the flight.
		s.mu.RLock()
		cached, ok := s.sigs[name]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		sigs, err := LoadSignatures(name, searchPaths, lex)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.sigs[name] = sigs
		s.mu.Unlock()
		return sigs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]effects.Signature), nil
}

// Invalidate drops the cached signatures of one module.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.sigs, name)
	s.mu.Unlock()
}

// InvalidateURI drops the cache entry for the module whose source file
// the URI names. Non-source URIs are ignored.
func (s *Store) InvalidateURI(uri string) {
	name, ok := ModuleNameFromURI(uri)
	if !ok {
		return
	}
	s.Invalidate(name)
}

// Len reports the number of cached modules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sigs)
}

// ModuleNameFromURI recovers a dotted module name from a source file
// path or file:// URI.
func ModuleNameFromURI(uri string) (string, bool) {
	path := strings.TrimPrefix(uri, "file://")
	if !strings.HasSuffix(path, SourceExt) {
		return "", false
	}

	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, SourceExt), true
}
