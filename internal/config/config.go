package config

import (
	"sync"

	"github.com/deadlytoah/heartbeat2/internal/faults"
)

// Config holds the sections loaded for a running process. The
// original implementation loads its sections once, synchronously,
// before any concurrent work begins; this port's conductor runs
// several goroutines that may read sections concurrently, so access
// is guarded by a mutex even though sections are never mutated after
// loading.
type Config struct {
	mu       sync.RWMutex
	sections map[string]*Section
}

// New creates an empty Config.
func New() *Config {
	return &Config{sections: map[string]*Section{}}
}

// LoadSection reads path and stores the resulting Section under
// name, replacing any existing section of that name.
func (c *Config) LoadSection(name, path string) error {
	sec, err := LoadSection(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sections[name] = sec
	return nil
}

// SetSection stores an already-parsed Section under name, replacing
// any existing section of that name. It lets callers assemble a
// Config from sections built in memory, without going through a
// file on disk.
func (c *Config) SetSection(name string, sec *Section) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sections[name] = sec
}

// Section returns the named section, or a MissingSection fault if
// it was never loaded.
func (c *Config) Section(name string) (*Section, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sec, ok := c.sections[name]
	if !ok {
		return nil, faults.New(faults.MissingSection, name)
	}
	return sec, nil
}
