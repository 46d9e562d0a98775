// Package config loads and exposes the watchdog's property-list
// configuration: a document divided into named sections ("heartbeat",
// "sup"), each a flat set of keyword-indicated values, matched
// exactly against the original implementation's config/config.rs
// and config/section.rs.
package config

import (
	"os"

	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
	"github.com/deadlytoah/heartbeat2/internal/plist"
)

// Section is one named block of a configuration document: an
// indicator-keyed set of plist values, with the same indicator
// matched by its canonical (uppercased) name regardless of how it
// was written in the source file.
type Section struct {
	values map[string]plist.Value
}

func newSection() *Section {
	return &Section{values: map[string]plist.Value{}}
}

// LoadSection reads and parses the property-list document at path
// into a new Section.
func LoadSection(path string) (*Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.Io, err)
	}
	return ParseSection(data)
}

// ParseSection parses a property-list document's raw bytes into a
// Section, chunking the flattened top-level list into
// indicator/value pairs exactly as the original keyword-plist
// reader does: an odd number of items, or an item in indicator
// position that isn't a keyword, is a ConfigFormat fault.
func ParseSection(data []byte) (*Section, error) {
	items, err := plist.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, faults.New(faults.ConfigFormat, "odd number of items")
	}
	s := newSection()
	for i := 0; i < len(items); i += 2 {
		kw, err := items[i].Keyword()
		if err != nil {
			return nil, faults.New(faults.ConfigFormat, "indicator is not a keyword")
		}
		s.values[kw.Name()] = items[i+1]
	}
	return s, nil
}

func (s *Section) lookup(key string) (plist.Value, error) {
	v, ok := s.values[key]
	if !ok {
		return plist.Value{}, faults.New(faults.MissingKey, key)
	}
	return v, nil
}

// HasKey reports whether key is present in the section.
func (s *Section) HasKey(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Integer returns the integer value of key.
func (s *Section) Integer(key string) (int64, error) {
	v, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	return v.Integer()
}

// String returns the string value of key.
func (s *Section) String(key string) (string, error) {
	v, err := s.lookup(key)
	if err != nil {
		return "", err
	}
	return v.String()
}

// StringList returns the string-list value of key.
func (s *Section) StringList(key string) ([]string, error) {
	v, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	return v.StringList()
}

// Keyword returns the keyword value of key.
func (s *Section) Keyword(key string) (keyword.Keyword, error) {
	v, err := s.lookup(key)
	if err != nil {
		return keyword.Keyword{}, err
	}
	return v.Keyword()
}

// TargetID returns the heartbeat section's TARGET-ID.
func (s *Section) TargetID() (keyword.Keyword, error) {
	return s.Keyword(KeyTargetID)
}

// TargetEndpoint returns the heartbeat section's TARGET-ENDPOINT.
func (s *Section) TargetEndpoint() (string, error) {
	return s.String(KeyTargetEndpoint)
}

// HeartbeatTimeout returns the heartbeat section's
// HEARTBEAT-TIMEOUT, in milliseconds.
func (s *Section) HeartbeatTimeout() (int64, error) {
	return s.Integer(KeyHeartbeatTimeout)
}
