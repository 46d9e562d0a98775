// Package resolver implements the watchdog's half of the name
// service protocol: resolving a service id to a connectable endpoint
// by querying a separately running "sup" process, matching the
// original implementation's sup module exactly.
package resolver

import (
	"time"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
	"github.com/deadlytoah/heartbeat2/internal/wireclient"
)

// Sup is a client of the name service: a single REQ round trip per
// lookup, against the endpoint and timeout configured in the "sup"
// section.
type Sup struct {
	endpoint string
	timeout  time.Duration
}

// NewSup builds a Sup client from the "sup" configuration section's
// ENDPOINT and COMMS-TIMEOUT keys.
func NewSup(sec *config.Section) (*Sup, error) {
	endpoint, err := sec.String(config.KeyEndpoint)
	if err != nil {
		return nil, err
	}
	timeoutMs, err := sec.Integer(config.KeyCommsTimeout)
	if err != nil {
		return nil, err
	}
	return &Sup{endpoint: endpoint, timeout: time.Duration(timeoutMs) * time.Millisecond}, nil
}

var (
	kwGet      = keyword.New("GET")
	kwEndpoint = keyword.New("ENDPOINT")
	kwMissing  = keyword.New("MISSING")
)

// Sget resolves id to an endpoint string. It connects fresh for each
// call, asking for zero linger, matching the original sget's
// one-shot-connection behaviour: a resolver socket is never kept
// open between lookups.
func (s *Sup) Sget(id keyword.Keyword) (string, error) {
	sender, err := wireclient.NewBuilder().
		Endpoint(s.endpoint).
		Timeout(s.timeout).
		Linger(0).
		Connect()
	if err != nil {
		return "", err
	}

	recv, err := sender.SendKeywords(kwGet, id)
	if err != nil {
		return "", err
	}
	atoms, next, err := recv.RecvMultipart()
	if err != nil {
		return "", err
	}
	defer func() { _ = next.Close() }()

	if len(atoms) == 0 {
		return "", faults.New(faults.UnknownResponse, "")
	}

	head, ok := atoms[0].IsKeyword()
	if !ok {
		return "", faults.New(faults.UnknownResponse, atoms[0].Text())
	}

	switch {
	case head.Equal(kwEndpoint):
		if len(atoms) < 2 {
			return "", faults.New(faults.UnknownResponse, head.Name())
		}
		return atoms[1].Text(), nil
	case head.Equal(kwMissing) && len(atoms) >= 2:
		if tail, ok := atoms[1].IsKeyword(); ok && tail.Equal(kwEndpoint) {
			return "", faults.New(faults.MappingMissing, id.Name())
		}
		return "", faults.New(faults.UnknownResponse, head.Name())
	default:
		return "", faults.New(faults.UnknownResponse, head.Name())
	}
}
