// Package wireclient implements the request side of the watchdog's
// application-level ping protocol: a linear-typed wrapper around a
// mangos request/reply socket that alternates strictly between
// sending and receiving, modelled on the session-typed socket
// wrapper of the original implementation's socket module (a
// SocketBuilder that yields a send-only handle, which on send
// yields a receive-only handle, which on receive yields back a
// fresh send-only handle). The mangos socket handling, and the
// eventor-based close notification, are adapted from the sender and
// receiver packages of the xmidt-org wrpnng project, which used a
// push/pull pairing for a one-way protocol.
package wireclient

import (
	"errors"
	"sync"
	"time"

	"github.com/xmidt-org/eventor"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"

	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
)

// ErrTimeout is returned when a send or receive deadline elapses.
// It is deliberately not one of the faults.Kind values: the original
// implementation keeps its Timeout variant in a dedicated RecvError
// type, separate from the shared error taxonomy, because only the
// request client ever produces it.
var ErrTimeout = errors.New("wireclient: timed out")

// DefaultTimeout is the send/receive deadline a Builder uses when
// the caller never configures one, matching the original
// implementation's DEFAULT_SOCKET_TIMEOUT.
const DefaultTimeout = 3000 * time.Millisecond

// Builder configures a connection before it is made. Its fluent
// chain mirrors the original SocketBuilder's
// endpoint().timeout().linger().req().connect(), rather than the
// functional-options idiom of the wrpnng packages, since there is no
// option to default or validate independently of the others.
type Builder struct {
	endpoint string
	timeout  time.Duration
	linger   time.Duration
}

// NewBuilder creates a Builder with no linger on close and a
// DefaultTimeout send/receive deadline, matching the original
// implementation's defaults.
func NewBuilder() *Builder {
	return &Builder{linger: 0, timeout: DefaultTimeout}
}

func (b *Builder) Endpoint(endpoint string) *Builder {
	b.endpoint = endpoint
	return b
}

func (b *Builder) Timeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

func (b *Builder) Linger(d time.Duration) *Builder {
	b.linger = d
	return b
}

// Connect dials the configured endpoint and returns a send-only
// handle for the first round of the conversation.
func (b *Builder) Connect() (*Sender, error) {
	sock, err := req.NewSocket()
	if err != nil {
		return nil, faults.Wrap(faults.Io, err)
	}
	if err := sock.SetOption(mangos.OptionSendDeadline, b.timeout); err != nil {
		_ = sock.Close()
		return nil, faults.Wrap(faults.Io, err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, b.timeout); err != nil {
		_ = sock.Close()
		return nil, faults.Wrap(faults.Io, err)
	}
	// The req protocol rejects OptionLinger with ErrBadOption; that
	// refusal is ignored, so the linger setting only applies where the
	// socket accepts it.
	if err := sock.SetOption(mangos.OptionLinger, b.linger); err != nil && !errors.Is(err, mangos.ErrBadOption) {
		_ = sock.Close()
		return nil, faults.Wrap(faults.Io, err)
	}
	if err := sock.Dial(b.endpoint); err != nil {
		_ = sock.Close()
		return nil, faults.Wrap(faults.Io, err)
	}
	return &Sender{s: &session{sock: sock}}, nil
}

// session is the shared state behind one connection, held alternately
// by a Sender and a Receiver as the conversation proceeds.
type session struct {
	sock      mangos.Socket
	onClose   eventor.Eventor[func(error)]
	closeOnce sync.Once
}

func (s *session) close(err error) error {
	var closeErr error
	s.closeOnce.Do(func() {
		closeErr = s.sock.Close()
		s.onClose.Visit(func(f func(error)) {
			f(err)
		})
	})
	return closeErr
}

// Sender is a send-only handle onto a connection. Sending consumes
// it and yields a Receiver for the reply.
type Sender struct {
	s *session
}

// OnClose registers f to be called when the underlying connection is
// closed, with the error (if any) that caused the close.
func (snd *Sender) OnClose(f func(error)) func() {
	return snd.s.onClose.Add(f)
}

// Close tears down the connection without sending anything further.
func (snd *Sender) Close() error {
	return snd.s.close(nil)
}

// SendKeyword sends a single keyword atom and returns a Receiver for
// the reply.
func (snd *Sender) SendKeyword(k keyword.Keyword) (*Receiver, error) {
	return snd.Send(Keyword(k))
}

// SendKeywords sends a sequence of keyword atoms and returns a
// Receiver for the reply.
func (snd *Sender) SendKeywords(ks ...keyword.Keyword) (*Receiver, error) {
	atoms := make([]Atom, len(ks))
	for i, k := range ks {
		atoms[i] = Keyword(k)
	}
	return snd.Send(atoms...)
}

// Send sends the given atoms and returns a Receiver for the reply.
func (snd *Sender) Send(atoms ...Atom) (*Receiver, error) {
	err := snd.s.sock.Send(encodeAtoms(atoms))
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		_ = snd.s.close(err)
		return nil, faults.Wrap(faults.Io, err)
	}
	return &Receiver{s: snd.s}, nil
}

// Receiver is a receive-only handle onto a connection. Receiving
// consumes it and yields a fresh Sender for the next round.
type Receiver struct {
	s *session
}

// OnClose registers f to be called when the underlying connection is
// closed, with the error (if any) that caused the close.
func (r *Receiver) OnClose(f func(error)) func() {
	return r.s.onClose.Add(f)
}

// Close tears down the connection without waiting for a reply.
func (r *Receiver) Close() error {
	return r.s.close(nil)
}

// RecvMultipart receives and decodes a reply of any number of atoms,
// returning a fresh Sender for the next round.
func (r *Receiver) RecvMultipart() ([]Atom, *Sender, error) {
	buf, err := r.s.sock.Recv()
	if err != nil {
		if isTimeout(err) {
			return nil, nil, ErrTimeout
		}
		_ = r.s.close(err)
		return nil, nil, faults.Wrap(faults.Io, err)
	}
	atoms, err := decodeAtoms(buf)
	if err != nil {
		return nil, nil, err
	}
	return atoms, &Sender{s: r.s}, nil
}

// RecvString receives a reply consisting of exactly one atom and
// returns its text, and a fresh Sender for the next round.
func (r *Receiver) RecvString() (string, *Sender, error) {
	atoms, next, err := r.RecvMultipart()
	if err != nil {
		return "", nil, err
	}
	if len(atoms) != 1 {
		return "", next, faults.New(faults.StringEncoding, "expected a single-atom reply")
	}
	return atoms[0].Text(), next, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, mangos.ErrRecvTimeout) || errors.Is(err, mangos.ErrSendTimeout)
}
