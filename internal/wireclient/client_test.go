package wireclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.nanomsg.org/mangos/v3/protocol/rep"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"

	"github.com/deadlytoah/heartbeat2/internal/keyword"
)

func newEchoServer(t *testing.T, url string, reply func([]Atom) []Atom) func() {
	t.Helper()
	sock, err := rep.NewSocket()
	require.NoError(t, err)
	require.NoError(t, sock.Listen(url))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			buf, err := sock.Recv()
			if err != nil {
				return
			}
			atoms, err := decodeAtoms(buf)
			if err != nil {
				return
			}
			if err := sock.Send(encodeAtoms(reply(atoms))); err != nil {
				return
			}
		}
	}()
	return func() {
		_ = sock.Close()
		<-done
	}
}

func TestSendKeywordRecvString(t *testing.T) {
	const url = "inproc://wireclient-test-1"
	stop := newEchoServer(t, url, func(in []Atom) []Atom {
		return []Atom{String("OK")}
	})
	defer stop()

	sender, err := NewBuilder().Endpoint(url).Timeout(time.Second).Connect()
	require.NoError(t, err)

	recv, err := sender.SendKeyword(keyword.New("HEARTBEAT"))
	require.NoError(t, err)
	reply, next, err := recv.RecvString()
	require.NoError(t, err)
	assert.Equal(t, "OK", reply)
	_ = next.Close()
}

func TestSendKeywordsRecvMultipart(t *testing.T) {
	const url = "inproc://wireclient-test-2"
	stop := newEchoServer(t, url, func(in []Atom) []Atom {
		return []Atom{Keyword(keyword.New("ENDPOINT")), String("tcp://127.0.0.1:9000")}
	})
	defer stop()

	sender, err := NewBuilder().Endpoint(url).Timeout(time.Second).Connect()
	require.NoError(t, err)

	recv, err := sender.SendKeywords(keyword.New("GET"), keyword.New("MYSERVICE"))
	require.NoError(t, err)
	atoms, next, err := recv.RecvMultipart()
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	kw, ok := atoms[0].IsKeyword()
	require.True(t, ok)
	assert.Equal(t, "ENDPOINT", kw.Name())
	assert.Equal(t, "tcp://127.0.0.1:9000", atoms[1].Text())
	_ = next.Close()
}

func TestRecvTimeoutIsDistinctFromFaults(t *testing.T) {
	const url = "inproc://wireclient-test-3"
	sock, err := rep.NewSocket()
	require.NoError(t, err)
	defer sock.Close()
	require.NoError(t, sock.Listen(url))

	sender, err := NewBuilder().Endpoint(url).Timeout(50 * time.Millisecond).Connect()
	require.NoError(t, err)
	recv, err := sender.SendKeyword(keyword.New("HEARTBEAT"))
	require.NoError(t, err)
	_, _, err = recv.RecvString()
	assert.Equal(t, ErrTimeout, err)
}

func TestOnCloseFires(t *testing.T) {
	const url = "inproc://wireclient-test-4"
	stop := newEchoServer(t, url, func(in []Atom) []Atom {
		return []Atom{String("OK")}
	})
	defer stop()

	sender, err := NewBuilder().Endpoint(url).Timeout(time.Second).Connect()
	require.NoError(t, err)
	var closed bool
	sender.OnClose(func(error) { closed = true })
	require.NoError(t, sender.Close())
	assert.True(t, closed)
}

func TestNewBuilderDefaultsToDefaultTimeout(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, DefaultTimeout, b.timeout)
	assert.Equal(t, time.Duration(0), b.linger)
}
