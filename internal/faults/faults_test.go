package faults

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := New(MissingKey, "TARGET-ID")
	assert.True(t, Is(err, MissingKey))
	assert.False(t, Is(err, MissingSection))
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap(Io, inner)
	assert.ErrorIs(t, err, inner)
}

func TestErrorMessages(t *testing.T) {
	cases := map[*Error]string{
		New(MissingKey, "TARGET-ID"):        "the key [TARGET-ID] is missing in the config",
		New(MissingSection, "sup"):          "the section [sup] is missing in the config",
		New(NoRunningProcess, ""):           "no running process",
		New(MappingMissing, "logger"):       "mapping missing for [logger] in Sup",
		New(UnknownResponse, "GARBAGE"):     "unknown response [GARBAGE]",
		New(IllegalState, "InFlight"):       "illegal state [InFlight]",
		New(PeerChannelClosed, ""):          "peer channel is closed",
		New(StringEncoding, ""):             "invalid string encoding",
		New(TypeMismatch, "integer"):        "type error (expected: integer)",
		New(ConfigFormat, "odd item count"): "config format error: odd item count",
	}
	for err, want := range cases {
		assert.Equal(t, want, err.Error())
	}
}
