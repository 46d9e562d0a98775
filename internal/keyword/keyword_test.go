package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalizes(t *testing.T) {
	assert.Equal(t, "TARGET-ID", New("target-id").Name())
}

func TestParse(t *testing.T) {
	k, ok := Parse(":xyZ")
	require.True(t, ok)
	assert.Equal(t, "XYZ", k.Name())

	_, ok = Parse("xyZ")
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	a := New("get")
	b, _ := Parse(":GET")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(New("set")))
}

func TestString(t *testing.T) {
	assert.Equal(t, ":heartbeat", New("HEARTBEAT").String())
}
