package restart

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

func newPolicy(t *testing.T, retryInterval, maxRetries int) *Policy {
	t.Helper()
	doc := `(:retry-interval ` + strconv.Itoa(retryInterval) + ` :max-retries ` + strconv.Itoa(maxRetries) + `)`
	sec, err := config.ParseSection([]byte(doc))
	require.NoError(t, err)
	cfg := config.New()
	cfg.SetSection(config.SectionHeartbeat, sec)
	return New(cfg, logging.New("HEARTBEAT", &bytes.Buffer{}))
}

func TestShouldRestartAllowsUpToMaxRetries(t *testing.T) {
	p := newPolicy(t, 3600, 3)

	for i := 0; i < 3; i++ {
		should, err := p.ShouldRestart()
		require.NoError(t, err)
		assert.True(t, should, "iteration %d: should restart", i)
		require.NoError(t, p.AddProcessAbort())
	}

	should, err := p.ShouldRestart()
	require.NoError(t, err)
	assert.False(t, should, "should not restart after reaching MAX-RETRIES within RETRY-INTERVAL")
}

func TestPruneCapsHistoryLength(t *testing.T) {
	p := newPolicy(t, 3600, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, p.AddProcessAbort())
	}
	assert.LessOrEqual(t, len(p.history), 2)
}

func TestShouldRestartIgnoresOldHistory(t *testing.T) {
	p := newPolicy(t, 0, 1)

	require.NoError(t, p.AddProcessAbort())
	// The window includes the current second, so the abort only falls
	// outside a zero-second window once the clock has moved on.
	time.Sleep(1100 * time.Millisecond)
	should, err := p.ShouldRestart()
	require.NoError(t, err)
	assert.True(t, should, "with a zero-second retry interval, an abort from an earlier second should fall outside the window")
}
