package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadlytoah/heartbeat2/internal/faults"
)

const sampleHeartbeat = `(
	:command ("/usr/bin/true")
	:working-directory "/tmp"
	:target-id :myservice
	:heartbeat-interval 1000
	:heartbeat-timeout 500
	:retry-interval 60
	:max-retries 3
)`

func TestParseSectionTypedAccessors(t *testing.T) {
	sec, err := ParseSection([]byte(sampleHeartbeat))
	require.NoError(t, err)

	cmd, err := sec.StringList(KeyCommand)
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/true"}, cmd)

	dir, err := sec.String(KeyWorkingDirectory)
	require.NoError(t, err)
	assert.Equal(t, "/tmp", dir)

	id, err := sec.TargetID()
	require.NoError(t, err)
	assert.Equal(t, "MYSERVICE", id.Name())

	timeout, err := sec.HeartbeatTimeout()
	require.NoError(t, err)
	assert.Equal(t, int64(500), timeout)

	assert.False(t, sec.HasKey(KeyTargetEndpoint))
}

func TestSectionMissingKey(t *testing.T) {
	sec, err := ParseSection([]byte(`()`))
	require.NoError(t, err)
	_, err = sec.String(KeyWorkingDirectory)
	assert.True(t, faults.Is(err, faults.MissingKey))
}

func TestParseSectionOddItemCount(t *testing.T) {
	_, err := ParseSection([]byte(`(:command)`))
	assert.True(t, faults.Is(err, faults.ConfigFormat))
}

func TestConfigMissingSection(t *testing.T) {
	c := New()
	_, err := c.Section(SectionSup)
	assert.True(t, faults.Is(err, faults.MissingSection))
}

func TestConfigLoadAndRetrieve(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/heartbeat.cfg"
	require.NoError(t, os.WriteFile(path, []byte(sampleHeartbeat), 0o644))

	c := New()
	require.NoError(t, c.LoadSection(SectionHeartbeat, path))
	sec, err := c.Section(SectionHeartbeat)
	require.NoError(t, err)
	_, err = sec.HeartbeatTimeout()
	assert.NoError(t, err)
}
