// Package heartbeat2 watches over a child process: it probes the
// process for liveness over a heartbeat socket, restarts it when it
// aborts (up to a configured retry budget), and raises SIGQUIT or
// SIGTERM against it when the watchdog itself is asked to stop.
//
// Package-level wiring lives here; the mechanics live under
// internal/, mirroring the original implementation's main module and
// its config, heartbeat, process, signal, restart and event modules.
package heartbeat2

import (
	"context"
	"os"
	"path/filepath"

	"github.com/deadlytoah/heartbeat2/internal/conductor"
	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

// AppID identifies this process in every line it logs.
const AppID = "HEARTBEAT"

// DefaultConfigFileName is the configuration path used when the
// caller supplies none.
const DefaultConfigFileName = "heartbeat.cfg"

// Run loads the watchdog's configuration from configPath, resolving
// the "sup" service's own configuration from the platform's config
// directory if the heartbeat section needs it to locate its target,
// then drives the watchdog until the child process completes on its
// own or the restart policy gives up.
func Run(ctx context.Context, logger *logging.Logger, configPath string) error {
	cfg := config.New()

	logger.Logf(logging.Info, "Load config from path: %s", configPath)
	if err := cfg.LoadSection(config.SectionHeartbeat, configPath); err != nil {
		return err
	}

	required, err := requiresSup(cfg)
	if err != nil {
		return err
	}
	if required {
		supPath, err := supConfigPath()
		if err != nil {
			return err
		}
		logger.Logf(logging.Info, "sup config: %s", supPath)
		if err := cfg.LoadSection(config.SectionSup, supPath); err != nil {
			return err
		}
	}

	heartbeatSection, err := cfg.Section(config.SectionHeartbeat)
	if err != nil {
		return err
	}
	target, err := startupTargetLabel(heartbeatSection)
	if err != nil {
		return err
	}
	logger.Logf(logging.Info, "start heartbeat process (PID %d) for target [%s]", os.Getpid(), target)

	c, err := conductor.New(cfg, logger)
	if err != nil {
		return err
	}
	return c.Run(ctx)
}

// startupTargetLabel names the target for the watchdog's startup log
// line: the configured TARGET-ID when the section has one, or the
// literal TARGET-ENDPOINT string when it resolves its target
// directly and has no TARGET-ID to name.
func startupTargetLabel(sec *config.Section) (string, error) {
	if sec.HasKey(config.KeyTargetID) {
		id, err := sec.TargetID()
		if err != nil {
			return "", err
		}
		return id.Name(), nil
	}
	return sec.TargetEndpoint()
}

// requiresSup reports whether the heartbeat section must resolve its
// target through the "sup" service, i.e. it gives a TARGET-ID rather
// than a direct TARGET-ENDPOINT.
func requiresSup(cfg *config.Config) (bool, error) {
	sec, err := cfg.Section(config.SectionHeartbeat)
	if err != nil {
		return false, err
	}
	return !sec.HasKey(config.KeyTargetEndpoint), nil
}

// supConfigPath locates the "sup" service's own configuration file
// under the platform's per-user config directory. There is no
// library in the retrieved example pack for platform config-directory
// resolution; os.UserConfigDir is the standard library's equivalent
// of the original's "dirs" crate call.
func supConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sup", "sup.cfg"), nil
}
