package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/realbeans/storeprobe/internal/browser"
	"github.com/realbeans/storeprobe/internal/config"
	"github.com/realbeans/storeprobe/internal/logging"
	"github.com/realbeans/storeprobe/internal/models"
	"github.com/realbeans/storeprobe/internal/probe"
	"github.com/realbeans/storeprobe/internal/report"
)

// ProbeDependencies holds everything a probe run needs
type ProbeDependencies struct {
	Getenv     func(string) string
	ConfigPath string
	Only       []string
	Format     report.Format
	OutPath    string
	Stdout     io.Writer
	LogOutput  io.Writer
	Verbose    bool

	// NewDriver overrides driver construction, mostly for tests
	NewDriver func(*config.ProbeConfig) (probe.Driver, error)
}

// RunProbe loads configuration, drives every selected scenario and writes the
// report. The returned run is nil only when the probe could not start.
func RunProbe(ctx context.Context, deps ProbeDependencies) (*models.Run, error) {
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.LogOutput == nil {
		deps.LogOutput = os.Stderr
	}
	if deps.NewDriver == nil {
		deps.NewDriver = NewDriver
	}

	cfg, err := LoadConfig(deps.Getenv, deps.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger := logging.NewSecureLogger(deps.LogOutput, deps.Verbose, cfg.Password)

	scenarios, err := probe.SelectScenarios(probe.DefaultScenarios(), deps.Only)
	if err != nil {
		return nil, err
	}

	out := deps.Stdout
	if deps.OutPath != "" {
		f, err := os.Create(deps.OutPath) //nolint:gosec // user-provided report path
		if err != nil {
			return nil, fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	writer, err := report.New(deps.Format, out)
	if err != nil {
		return nil, err
	}

	driver, err := deps.NewDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s driver: %w", cfg.Driver, err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Warn("failed to close driver", "error", err)
		}
	}()

	run := probe.NewRunner(cfg, driver, logger).Run(ctx, scenarios)

	if _, err := writer.Write(run); err != nil {
		return run, fmt.Errorf("failed to write report: %w", err)
	}
	return run, nil
}

// LoadConfig reads the optional YAML file then layers the environment over it.
// An explicit configPath that does not exist is an error.
func LoadConfig(getenv func(string) string, configPath string) (*config.ProbeConfig, error) {
	var file *config.File
	if path := config.FindConfigFile(configPath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		file = f
	} else if configPath != "" {
		return nil, fmt.Errorf("%s: %w", configPath, config.ErrConfigNotFound)
	}

	return config.LoadProbeConfig(getenv, file)
}

// NewDriver builds the harness named by cfg.Driver
func NewDriver(cfg *config.ProbeConfig) (probe.Driver, error) {
	switch cfg.Driver {
	case "http":
		return browser.NewHTTPDriver(cfg.Timeout, nil), nil
	case "playwright":
		d, err := browser.NewPlaywrightDriver(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidDriver, cfg.Driver)
	}
}

// OverlayEnv returns a getenv that prefers non-empty overrides
func OverlayEnv(getenv func(string) string, overrides map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := overrides[key]; ok && v != "" {
			return v
		}
		return getenv(key)
	}
}

// SplitList splits a comma separated flag value, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListScenarios prints the built-in suite in run order
func ListScenarios(w io.Writer) error {
	for _, sc := range probe.DefaultScenarios() {
		line := fmt.Sprintf("%-12s %s", sc.Name, sc.Description)
		if sc.Path != "" {
			line += fmt.Sprintf(" (starts at %s)", sc.Path)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
