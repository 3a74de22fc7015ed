package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/realbeans/storeprobe/internal/config"
	"github.com/realbeans/storeprobe/internal/logging"
	"github.com/realbeans/storeprobe/internal/models"
)

// Runner executes scenarios one at a time against a storefront
type Runner interface {
	Run(ctx context.Context, scenarios []Scenario) *models.Run
}

// RunnerImpl implements Runner
type RunnerImpl struct {
	config *config.ProbeConfig
	driver Driver
	logger *slog.Logger
}

// NewRunner creates a runner bound to one configuration and driver
func NewRunner(cfg *config.ProbeConfig, driver Driver, logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunnerImpl{
		config: cfg,
		driver: driver,
		logger: logger,
	}
}

// Run executes scenarios in declaration order. A failing scenario never stops
// the run; a cancelled context fails every scenario not yet started.
func (r *RunnerImpl) Run(ctx context.Context, scenarios []Scenario) *models.Run {
	run := models.NewRun(r.config.BaseURL, r.driver.Name())
	r.logger.Info("starting probe run", "run_id", run.ID, "base_url", r.config.BaseURL,
		"driver", r.driver.Name(), "scenarios", len(scenarios))

	for _, sc := range scenarios {
		result, err := models.NewScenarioResult(sc.Name)
		if err != nil {
			result = &models.ScenarioResult{Name: "unnamed", Status: models.ScenarioStatusNotRun}
			_ = result.Fail(err)
			run.Add(result)
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			_ = result.Fail(fmt.Errorf("run cancelled: %w", ctxErr))
		} else {
			r.runScenario(ctx, sc, result)
		}
		r.redact(result)

		r.logResult(result)
		run.Add(result)
	}

	run.Finish()
	summary := run.Summary()
	r.logger.Info("probe run finished", "run_id", run.ID, "passed", summary.Passed,
		"failed", summary.Failed, "skipped", summary.Skipped, "duration", run.Duration())
	return run
}

// runScenario drives one scenario to a terminal state
func (r *RunnerImpl) runScenario(ctx context.Context, sc Scenario, result *models.ScenarioResult) {
	if err := result.Begin(); err != nil {
		_ = result.Fail(err)
		return
	}

	page, err := r.driver.NewPage(ctx)
	if err != nil {
		_ = result.Fail(fmt.Errorf("failed to open page: %w", err))
		return
	}
	defer func() {
		result.URL = page.URL()
		if err := page.Close(); err != nil {
			r.logger.Warn("failed to close page", "scenario", sc.Name, "error", err)
		}
	}()

	decision, err := r.detect(page, sc)
	if err != nil {
		_ = result.Fail(err)
		return
	}

	if decision.Skip {
		r.logger.Info(decision.Note, "scenario", sc.Name)
		_ = result.Skip(decision.Note)
		return
	}

	if err := result.Interact(); err != nil {
		_ = result.Fail(err)
		return
	}
	if decision.Note != "" {
		r.logger.Info(decision.Note, "scenario", sc.Name)
		result.Note = decision.Note
	}

	if sc.Verify != nil {
		env := Env{BaseURL: r.config.BaseURL}
		if err := sc.Verify(page, decision, env); err != nil {
			_ = result.Fail(err)
			return
		}
	}
	_ = result.Verify()
}

// detect navigates, clears the gate and runs the scenario's detection
func (r *RunnerImpl) detect(page Page, sc Scenario) (Decision, error) {
	gate := &Gate{
		Secret:        r.config.Password,
		ChallengePath: r.config.ChallengePath,
		Logger:        r.logger.With("scenario", sc.Name),
	}

	if err := page.Goto(r.config.BaseURL); err != nil {
		return Decision{}, fmt.Errorf("failed to navigate to %s: %w", r.config.BaseURL, err)
	}
	if _, err := gate.Bypass(page); err != nil {
		return Decision{}, err
	}

	if sc.Path != "" {
		target, err := resolve(r.config.BaseURL, sc.Path)
		if err != nil {
			return Decision{}, err
		}
		if err := page.Goto(target); err != nil {
			return Decision{}, fmt.Errorf("failed to navigate to %s: %w", target, err)
		}
		if _, err := gate.Bypass(page); err != nil {
			return Decision{}, err
		}
	}

	snap, err := Snapshot(page)
	if err != nil {
		return Decision{}, err
	}
	if sc.Detect == nil {
		return Decision{}, errors.New("scenario has no detection step")
	}
	return sc.Detect(snap), nil
}

// redact masks the storefront password in everything a report prints
func (r *RunnerImpl) redact(result *models.ScenarioResult) {
	secret := r.config.Password
	result.Error = logging.Redact(result.Error, secret)
	result.Note = logging.Redact(result.Note, secret)
	result.URL = logging.Redact(result.URL, secret)
}

func (r *RunnerImpl) logResult(result *models.ScenarioResult) {
	attrs := []any{"scenario", result.Name, "outcome", result.Outcome(), "duration", result.Duration()}
	if result.Outcome() == models.OutcomeFailed {
		r.logger.Error("scenario failed", append(attrs, "error", result.Error)...)
		return
	}
	r.logger.Info("scenario finished", attrs...)
}

// resolve joins a path onto the base URL
func resolve(base, path string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("invalid scenario path %q: %w", path, err)
	}
	return b.ResolveReference(ref).String(), nil
}
