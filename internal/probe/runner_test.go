package probe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realbeans/storeprobe/internal/config"
	"github.com/realbeans/storeprobe/internal/dom"
	"github.com/realbeans/storeprobe/internal/models"
)

func testConfig() *config.ProbeConfig {
	return &config.ProbeConfig{
		BaseURL:       "https://shop.example.com",
		ChallengePath: "/password",
		Driver:        "http",
		Browser:       "chromium",
		Timeout:       config.DefaultTimeout,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// trackingDriver serves store pages and remembers every page it opened
func trackingDriver() (*MockDriver, *[]*MockPage) {
	var pages []*MockPage
	driver := &MockDriver{}
	driver.NewPageFunc = func(context.Context) (Page, error) {
		p := &MockPage{HTML: storeHTML}
		pages = append(pages, p)
		return p, nil
	}
	return driver, &pages
}

func passing(name string) Scenario {
	return Scenario{
		Name:   name,
		Detect: func(*dom.Snapshot) Decision { return Decision{Target: "body"} },
		Verify: func(Page, Decision, Env) error { return nil },
	}
}

func TestRunner_OutcomePerScenario(t *testing.T) {
	// GIVEN
	driver, pages := trackingDriver()
	scenarios := []Scenario{
		passing("first"),
		{
			Name:   "absent",
			Detect: func(*dom.Snapshot) Decision { return SkipDecision("not here") },
			Verify: func(Page, Decision, Env) error {
				t.Error("skipped scenarios must not verify")
				return nil
			},
		},
		{
			Name:   "broken",
			Detect: func(*dom.Snapshot) Decision { return Decision{Target: "a"} },
			Verify: func(Page, Decision, Env) error { return ErrElementMissing },
		},
		passing("last"),
	}

	// WHEN
	run := NewRunner(testConfig(), driver, discardLogger()).Run(context.Background(), scenarios)

	// THEN
	require.Len(t, run.Results, 4)
	assert.Equal(t, models.OutcomePassed, run.Results[0].Outcome())
	assert.Equal(t, models.OutcomeSkipped, run.Results[1].Outcome())
	assert.Equal(t, "not here", run.Results[1].Note)
	assert.Equal(t, models.OutcomeFailed, run.Results[2].Outcome())
	assert.ErrorIs(t, run.Results[2].Err(), ErrElementMissing)
	assert.Equal(t, models.OutcomePassed, run.Results[3].Outcome(), "a failure must not stop the run")
	assert.Equal(t, 1, run.ExitCode())
	assert.Equal(t, "mock", run.Driver)

	assert.Len(t, *pages, 4, "every scenario gets a fresh page")
	for _, p := range *pages {
		assert.True(t, p.Closed)
		assert.Equal(t, "https://shop.example.com", p.URLValue)
	}
}

func TestRunner_PathOverride(t *testing.T) {
	// GIVEN
	driver, pages := trackingDriver()
	var visited []string
	driver.NewPageFunc = func(context.Context) (Page, error) {
		p := &MockPage{HTML: storeHTML}
		p.GotoFunc = func(u string) error {
			visited = append(visited, u)
			p.URLValue = u
			return nil
		}
		*pages = append(*pages, p)
		return p, nil
	}
	sc := passing("catalog")
	sc.Path = "/collections/all"

	// WHEN
	run := NewRunner(testConfig(), driver, discardLogger()).Run(context.Background(), []Scenario{sc})

	// THEN
	assert.Equal(t, models.OutcomePassed, run.Results[0].Outcome())
	assert.Equal(t, []string{"https://shop.example.com", "https://shop.example.com/collections/all"}, visited)
	assert.Equal(t, "https://shop.example.com/collections/all", run.Results[0].URL)
}

func TestRunner_HarnessErrors(t *testing.T) {
	tests := []struct {
		name        string
		newPage     func(context.Context) (Page, error)
		scenario    Scenario
		errContains string
	}{
		{
			name: "page cannot open",
			newPage: func(context.Context) (Page, error) {
				return nil, errors.New("browser crashed")
			},
			scenario:    passing("home"),
			errContains: "failed to open page",
		},
		{
			name: "navigation fails",
			newPage: func(context.Context) (Page, error) {
				return &MockPage{GotoFunc: func(string) error { return errors.New("dns") }}, nil
			},
			scenario:    passing("home"),
			errContains: "failed to navigate",
		},
		{
			name: "gate never clears",
			newPage: func(context.Context) (Page, error) {
				return &MockPage{
					URLValue: "https://shop.example.com/password",
					HTML:     challengeHTML,
					GotoFunc: func(string) error { return nil },
				}, nil
			},
			scenario:    passing("home"),
			errContains: "password gate was not cleared",
		},
		{
			name: "scenario without detection",
			newPage: func(context.Context) (Page, error) {
				return &MockPage{HTML: storeHTML}, nil
			},
			scenario:    Scenario{Name: "empty"},
			errContains: "no detection step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			driver := &MockDriver{NewPageFunc: tt.newPage}

			// WHEN
			run := NewRunner(testConfig(), driver, discardLogger()).Run(context.Background(), []Scenario{tt.scenario, passing("next")})

			// THEN
			require.Len(t, run.Results, 2)
			assert.Equal(t, models.OutcomeFailed, run.Results[0].Outcome())
			assert.Contains(t, run.Results[0].Error, tt.errContains)
			assert.True(t, run.Results[1].IsFinished())
		})
	}
}

func TestRunner_CancelledContextFailsRemaining(t *testing.T) {
	// GIVEN
	driver, _ := trackingDriver()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := passing("first")
	first.Verify = func(Page, Decision, Env) error {
		cancel()
		return nil
	}

	// WHEN
	run := NewRunner(testConfig(), driver, discardLogger()).Run(ctx, []Scenario{first, passing("second"), passing("third")})

	// THEN
	assert.Equal(t, models.OutcomePassed, run.Results[0].Outcome())
	for _, res := range run.Results[1:] {
		assert.Equal(t, models.OutcomeFailed, res.Outcome(), res.Name)
		assert.ErrorIs(t, res.Err(), context.Canceled, res.Name)
	}
	assert.Equal(t, 1, driver.Opened, "cancelled scenarios never open a page")
}

func TestRunner_InvalidScenarioName(t *testing.T) {
	driver, _ := trackingDriver()

	run := NewRunner(testConfig(), driver, discardLogger()).Run(context.Background(), []Scenario{passing("")})

	require.Len(t, run.Results, 1)
	assert.ErrorIs(t, run.Results[0].Err(), models.ErrInvalidScenarioName)
}

func TestResolve(t *testing.T) {
	got, err := resolve("https://shop.example.com/en", "/collections/all")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/collections/all", got)

	_, err = resolve("https://shop.example.com", "%zz")
	assert.Error(t, err)
}
