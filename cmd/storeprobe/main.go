package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	internalcli "github.com/realbeans/storeprobe/internal/cli"
	"github.com/realbeans/storeprobe/internal/config"
	"github.com/realbeans/storeprobe/internal/report"
	"github.com/realbeans/storeprobe/internal/storefront"
)

var version = "0.1.0"

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Probe a storefront and report which scenarios pass",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "storefront address (overrides " + config.EnvBaseURL + ")"},
			&cli.StringFlag{Name: "driver", Usage: "playwright or http (overrides " + config.EnvDriver + ")"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit (overrides " + config.EnvBrowser + ")"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.DurationFlag{Name: "timeout", Usage: "per-step wait limit (overrides " + config.EnvTimeout + ")"},
			&cli.StringFlag{Name: "config", Usage: "YAML config file (default ./" + config.DefaultConfigFile + ")"},
			&cli.StringFlag{Name: "only", Usage: "comma separated scenario names"},
			&cli.StringFlag{Name: "report", Value: string(report.FormatText), Usage: "text, json or markdown"},
			&cli.StringFlag{Name: "out", Usage: "write the report to a file instead of stdout"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Action: func(c *cli.Context) error {
			format, err := report.ParseFormat(c.String("report"))
			if err != nil {
				return err
			}

			overrides := map[string]string{
				config.EnvBaseURL: c.String("base-url"),
				config.EnvDriver:  c.String("driver"),
				config.EnvBrowser: c.String("browser"),
			}
			if c.IsSet("headed") {
				overrides[config.EnvHeadless] = strconv.FormatBool(!c.Bool("headed"))
			}
			if c.IsSet("timeout") {
				overrides[config.EnvTimeout] = c.Duration("timeout").String()
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, err := internalcli.RunProbe(ctx, internalcli.ProbeDependencies{
				Getenv:     internalcli.OverlayEnv(os.Getenv, overrides),
				ConfigPath: c.String("config"),
				Only:       internalcli.SplitList(c.String("only")),
				Format:     format,
				OutPath:    c.String("out"),
				Stdout:     c.App.Writer,
				LogOutput:  c.App.ErrWriter,
				Verbose:    c.Bool("verbose"),
			})
			if err != nil {
				return err
			}
			if run.Failed() {
				return cli.Exit(fmt.Sprintf("%d scenario(s) failed", run.Summary().Failed), run.ExitCode())
			}
			return nil
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the built-in scenarios in run order",
		Action: func(c *cli.Context) error {
			return internalcli.ListScenarios(c.App.Writer)
		},
	}
}

// ServeFixtureCommand returns the serve-fixture command
func ServeFixtureCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve-fixture",
		Usage: "Start a local storefront to probe",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadFixtureConfig(os.Getenv)
			if err != nil {
				return err
			}

			handler, err := storefront.New(storefront.Options{
				Password: cfg.Password,
				Theme:    storefront.ThemeFromConfig(cfg),
			})
			if err != nil {
				return fmt.Errorf("failed to create storefront: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				FixtureConfig: cfg,
				Storefront:    handler,
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storeprobe",
		Usage:   "Smoke-test a storefront's core shopping paths",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			ServeFixtureCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
