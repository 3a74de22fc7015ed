package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadProbeConfig
const (
	EnvBaseURL       = "STOREFRONT_BASE_URL"
	EnvPassword      = "STOREFRONT_PASSWORD"
	EnvChallengePath = "STOREFRONT_CHALLENGE_PATH"
	EnvDriver        = "PROBE_DRIVER"
	EnvBrowser       = "PROBE_BROWSER"
	EnvHeadless      = "PROBE_HEADLESS"
	EnvTimeout       = "PROBE_TIMEOUT"
)

// Defaults
const (
	DefaultChallengePath = "/password"
	DefaultDriver        = "playwright"
	DefaultBrowser       = "chromium"
	DefaultTimeout       = 10 * time.Second
)

// Supported drivers and browsers
var (
	Drivers  = []string{"playwright", "http"}
	Browsers = []string{"chromium", "firefox", "webkit"}
)

// Validation errors
var (
	ErrInvalidBaseURL = errors.New("STOREFRONT_BASE_URL must be an absolute http or https URL")
	ErrInvalidDriver  = errors.New("unsupported driver")
	ErrInvalidBrowser = errors.New("unsupported browser")
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// ProbeConfig holds the run-wide, read-only probe configuration
type ProbeConfig struct {
	BaseURL       string
	Password      string
	ChallengePath string
	Driver        string
	Browser       string
	Headless      bool
	Timeout       time.Duration
}

// LoadProbeConfig layers environment values over the optional config file and
// the built-in defaults, then validates the result. file may be nil.
func LoadProbeConfig(getenv func(string) string, file *File) (*ProbeConfig, error) {
	config := &ProbeConfig{
		ChallengePath: DefaultChallengePath,
		Driver:        DefaultDriver,
		Browser:       DefaultBrowser,
		Headless:      true,
		Timeout:       DefaultTimeout,
	}

	if file != nil {
		if err := file.apply(config); err != nil {
			return nil, err
		}
	}

	setString(&config.BaseURL, getenv(EnvBaseURL))
	setString(&config.Password, getenv(EnvPassword))
	setString(&config.ChallengePath, getenv(EnvChallengePath))
	setString(&config.Driver, strings.ToLower(getenv(EnvDriver)))
	setString(&config.Browser, strings.ToLower(getenv(EnvBrowser)))

	if v := getenv(EnvHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		config.Headless = headless
	}
	if v := getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		config.Timeout = timeout
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks required fields and enumerations
func (c *ProbeConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%s is required", EnvBaseURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.ChallengePath == "" {
		c.ChallengePath = DefaultChallengePath
	}
	if !contains(Drivers, c.Driver) {
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Driver)
	}
	if !contains(Browsers, c.Browser) {
		return fmt.Errorf("%w: %q", ErrInvalidBrowser, c.Browser)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// TimeoutMillis returns the timeout in the unit playwright expects
func (c *ProbeConfig) TimeoutMillis() float64 {
	return float64(c.Timeout / time.Millisecond)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
