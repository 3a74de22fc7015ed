package config

import (
	"fmt"
	"strings"
)

// Storefront features that the fixture can hide
var FixtureFeatures = []string{"menu", "collections", "products", "cart", "search"}

// FixtureConfig holds configuration for the fixture storefront server
type FixtureConfig struct {
	Port     string
	Password string
	Disabled []string
}

// LoadFixtureConfig loads fixture server configuration from environment variables
func LoadFixtureConfig(getenv func(string) string) (FixtureConfig, error) {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	var disabled []string
	for _, f := range strings.Split(getenv("FIXTURE_DISABLE"), ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !contains(FixtureFeatures, f) {
			return FixtureConfig{}, fmt.Errorf("FIXTURE_DISABLE: unknown feature %q", f)
		}
		disabled = append(disabled, f)
	}

	return FixtureConfig{
		Port:     port,
		Password: getenv("FIXTURE_PASSWORD"),
		Disabled: disabled,
	}, nil
}

// IsDisabled reports whether feature should be hidden
func (c FixtureConfig) IsDisabled(feature string) bool {
	return contains(c.Disabled, feature)
}
