// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, preview gate) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/code-nation/client-success-hub/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Client Success Hub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — one-time passcodes and volatile tokens
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for session and identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Preview (bypass) mode. The gate itself never checks these — the
	// preview middleware performs the full allow-listing before any
	// bypass boolean is handed downstream.
	PreviewSecret       string `env:"PREVIEW_SECRET"`
	PreviewAllowedHosts string `env:"PREVIEW_ALLOWED_HOSTS" envDefault:"localhost,127.0.0.1"`

	// MailWebhookURL is the transactional mail relay endpoint for passcode
	// delivery. Empty routes passcodes to the structured log instead
	// (development only).
	MailWebhookURL string `env:"MAIL_WEBHOOK_URL"`

	// Stripe billing portal
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	StripeAPIBase   string `env:"STRIPE_API_BASE" envDefault:"https://api.stripe.com"`
	PortalReturnURL string `env:"PORTAL_RETURN_URL" envDefault:"https://portal.code-nation.dev/billing"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PreviewHosts returns the parsed preview host allow-list.
func (c *Config) PreviewHosts() []string {
	return query.StringSlice(c.PreviewAllowedHosts)
}
