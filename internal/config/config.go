package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	Region   string `env:"AWS_REGION_NAME" envDefault:"us-east-1"`
	Tables   Tables
	Cognito  Cognito
}

// Tables contains DynamoDB table names.
type Tables struct {
	Items   string `env:"ITEM_TABLE" envDefault:"recallist_items"`
	APIKeys string `env:"API_KEYS_TABLE" envDefault:"recallist_api_keys"`
}

// Cognito contains the issuer allow-list parameters for bearer tokens.
// When UserPoolID is empty the issuer check is skipped.
type Cognito struct {
	UserPoolID string `env:"USER_POOL_ID"`
	Region     string `env:"COGNITO_REGION" envDefault:"us-east-1"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// IssuerPrefix returns the expected Cognito issuer prefix, or "" when no
// user pool is configured.
func (c *Cognito) IssuerPrefix() string {
	if c.UserPoolID == "" {
		return ""
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}
