// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs to trust for X-Forwarded-For headers (e.g., ["10.0.0.0/8", "127.0.0.1"])
	// StaticDir optionally serves static assets (stylesheets, images) for the
	// contact form page. Empty disables static serving.
	StaticDir string `yaml:"staticDir"`
}

type Contact struct {
	// RecipientAddress is the fixed destination for submission notification
	// emails. It is read from configuration only and never from the request.
	RecipientAddress string `yaml:"recipientAddress"`
	// SubjectPrefix is prepended to notification subjects, e.g. "[Contact]".
	SubjectPrefix string `yaml:"subjectPrefix"`
	// BrandingName optionally overrides the product name shown on the form
	// page and in notification emails.
	BrandingName string `yaml:"brandingName"`
	// MaxMessageLength bounds the message field. Defaults to 5000.
	MaxMessageLength int `yaml:"maxMessageLength"`
	// AdminToken guards the admin submission listing endpoints. Empty
	// disables the admin API entirely.
	AdminToken string `yaml:"adminToken"`
}

type Database struct {
	// Driver selects the gorm dialector: "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is the driver-specific data source name. For sqlite this is a file
	// path (or ":memory:"), for postgres a key=value connection string.
	DSN string `yaml:"dsn"`
}

type Mail struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	SenderAddress      string `yaml:"senderAddress"`
	SenderName         string `yaml:"senderName"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
	QueueSize          int    `yaml:"queueSize"`
}

type Audit struct {
	Enabled bool `yaml:"enabled"`
	// KafkaBrokers enables the Kafka sink when non-empty.
	KafkaBrokers []string `yaml:"kafkaBrokers"`
	KafkaTopic   string   `yaml:"kafkaTopic"`
	QueueSize    int      `yaml:"queueSize"`
}

type RateLimit struct {
	// Rate is the number of submissions allowed per second per client IP.
	Rate float64 `yaml:"rate"`
	// Burst is the maximum burst size per client IP.
	Burst int `yaml:"burst"`
}

type Telemetry struct {
	Enabled bool `yaml:"enabled"`
	// Exporter selects the trace exporter: "otlp" (default), "stdout", or "none".
	Exporter string `yaml:"exporter"`
	// Endpoint is the OTLP collector endpoint (e.g. "otel-collector:4317").
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

type Config struct {
	Server    Server    `yaml:"server"`
	Contact   Contact   `yaml:"contact"`
	Database  Database  `yaml:"database"`
	Mail      Mail      `yaml:"mail"`
	Audit     Audit     `yaml:"audit"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Defaults fills unset fields with sensible defaults. Call after Load.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Contact.SubjectPrefix == "" {
		c.Contact.SubjectPrefix = "[Contact]"
	}
	if c.Contact.BrandingName == "" {
		c.Contact.BrandingName = "Contact Intake"
	}
	if c.Contact.MaxMessageLength <= 0 {
		c.Contact.MaxMessageLength = 5000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./contact-intake.db"
	}
	if c.Mail.Port <= 0 {
		c.Mail.Port = 587
	}
	if c.Mail.RetryCount <= 0 {
		c.Mail.RetryCount = 5
	}
	if c.Mail.RetryBackoffMs <= 0 {
		c.Mail.RetryBackoffMs = 10000
	}
	if c.Mail.QueueSize <= 0 {
		c.Mail.QueueSize = 1000
	}
	if c.Audit.QueueSize <= 0 {
		c.Audit.QueueSize = 1000
	}
	if c.Audit.KafkaTopic == "" {
		c.Audit.KafkaTopic = "contact-intake.audit"
	}
	if c.RateLimit.Rate <= 0 {
		c.RateLimit.Rate = 1
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
	if c.Telemetry.SamplingRate <= 0 {
		c.Telemetry.SamplingRate = 1.0
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.Contact.RecipientAddress == "" {
		return fmt.Errorf("contact.recipientAddress is required")
	}
	if c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	return nil
}

// Load loads the contact-intake configuration from a file path.
// If configPath is empty, defaults to "./config.yaml". The path can also be
// overridden via the CONTACT_INTAKE_CONFIG_PATH environment variable.
func Load(configPath ...string) (Config, error) {
	var path string

	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else if env := os.Getenv("CONTACT_INTAKE_CONFIG_PATH"); env != "" {
		path = env
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open contact-intake config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}
	return config, nil
}
