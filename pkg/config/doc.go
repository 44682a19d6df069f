// Package config loads the contact-intake YAML configuration file and
// applies process-wide defaults. Configuration is read once at startup and
// held immutably for the process lifetime.
package config
