// Package client implements the HTTP client for the intakectl CLI to
// communicate with the contact-intake admin API.
package client
