// Package api provides the HTTP server shell: the gin engine with logging
// and recovery middleware, health and metrics endpoints, and the controller
// registration contract.
package api
