// Package mail sends contact submission notifications over SMTP through an
// asynchronous retry queue.
package mail
