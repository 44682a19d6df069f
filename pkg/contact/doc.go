// Package contact implements the contact submission workflow: the public
// form page, the submission endpoint (validate, persist, audit, notify),
// the gorm-backed repository, and the token-guarded admin listing API.
package contact
