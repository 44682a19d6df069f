// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package contact

import "time"

// Submission is a single contact form post captured and stored. Rows are
// created exactly once per accepted POST and never mutated by this workflow.
type Submission struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// Reference is the externally visible identifier used in notification
	// emails, audit events, and the admin API.
	Reference string `gorm:"uniqueIndex;size:36" json:"reference"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Email     string `gorm:"size:255;not null;index" json:"email"`
	Message   string `gorm:"type:text;not null" json:"message"`
	// SourceIP and UserAgent record where the submission came from.
	SourceIP  string    `gorm:"size:64" json:"sourceIP,omitempty"`
	UserAgent string    `gorm:"size:512" json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName pins the storage table name.
func (Submission) TableName() string {
	return "contact_submissions"
}

// SubmitRequest is the typed binding for an incoming contact form post.
// Binding both form and JSON bodies keeps the handler usable from a plain
// HTML form and from API clients. Unknown keys are dropped by binding into
// this struct; the submitter never controls the stored column set.
type SubmitRequest struct {
	Name    string `form:"name" json:"name" binding:"required,min=1,max=255"`
	Email   string `form:"email" json:"email" binding:"required,email,max=255"`
	Message string `form:"message" json:"message" binding:"required,min=1,max=5000"`
}

// ListOptions carries paging parameters for the admin submission listing.
type ListOptions struct {
	Limit  int
	Offset int
}

// normalized clamps paging values to the supported range: limit defaults to
// 50 and never exceeds 200, offset is never negative.
func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 || o.Limit > 200 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
