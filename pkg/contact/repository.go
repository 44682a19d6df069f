// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a submission reference does not exist.
var ErrNotFound = errors.New("submission not found")

// Repository persists contact submissions.
type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByReference(ctx context.Context, reference string) (*Submission, error)
	List(ctx context.Context, opts ListOptions) ([]Submission, error)
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed submission repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, s *Submission) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("creating contact submission: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByReference(ctx context.Context, reference string) (*Submission, error) {
	var s Submission
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching contact submission %s: %w", reference, err)
	}
	return &s, nil
}

func (r *gormRepository) List(ctx context.Context, opts ListOptions) ([]Submission, error) {
	opts = opts.normalized()

	var subs []Submission
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("listing contact submissions: %w", err)
	}
	return subs, nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Submission{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting contact submissions: %w", err)
	}
	return count, nil
}
