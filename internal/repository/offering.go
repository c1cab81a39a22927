package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
)

type OfferingRepository interface {
	Create(ctx context.Context, offering *model.Offering) error
	FindByID(ctx context.Context, offeringID uint) (*model.Offering, error)
	List(ctx context.Context) ([]*model.Offering, error)
	Delete(ctx context.Context, tx *gorm.DB, offeringID uint) error
}

type offeringRepoImpl struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &offeringRepoImpl{
		db: db,
	}
}

func (r *offeringRepoImpl) Create(ctx context.Context, offering *model.Offering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}

func (r *offeringRepoImpl) FindByID(ctx context.Context, offeringID uint) (*model.Offering, error) {
	var offering model.Offering
	err := r.db.WithContext(ctx).
		Where("id = ?", offeringID).
		First(&offering).Error

	if err != nil {
		return nil, err
	}

	return &offering, nil
}

func (r *offeringRepoImpl) List(ctx context.Context) ([]*model.Offering, error) {
	var offerings []*model.Offering
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&offerings).Error

	if err != nil {
		return nil, err
	}

	return offerings, nil
}

func (r *offeringRepoImpl) Delete(ctx context.Context, tx *gorm.DB, offeringID uint) error {
	return tx.WithContext(ctx).Delete(&model.Offering{}, offeringID).Error
}
