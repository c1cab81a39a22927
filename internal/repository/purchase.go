package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	// Exists is the access gate: true iff a grant row exists for the pair.
	Exists(ctx context.Context, userID, videoID uint) (bool, error)
	// CreateIfAbsent inserts a grant unless the (video, user) pair is already
	// granted. The unique index plus OnConflict DoNothing makes the two
	// settlement paths converge without a read-then-write race.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error
	DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) Exists(ctx context.Context, userID, videoID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ?", userID).
		Where("video_id = ?", videoID).
		Count(&count).Error

	return count > 0, err
}

func (r *purchaseRepoImpl) CreateIfAbsent(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(purchase).Error
}

func (r *purchaseRepoImpl) DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error {
	return tx.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.Purchase{}).Error
}
