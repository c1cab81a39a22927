package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID uint) (*model.Video, error)
	FindByFilename(ctx context.Context, filename string) (*model.Video, error)
	ListNewestFirst(ctx context.Context) ([]*model.Video, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Video, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, tx *gorm.DB, videoID uint) error
}

type videoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepoImpl{
		db: db,
	}
}

func (r *videoRepoImpl) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepoImpl) FindByID(ctx context.Context, videoID uint) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).
		Where("id = ?", videoID).
		First(&video).Error

	if err != nil {
		return nil, err
	}

	return &video, nil
}

func (r *videoRepoImpl) FindByFilename(ctx context.Context, filename string) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).
		Where("filename = ?", filename).
		First(&video).Error

	if err != nil {
		return nil, err
	}

	return &video, nil
}

func (r *videoRepoImpl) ListNewestFirst(ctx context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&videos).Error

	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *videoRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&videos).Error

	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *videoRepoImpl) Update(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *videoRepoImpl) Delete(ctx context.Context, tx *gorm.DB, videoID uint) error {
	return tx.WithContext(ctx).Delete(&model.Video{}, videoID).Error
}
