package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByVideo(ctx context.Context, videoID uint) ([]*model.Comment, error)
	DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
}

type commentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepoImpl{
		db: db,
	}
}

func (r *commentRepoImpl) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepoImpl) ListByVideo(ctx context.Context, videoID uint) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Find(&comments).Error

	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepoImpl) DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error {
	return tx.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.Comment{}).Error
}
