package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert inserts the first rating for the pair and overwrites the score
	// and timestamp on later submissions.
	Upsert(ctx context.Context, rating *model.Rating) error
	Average(ctx context.Context, videoID uint) (*float64, error)
	DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
}

type ratingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepoImpl{
		db: db,
	}
}

func (r *ratingRepoImpl) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":    rating.Score,
			"rated_at": rating.RatedAt,
		}),
	}).Create(rating).Error
}

// Average returns nil when the video has no ratings yet.
func (r *ratingRepoImpl) Average(ctx context.Context, videoID uint) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("video_id = ?", videoID).
		Select("AVG(score)").
		Scan(&avg).Error

	if err != nil {
		return nil, err
	}

	return avg, nil
}

func (r *ratingRepoImpl) DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error {
	return tx.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.Rating{}).Error
}
