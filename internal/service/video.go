package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/storage"

	"gorm.io/gorm"
)

// NoRatingsSentinel is rendered when a video has no stored scores.
const NoRatingsSentinel = "No ratings yet"

var allowedVideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

type VideoService interface {
	Upload(ctx context.Context, userID uint, title string, price float64, filename string, file io.Reader) (*model.Video, error)
	List(ctx context.Context) ([]*dto.VideoResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]*dto.VideoResponse, error)
	Detail(ctx context.Context, userID, videoID uint) (*dto.VideoDetailResponse, error)
	Edit(ctx context.Context, userID, videoID uint, title string, price float64, filename string, file io.Reader) (*model.Video, error)
	Delete(ctx context.Context, userID, videoID uint) error
	AddComment(ctx context.Context, userID, videoID uint, content string) (*model.Comment, error)
	Rate(ctx context.Context, userID, videoID uint, score int) error
	HasAccess(ctx context.Context, userID, videoID uint) (bool, error)
	ServePath(ctx context.Context, userID uint, filename string) (string, error)
}

type videoServiceImpl struct {
	db           *gorm.DB
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	ratingRepo   repository.RatingRepository
	purchaseRepo repository.PurchaseRepository
	store        storage.FileStore
}

func NewVideoService(
	db *gorm.DB,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	ratingRepo repository.RatingRepository,
	purchaseRepo repository.PurchaseRepository,
	store storage.FileStore,
) VideoService {
	return &videoServiceImpl{
		db:           db,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		ratingRepo:   ratingRepo,
		purchaseRepo: purchaseRepo,
		store:        store,
	}
}

// HasAccess is the access gate: true iff a purchase row exists for the pair.
// Unauthenticated callers pass userID 0 and are always denied.
func (s *videoServiceImpl) HasAccess(ctx context.Context, userID, videoID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.purchaseRepo.Exists(ctx, userID, videoID)
}

func (s *videoServiceImpl) Upload(ctx context.Context, userID uint, title string, price float64, filename string, file io.Reader) (*model.Video, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 100 {
		return nil, fmt.Errorf("%w: title must be 1-100 characters", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	storedName, err := storageName(filename)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(file, storedName); err != nil {
		return nil, fmt.Errorf("save video file: %w", err)
	}

	video := &model.Video{
		Title:    title,
		Filename: storedName,
		Price:    price,
		UserID:   userID,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("store video in db: %w", err)
	}

	return video, nil
}

func (s *videoServiceImpl) List(ctx context.Context) ([]*dto.VideoResponse, error) {
	videos, err := s.videoRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return s.toResponses(ctx, videos)
}

func (s *videoServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*dto.VideoResponse, error) {
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user videos: %w", err)
	}
	return s.toResponses(ctx, videos)
}

func (s *videoServiceImpl) toResponses(ctx context.Context, videos []*model.Video) ([]*dto.VideoResponse, error) {
	out := make([]*dto.VideoResponse, len(videos))
	for i, v := range videos {
		avg, err := s.ratingRepo.Average(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("average rating: %w", err)
		}
		out[i] = &dto.VideoResponse{
			ID:            v.ID,
			Title:         v.Title,
			Price:         v.Price,
			UserID:        v.UserID,
			CreatedAt:     v.CreatedAt,
			AverageRating: FormatAverage(avg),
		}
	}
	return out, nil
}

// FormatAverage renders an arithmetic mean rounded to 2 decimal places,
// or the sentinel when no scores are stored.
func FormatAverage(avg *float64) string {
	if avg == nil {
		return NoRatingsSentinel
	}
	return fmt.Sprintf("%.2f", *avg)
}

func (s *videoServiceImpl) Detail(ctx context.Context, userID, videoID uint) (*dto.VideoDetailResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	// consulted on every view request, never cached across requests
	hasAccess, err := s.HasAccess(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !hasAccess {
		return nil, ErrPurchaseRequired
	}

	avg, err := s.ratingRepo.Average(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	comments, err := s.commentRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	resp := &dto.VideoDetailResponse{
		Video: dto.VideoResponse{
			ID:            video.ID,
			Title:         video.Title,
			Price:         video.Price,
			UserID:        video.UserID,
			CreatedAt:     video.CreatedAt,
			AverageRating: FormatAverage(avg),
		},
		Comments: make([]dto.CommentResponse, len(comments)),
	}
	for i, c := range comments {
		resp.Comments[i] = dto.CommentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}

	return resp, nil
}

func (s *videoServiceImpl) Edit(ctx context.Context, userID, videoID uint, title string, price float64, filename string, file io.Reader) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, ErrForbidden
	}

	if title = strings.TrimSpace(title); title != "" {
		video.Title = title
	}
	if price > 0 {
		video.Price = price
	}

	if file != nil {
		storedName, err := storageName(filename)
		if err != nil {
			return nil, err
		}

		// old file removal must not block the replacement
		if err := s.store.Delete(video.Filename); err != nil {
			log.Printf("delete old video file %s: %v", video.Filename, err)
		}
		if err := s.store.Save(file, storedName); err != nil {
			return nil, fmt.Errorf("save video file: %w", err)
		}
		video.Filename = storedName
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}

	return video, nil
}

func (s *videoServiceImpl) Delete(ctx context.Context, userID, videoID uint) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		return ErrForbidden
	}

	// dependents first so an interrupted delete never leaves dangling references
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.DeleteByVideo(ctx, tx, videoID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := s.ratingRepo.DeleteByVideo(ctx, tx, videoID); err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		if err := s.purchaseRepo.DeleteByVideo(ctx, tx, videoID); err != nil {
			return fmt.Errorf("delete purchases: %w", err)
		}
		if err := s.videoRepo.Delete(ctx, tx, videoID); err != nil {
			return fmt.Errorf("delete video: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.store.Delete(video.Filename); err != nil {
		log.Printf("delete video file %s: %v", video.Filename, err)
	}

	return nil
}

func (s *videoServiceImpl) AddComment(ctx context.Context, userID, videoID uint, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment must not be empty", ErrValidation)
	}

	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return nil, err
	}

	hasAccess, err := s.HasAccess(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !hasAccess {
		return nil, ErrPurchaseRequired
	}

	comment := &model.Comment{
		VideoID: videoID,
		UserID:  userID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}

	return comment, nil
}

func (s *videoServiceImpl) Rate(ctx context.Context, userID, videoID uint, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", ErrValidation)
	}

	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return err
	}

	return s.ratingRepo.Upsert(ctx, &model.Rating{
		VideoID: videoID,
		UserID:  userID,
		Score:   score,
		RatedAt: time.Now().UTC(),
	})
}

// ServePath resolves a stored filename to a disk path, gated on purchase.
// The uploader is exempt from the gate for their own file.
func (s *videoServiceImpl) ServePath(ctx context.Context, userID uint, filename string) (string, error) {
	video, err := s.videoRepo.FindByFilename(ctx, filename)
	if err != nil {
		return "", err
	}

	hasAccess, err := s.HasAccess(ctx, userID, video.ID)
	if err != nil {
		return "", fmt.Errorf("check access: %w", err)
	}
	if !hasAccess && video.UserID != userID {
		return "", ErrPurchaseRequired
	}

	return s.store.Path(filename), nil
}

// storageName validates the extension allow-list and prefixes a UTC
// timestamp so repeated uploads of the same name cannot collide.
func storageName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedVideoExtensions[ext] {
		return "", fmt.Errorf("%w: file type not allowed (mp4, mov, avi, mkv)", ErrValidation)
	}

	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")

	return time.Now().UTC().Format("20060102150405") + "_" + base, nil
}
