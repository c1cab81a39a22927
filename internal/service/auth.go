package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"video-marketplace/internal/config"
	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultProfilePicture = "default.jpg"

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, userID uint) (*model.User, error)
	GetProfile(ctx context.Context, username string) (*model.User, error)
	UpdateAccount(ctx context.Context, userID uint, req *dto.UpdateAccountRequest, pictureName string, picture io.Reader) (*model.User, error)
	PicturePath(filename string) (string, error)
	IssueToken(userID uint) (string, error)
}

type authServiceImpl struct {
	userRepo     repository.UserRepository
	pictureStore storage.FileStore
	authCfg      *config.Auth
}

func NewAuthService(userRepo repository.UserRepository, pictureStore storage.FileStore, authCfg *config.Auth) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		pictureStore: pictureStore,
		authCfg:      authCfg,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || len(username) > 20 {
		return nil, fmt.Errorf("%w: username must be 1-20 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateAccount
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		ImageFile:    defaultProfilePicture,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(user.ID)
}

func (s *authServiceImpl) IssueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.authCfg.TokenTTLHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *authServiceImpl) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *authServiceImpl) GetProfile(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *authServiceImpl) UpdateAccount(ctx context.Context, userID uint, req *dto.UpdateAccountRequest, pictureName string, picture io.Reader) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username != "" && username != user.Username {
		if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
			return nil, ErrDuplicateAccount
		}
		user.Username = username
	}
	if email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
		}
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, ErrDuplicateAccount
		}
		user.Email = email
	}
	user.Bio = req.Bio

	if picture != nil {
		ext := strings.ToLower(filepath.Ext(pictureName))
		if !allowedImageExtensions[ext] {
			return nil, fmt.Errorf("%w: picture type not allowed (png, jpg, jpeg)", ErrValidation)
		}

		storedName := uuid.NewString() + ext
		if err := s.pictureStore.Save(picture, storedName); err != nil {
			return nil, fmt.Errorf("save profile picture: %w", err)
		}

		// old picture removal must not block the replacement
		if user.ImageFile != defaultProfilePicture {
			if err := s.pictureStore.Delete(user.ImageFile); err != nil {
				log.Printf("delete old profile picture %s: %v", user.ImageFile, err)
			}
		}
		user.ImageFile = storedName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// PicturePath resolves a stored profile picture name to a disk path.
func (s *authServiceImpl) PicturePath(filename string) (string, error) {
	if !s.pictureStore.Exists(filename) {
		return "", gorm.ErrRecordNotFound
	}
	return s.pictureStore.Path(filename), nil
}
