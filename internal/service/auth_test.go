package service

import (
	"context"
	"strings"
	"testing"

	"video-marketplace/internal/config"
	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (*gorm.DB, AuthService, storage.FileStore) {
	t.Helper()

	db := newTestDB(t)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	svc := NewAuthService(repository.NewUserRepository(db), store, &config.Auth{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
	})

	return db, svc, store
}

func register(t *testing.T, svc AuthService, username, email string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterRejectsDuplicateHandleAndEmail(t *testing.T) {
	db, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "abcdef"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "other", Email: "alice@example.com", Password: "abcdef"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *dto.RegisterRequest
	}{
		{"empty username", &dto.RegisterRequest{Email: "a@b.com", Password: "abcdef"}},
		{"long username", &dto.RegisterRequest{Username: strings.Repeat("x", 21), Email: "a@b.com", Password: "abcdef"}},
		{"bad email", &dto.RegisterRequest{Username: "sam", Email: "not-an-email", Password: "abcdef"}},
		{"short password", &dto.RegisterRequest{Username: "sam", Email: "a@b.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoginChecksCredentials(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	register(t, svc, "alice", "alice@example.com")

	token, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateAccountRejectsTakenHandleAndEmail(t *testing.T) {
	db, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	register(t, svc, "alice", "alice@example.com")
	bob := register(t, svc, "bob", "bob@example.com")

	_, err := svc.UpdateAccount(ctx, bob.ID, &dto.UpdateAccountRequest{Email: "alice@example.com"}, "", nil)
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = svc.UpdateAccount(ctx, bob.ID, &dto.UpdateAccountRequest{Username: "alice"}, "", nil)
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	var unchanged model.User
	require.NoError(t, db.First(&unchanged, bob.ID).Error)
	assert.Equal(t, "bob", unchanged.Username)
	assert.Equal(t, "bob@example.com", unchanged.Email)
}

func TestUpdateAccountStoresProfilePicture(t *testing.T) {
	_, svc, store := newAuthFixture(t)
	ctx := context.Background()

	alice := register(t, svc, "alice", "alice@example.com")
	assert.Equal(t, "default.jpg", alice.ImageFile)

	updated, err := svc.UpdateAccount(ctx, alice.ID, &dto.UpdateAccountRequest{Bio: "sax player"}, "me.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(updated.ImageFile, ".png"))
	assert.NotEqual(t, "default.jpg", updated.ImageFile)
	assert.True(t, store.Exists(updated.ImageFile))

	// replacing removes the previous stored picture
	first := updated.ImageFile
	updated, err = svc.UpdateAccount(ctx, alice.ID, &dto.UpdateAccountRequest{}, "new.jpg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(updated.ImageFile, ".jpg"))
	assert.False(t, store.Exists(first))
	assert.True(t, store.Exists(updated.ImageFile))
}

func TestUpdateAccountRejectsBadPictureType(t *testing.T) {
	db, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	alice := register(t, svc, "alice", "alice@example.com")

	_, err := svc.UpdateAccount(ctx, alice.ID, &dto.UpdateAccountRequest{}, "avatar.exe", strings.NewReader("bin"))
	assert.ErrorIs(t, err, ErrValidation)

	var unchanged model.User
	require.NoError(t, db.First(&unchanged, alice.ID).Error)
	assert.Equal(t, "default.jpg", unchanged.ImageFile)
}

func TestPicturePath(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	alice := register(t, svc, "alice", "alice@example.com")
	updated, err := svc.UpdateAccount(ctx, alice.ID, &dto.UpdateAccountRequest{}, "me.png", strings.NewReader("png"))
	require.NoError(t, err)

	path, err := svc.PicturePath(updated.ImageFile)
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = svc.PicturePath("missing.png")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
