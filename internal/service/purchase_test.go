package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"video-marketplace/internal/client"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Rating{},
		&model.Purchase{},
	))

	return db
}

func seedUserAndVideo(t *testing.T, db *gorm.DB) (*model.User, *model.Video) {
	t.Helper()

	user := &model.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x", ImageFile: "default.jpg"}
	require.NoError(t, db.Create(user).Error)

	owner := &model.User{Username: "creator", Email: "creator@example.com", PasswordHash: "x", ImageFile: "default.jpg"}
	require.NoError(t, db.Create(owner).Error)

	video := &model.Video{Title: "Saxophone Basics", Filename: "20240101000000_sax.mp4", Price: 19.99, UserID: owner.ID}
	require.NoError(t, db.Create(video).Error)

	return user, video
}

// fakeStripe implements client.StripeClient without any network.
type fakeStripe struct {
	sessions   map[string]*model.CheckoutSession
	created    []*client.CreateSessionRequest
	failCreate bool
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{sessions: map[string]*model.CheckoutSession{}}
}

func (f *fakeStripe) CreateCheckoutSession(_ context.Context, req *client.CreateSessionRequest) (*model.CheckoutSession, error) {
	if f.failCreate {
		return nil, fmt.Errorf("bridge unreachable")
	}
	f.created = append(f.created, req)

	session := &model.CheckoutSession{
		ID:            fmt.Sprintf("cs_test_%d", len(f.created)),
		URL:           "https://checkout.example.com/pay",
		Status:        "open",
		PaymentStatus: "unpaid",
		Metadata: model.SessionMetadata{
			UserID:  req.Metadata["user_id"],
			VideoID: req.Metadata["video_id"],
		},
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeStripe) RetrieveSession(_ context.Context, sessionID string) (*model.CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	return session, nil
}

func (f *fakeStripe) ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeWebhookEvent, error) {
	if sigHeader != "valid" {
		return nil, fmt.Errorf("no valid webhook signature found")
	}
	var event model.StripeWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (f *fakeStripe) settle(sessionID string) {
	f.sessions[sessionID].Status = "complete"
	f.sessions[sessionID].PaymentStatus = "paid"
}

func newPurchaseFixture(t *testing.T) (*gorm.DB, *fakeStripe, PurchaseService, repository.PurchaseRepository, *model.User, *model.Video) {
	t.Helper()

	db := newTestDB(t)
	user, video := seedUserAndVideo(t, db)

	stripe := newFakeStripe()
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	svc := NewPurchaseService(db, stripe, "http://localhost:8080", userRepo, videoRepo, purchaseRepo)

	return db, stripe, svc, purchaseRepo, user, video
}

func TestAccessGateFlipsOnSettlement(t *testing.T) {
	_, stripe, svc, purchaseRepo, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	hasAccess, err := purchaseRepo.Exists(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, hasAccess, "no access before settlement")

	resp, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/pay", resp.CheckoutURL)

	// still no access while the session is open
	hasAccess, err = purchaseRepo.Exists(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, hasAccess)

	stripe.settle(resp.SessionID)
	require.NoError(t, svc.ConfirmReturn(ctx, resp.SessionID))

	hasAccess, err = purchaseRepo.Exists(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, hasAccess, "access granted permanently after settlement")
}

func TestCheckoutCarriesIdentifiersInMetadata(t *testing.T) {
	_, stripe, svc, _, user, video := newPurchaseFixture(t)

	_, err := svc.BeginCheckout(context.Background(), user.ID, video.ID)
	require.NoError(t, err)

	require.Len(t, stripe.created, 1)
	req := stripe.created[0]
	assert.Equal(t, fmt.Sprint(user.ID), req.Metadata["user_id"])
	assert.Equal(t, fmt.Sprint(video.ID), req.Metadata["video_id"])
	assert.Equal(t, "Saxophone Basics", req.Item.Name)
	assert.EqualValues(t, 1999, req.Item.UnitAmount)
	assert.Equal(t, 1, req.Item.Quantity)
}

func TestDoubleSettlementYieldsOnePurchase(t *testing.T) {
	db, stripe, svc, _, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	resp, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	require.NoError(t, err)
	stripe.settle(resp.SessionID)

	require.NoError(t, svc.ConfirmReturn(ctx, resp.SessionID))
	require.NoError(t, svc.ConfirmReturn(ctx, resp.SessionID))

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).
		Where("user_id = ? AND video_id = ?", user.ID, video.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSettlementPathsConverge(t *testing.T) {
	db, stripe, svc, _, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	resp, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	require.NoError(t, err)
	stripe.settle(resp.SessionID)

	// async path first
	payload, err := json.Marshal(model.StripeWebhookEvent{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Data: model.WebhookEventData{Object: *stripe.sessions[resp.SessionID]},
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleWebhook(ctx, payload, "valid"))

	// sync path second observes the existing grant and does nothing
	require.NoError(t, svc.ConfirmReturn(ctx, resp.SessionID))

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	db, stripe, svc, _, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	resp, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	require.NoError(t, err)
	stripe.settle(resp.SessionID)

	payload, err := json.Marshal(model.StripeWebhookEvent{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Data: model.WebhookEventData{Object: *stripe.sessions[resp.SessionID]},
	})
	require.NoError(t, err)

	err = svc.HandleWebhook(ctx, payload, "forged")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "no grant on signature failure")
}

func TestUnpaidSessionGrantsNothing(t *testing.T) {
	db, _, svc, _, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	resp, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	require.NoError(t, err)

	err = svc.ConfirmReturn(ctx, resp.SessionID)
	assert.ErrorIs(t, err, ErrPaymentIncomplete)

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBeginCheckoutShortCircuitsWhenOwned(t *testing.T) {
	db, stripe, svc, _, user, video := newPurchaseFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Purchase{UserID: user.ID, VideoID: video.ID}).Error)

	_, err := svc.BeginCheckout(ctx, user.ID, video.ID)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
	assert.Empty(t, stripe.created, "no session created for an already granted pair")
}

func TestBridgeFailureWritesNoState(t *testing.T) {
	db, stripe, svc, _, user, video := newPurchaseFixture(t)
	stripe.failCreate = true

	_, err := svc.BeginCheckout(context.Background(), user.ID, video.ID)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
