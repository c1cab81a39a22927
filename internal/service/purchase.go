package service

import (
	"context"
	"fmt"
	"strconv"

	"video-marketplace/internal/client"
	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementTrigger tags which of the two confirmation paths fired. Both
// funnel into the same idempotent grant, so ordering between them is free.
type SettlementTrigger string

const (
	TriggerSuccessReturn SettlementTrigger = "synchronous-return"
	TriggerWebhook       SettlementTrigger = "async-notification"
)

type PurchaseService interface {
	BeginCheckout(ctx context.Context, userID, videoID uint) (*dto.CheckoutResponse, error)
	ConfirmReturn(ctx context.Context, sessionID string) error
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type purchaseServiceImpl struct {
	db           *gorm.DB
	stripeClient client.StripeClient
	baseURL      string
	userRepo     repository.UserRepository
	videoRepo    repository.VideoRepository
	purchaseRepo repository.PurchaseRepository
}

func NewPurchaseService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	baseURL string,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	purchaseRepo repository.PurchaseRepository,
) PurchaseService {
	return &purchaseServiceImpl{
		db:           db,
		stripeClient: stripeClient,
		baseURL:      baseURL,
		userRepo:     userRepo,
		videoRepo:    videoRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (s *purchaseServiceImpl) BeginCheckout(ctx context.Context, userID, videoID uint) (*dto.CheckoutResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	owned, err := s.purchaseRepo.Exists(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("check existing purchase: %w", err)
	}
	if owned {
		return nil, ErrAlreadyPurchased
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	unitAmount := decimal.NewFromFloat(video.Price).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	session, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CreateSessionRequest{
		Item: client.CheckoutItem{
			Name:       video.Title,
			UnitAmount: unitAmount,
			Currency:   "usd",
			Quantity:   1,
		},
		SuccessURL:        fmt.Sprintf("%s/api/payments/success?session_id={CHECKOUT_SESSION_ID}", s.baseURL),
		CancelURL:         fmt.Sprintf("%s/api/payments/cancel?video_id=%d", s.baseURL, videoID),
		CustomerEmail:     user.Email,
		ClientReferenceID: strconv.FormatUint(uint64(userID), 10),
		// the settlement paths resolve the grant from these ids, never from
		// echoed titles or emails
		Metadata: map[string]string{
			"user_id":  strconv.FormatUint(uint64(userID), 10),
			"video_id": strconv.FormatUint(uint64(videoID), 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &dto.CheckoutResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// ConfirmReturn is the synchronous settlement path: the buyer lands back on
// the success URL with a session id and we ask the bridge for its status.
// The granted account comes from the session metadata, not the caller.
func (s *purchaseServiceImpl) ConfirmReturn(ctx context.Context, sessionID string) error {
	session, err := s.stripeClient.RetrieveSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("stripe retrieve session: %w", err)
	}

	return s.recordSettlement(ctx, TriggerSuccessReturn, session)
}

// HandleWebhook is the asynchronous settlement path. Signature verification
// failures surface as errors; the handler maps them to a client error.
func (s *purchaseServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.stripeClient.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.recordSettlement(ctx, TriggerWebhook, &event.Data.Object)
	}

	return nil
}

// recordSettlement is the single idempotent grant operation both triggers
// converge on: whichever fires second finds the row already present.
func (s *purchaseServiceImpl) recordSettlement(ctx context.Context, trigger SettlementTrigger, session *model.CheckoutSession) error {
	if session.PaymentStatus != "paid" {
		return fmt.Errorf("%w: session %s status %q (trigger %s)",
			ErrPaymentIncomplete, session.ID, session.PaymentStatus, trigger)
	}

	userID, videoID, err := settlementIDs(session)
	if err != nil {
		return err
	}

	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return fmt.Errorf("settled video %d: %w", videoID, err)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("settled user %d: %w", userID, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.purchaseRepo.CreateIfAbsent(ctx, tx, &model.Purchase{
			VideoID: videoID,
			UserID:  userID,
		})
	})
}

func settlementIDs(session *model.CheckoutSession) (userID, videoID uint, err error) {
	uid, err := strconv.ParseUint(session.Metadata.UserID, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("session %s missing user_id metadata: %w", session.ID, err)
	}
	vid, err := strconv.ParseUint(session.Metadata.VideoID, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("session %s missing video_id metadata: %w", session.ID, err)
	}

	return uint(uid), uint(vid), nil
}
