package handler

import (
	"errors"
	"io"
	"net/http"

	"video-marketplace/internal/middleware"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

func (h *PurchaseHandler) BeginCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.purchaseService.BeginCheckout(ctx, middleware.UserID(c), videoID)
	if err != nil {
		// idempotent short-circuit: already granted is not a failure
		if errors.Is(err, service.ErrAlreadyPurchased) {
			return c.JSON(http.StatusOK, map[string]string{"status": "already purchased"})
		}
		if errors.Is(err, service.ErrValidation) {
			return httpError(err)
		}
		c.Logger().Errorf("begin checkout: %v", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleSuccess is the synchronous settlement path, reached by redirect
// from the hosted checkout page.
func (h *PurchaseHandler) HandleSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}

	if err := h.purchaseService.ConfirmReturn(ctx, sessionID); err != nil {
		if errors.Is(err, service.ErrPaymentIncomplete) {
			return echo.NewHTTPError(http.StatusBadRequest, "payment was not successful")
		}
		c.Logger().Errorf("confirm settlement: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not verify payment")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "payment successful"})
}

func (h *PurchaseHandler) HandleCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "payment canceled"})
}

// Webhook is the asynchronous settlement path. Signature failures are a
// client error; everything after verification is processed best-effort.
func (h *PurchaseHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")
	if err := h.purchaseService.HandleWebhook(ctx, body, sigHeader); err != nil {
		if errors.Is(err, service.ErrPaymentIncomplete) {
			// settled later or never; the webhook will fire again
			return c.NoContent(http.StatusOK)
		}
		c.Logger().Warnf("webhook rejected: %v", err)
		return c.NoContent(http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
