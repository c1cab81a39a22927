package model

// Wire types for the subset of the Stripe Checkout API this service consumes.

type SessionMetadata struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
}

type CheckoutSession struct {
	ID                string          `json:"id"`
	URL               string          `json:"url"`
	Status            string          `json:"status"`         // open, complete, expired
	PaymentStatus     string          `json:"payment_status"` // paid, unpaid, no_payment_required
	ClientReferenceID string          `json:"client_reference_id"`
	CustomerEmail     string          `json:"customer_email"`
	Metadata          SessionMetadata `json:"metadata"`
}

type WebhookEventData struct {
	Object CheckoutSession `json:"object"`
}

type StripeWebhookEvent struct {
	ID      string           `json:"id"`
	Type    string           `json:"type"` // e.g. checkout.session.completed
	Created int64            `json:"created"`
	Data    WebhookEventData `json:"data"`
}
