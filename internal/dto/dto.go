package dto

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	ImageFile string `json:"image_file"`
	Bio       string `json:"bio"`
}

type VideoResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	UserID        uint      `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	AverageRating string    `json:"average_rating"` // "4.00" or "No ratings yet"
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type VideoDetailResponse struct {
	Video    VideoResponse     `json:"video"`
	Comments []CommentResponse `json:"comments"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type RatingRequest struct {
	Score int `json:"score"`
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ---- lessons ----

type OfferingResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImagePath   string `json:"image_path,omitempty"`
}

type BookingRequest struct {
	OfferingID    uint   `json:"offering_id"`
	StudentName   string `json:"student_name"`
	StudentEmail  string `json:"student_email"`
	PreferredDay  string `json:"preferred_day"`
	PreferredTime string `json:"preferred_time"`
	MusicalGoals  string `json:"musical_goals"`
}

type BookingResponse struct {
	ID            uint   `json:"id"`
	OfferingID    uint   `json:"offering_id"`
	OfferingName  string `json:"offering_name"`
	StudentName   string `json:"student_name"`
	StudentEmail  string `json:"student_email"`
	PreferredDay  string `json:"preferred_day"`
	PreferredTime string `json:"preferred_time"`
	MusicalGoals  string `json:"musical_goals"`
}

type AdminLoginRequest struct {
	Secret string `json:"secret"`
}
