package model

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:20;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:60;not null"`
	ImageFile    string `gorm:"size:64;not null;default:default.jpg"`
	Bio          string `gorm:"type:text"`
	CreatedAt    time.Time
}

type Video struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"size:100;not null"`
	Filename  string  `gorm:"size:100;not null"`
	Price     float64 `gorm:"not null"` // USD
	UserID    uint    `gorm:"index;not null"` // owner
	CreatedAt time.Time
}

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	VideoID   uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// one rating per (user, video); later submissions overwrite in place
type Rating struct {
	ID      uint `gorm:"primaryKey"`
	VideoID uint `gorm:"uniqueIndex:idx_rating_video_user;not null"`
	UserID  uint `gorm:"uniqueIndex:idx_rating_video_user;not null"`
	Score   int  `gorm:"not null"` // 1-5
	RatedAt time.Time
}

// Purchase is the access ledger. The unique index on (video_id, user_id) is
// what keeps the two settlement paths from granting the same video twice.
type Purchase struct {
	ID        uint `gorm:"primaryKey"`
	VideoID   uint `gorm:"uniqueIndex:idx_purchase_video_user;not null"`
	UserID    uint `gorm:"uniqueIndex:idx_purchase_video_user;not null"`
	CreatedAt time.Time
}
