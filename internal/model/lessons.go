package model

import "time"

type Offering struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text;not null"`
	Price       string `gorm:"size:32;not null"` // display string, e.g. "$50/hour"
	ImagePath   string `gorm:"size:128"`
	CreatedAt   time.Time
}

type Booking struct {
	ID            uint   `gorm:"primaryKey"`
	OfferingID    uint   `gorm:"index;not null"`
	StudentName   string `gorm:"size:100;not null"`
	StudentEmail  string `gorm:"size:120;not null"`
	PreferredDay  string `gorm:"size:16;not null"` // Monday..Sunday
	PreferredTime string `gorm:"size:16;not null"` // e.g. "3:00 PM"
	MusicalGoals  string `gorm:"type:text;not null"`
	CreatedAt     time.Time
}
