package client

import (
	"log"
	"strings"
	"time"

	"video-marketplace/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitMarketplaceDB opens the marketplace store. databaseURL is either a
// path to a SQLite file or a MySQL DSN (detected by the @tcp( host part).
func InitMarketplaceDB(databaseURL string) *gorm.DB {
	db := openDB(databaseURL)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Rating{},
		&model.Purchase{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}

// InitLessonsDB opens the booking tool's own single-file store.
func InitLessonsDB(databaseURL string) *gorm.DB {
	db := openDB(databaseURL)

	if err := db.AutoMigrate(
		&model.Offering{},
		&model.Booking{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}

func openDB(databaseURL string) *gorm.DB {
	dialector := sqlite.Open(databaseURL)
	if strings.Contains(databaseURL, "@tcp(") {
		dialector = mysql.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
