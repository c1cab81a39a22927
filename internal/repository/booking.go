package repository

import (
	"context"

	"video-marketplace/internal/model"

	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, bookingID uint) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
	Delete(ctx context.Context, bookingID uint) error
	DeleteByOffering(ctx context.Context, tx *gorm.DB, offeringID uint) error
}

type bookingRepoImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepoImpl{
		db: db,
	}
}

func (r *bookingRepoImpl) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepoImpl) FindByID(ctx context.Context, bookingID uint) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("id = ?", bookingID).
		First(&booking).Error

	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepoImpl) List(ctx context.Context) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingRepoImpl) Delete(ctx context.Context, bookingID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Booking{}, bookingID).Error
}

func (r *bookingRepoImpl) DeleteByOffering(ctx context.Context, tx *gorm.DB, offeringID uint) error {
	return tx.WithContext(ctx).
		Where("offering_id = ?", offeringID).
		Delete(&model.Booking{}).Error
}
