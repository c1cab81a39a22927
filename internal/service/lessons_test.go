package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newLessonsFixture(t *testing.T, adminSecretHash string) (*gorm.DB, *lessonsServiceImpl) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Offering{}, &model.Booking{}))

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	svc := NewLessonsService(
		db,
		repository.NewOfferingRepository(db),
		repository.NewBookingRepository(db),
		store,
		adminSecretHash,
	).(*lessonsServiceImpl)

	return db, svc
}

func seedOffering(t *testing.T, svc LessonsService, name string) *model.Offering {
	t.Helper()
	offering, err := svc.CreateOffering(context.Background(), name, "Learn things", "$50/hour", "", nil)
	require.NoError(t, err)
	return offering
}

func booking(offeringID uint, name, day, clock string) *dto.BookingRequest {
	return &dto.BookingRequest{
		OfferingID:    offeringID,
		StudentName:   name,
		StudentEmail:  strings.ToLower(name) + "@example.com",
		PreferredDay:  day,
		PreferredTime: clock,
		MusicalGoals:  "learn jazz standards",
	}
}

func TestVerifyAdminUsesHashedSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	_, svc := newLessonsFixture(t, string(hash))

	assert.True(t, svc.VerifyAdmin("hunter2"))
	assert.False(t, svc.VerifyAdmin("hunter3"))
	assert.False(t, svc.VerifyAdmin(""))
}

func TestVerifyAdminLockedOutWithoutHash(t *testing.T) {
	_, svc := newLessonsFixture(t, "")
	assert.False(t, svc.VerifyAdmin("anything"))
}

func TestSubmitBookingValidation(t *testing.T) {
	_, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	cases := []struct {
		name string
		req  *dto.BookingRequest
	}{
		{"missing name", &dto.BookingRequest{OfferingID: offering.ID, StudentEmail: "a@b.com", PreferredDay: "Monday", PreferredTime: "8:00 AM", MusicalGoals: "x"}},
		{"bad email", &dto.BookingRequest{OfferingID: offering.ID, StudentName: "Sam", StudentEmail: "not-an-email", PreferredDay: "Monday", PreferredTime: "8:00 AM", MusicalGoals: "x"}},
		{"bad day", booking(offering.ID, "Sam", "Funday", "8:00 AM")},
		{"bad time", booking(offering.ID, "Sam", "Monday", "7:13 AM")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitBooking(ctx, tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.SubmitBooking(ctx, booking(9999, "Sam", "Monday", "8:00 AM"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	created, err := svc.SubmitBooking(ctx, booking(offering.ID, "Sam", "Monday", "8:00 AM"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestBookingsSortedByWeekdayThenTime(t *testing.T) {
	_, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	// inserted out of order on purpose; alphabetical order would put
	// Friday before Monday
	for _, b := range []*dto.BookingRequest{
		booking(offering.ID, "Fay", "Friday", "9:00 AM"),
		booking(offering.ID, "Moe", "Monday", "3:00 PM"),
		booking(offering.ID, "Mia", "Monday", "9:00 AM"),
		booking(offering.ID, "Sue", "Sunday", "8:00 AM"),
	} {
		_, err := svc.SubmitBooking(ctx, b)
		require.NoError(t, err)
	}

	bookings, err := svc.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 4)

	var order []string
	for _, b := range bookings {
		order = append(order, b.StudentName)
	}
	assert.Equal(t, []string{"Mia", "Moe", "Fay", "Sue"}, order)
	assert.Equal(t, "Beginner Saxophone", bookings[0].OfferingName)
}

func TestBookingsListToleratesUnparseableTime(t *testing.T) {
	db, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	_, err := svc.SubmitBooking(ctx, booking(offering.ID, "Mia", "Monday", "9:00 AM"))
	require.NoError(t, err)

	// row written before time validation existed
	require.NoError(t, db.Create(&model.Booking{
		OfferingID:    offering.ID,
		StudentName:   "Old",
		StudentEmail:  "old@example.com",
		PreferredDay:  "Monday",
		PreferredTime: "whenever",
		MusicalGoals:  "x",
	}).Error)

	bookings, err := svc.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Old", bookings[0].StudentName, "zero-time row sorts first in its day")
	assert.Equal(t, "Mia", bookings[1].StudentName)
}

func TestDeleteOfferingCascadesBookings(t *testing.T) {
	db, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	_, err := svc.SubmitBooking(ctx, booking(offering.ID, "Sam", "Monday", "8:00 AM"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOffering(ctx, offering.ID))

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&model.Offering{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOfferingRejectsBadImageType(t *testing.T) {
	_, svc := newLessonsFixture(t, "")

	_, err := svc.CreateOffering(context.Background(), "Sax", "desc", "$50", "pic.gif", strings.NewReader("gif"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportBookingsCSV(t *testing.T) {
	_, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	_, err := svc.SubmitBooking(ctx, booking(offering.ID, "Sam", "Tuesday", "2:00 PM"))
	require.NoError(t, err)

	data, err := svc.ExportBookingsCSV(ctx)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Lesson", "Student", "Email", "Preferred Day", "Preferred Time", "Musical Goals"}, records[0])
	assert.Equal(t, "Beginner Saxophone", records[1][0])
	assert.Equal(t, "Sam", records[1][1])
	assert.Equal(t, "Tuesday", records[1][3])
}

func TestExportBookingsCalendar(t *testing.T) {
	_, svc := newLessonsFixture(t, "")
	offering := seedOffering(t, svc, "Beginner Saxophone")
	ctx := context.Background()

	_, err := svc.SubmitBooking(ctx, booking(offering.ID, "Sam", "Wednesday", "3:00 PM"))
	require.NoError(t, err)

	// Monday 2026-01-05 10:00 local
	svc.now = func() time.Time {
		return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	}

	data, err := svc.ExportBookingsCalendar(ctx)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "BEGIN:VEVENT")
	// next Wednesday after Monday the 5th is the 7th
	assert.Contains(t, ics, "DTSTART:20260107T150000")
	assert.Contains(t, ics, "SUMMARY:Beginner Saxophone - Sam")
	assert.Contains(t, ics, "END:VCALENDAR")
}

func TestNextLessonSlot(t *testing.T) {
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	slot, err := nextLessonSlot(monday, "Monday", "8:00 AM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 12, 8, 0, 0, 0, time.UTC), slot, "earlier slot today rolls to next week")

	slot, err = nextLessonSlot(monday, "Monday", "3:00 PM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC), slot, "later slot today counts")

	slot, err = nextLessonSlot(monday, "Sunday", "8:00 AM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 11, 8, 0, 0, 0, time.UTC), slot)

	_, err = nextLessonSlot(monday, "Funday", "8:00 AM")
	assert.Error(t, err)
}
