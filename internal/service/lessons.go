package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/model"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// fixed ordering table for booking lists; never sorted alphabetically
	weekdayOrder = map[string]int{
		"Monday":    0,
		"Tuesday":   1,
		"Wednesday": 2,
		"Thursday":  3,
		"Friday":    4,
		"Saturday":  5,
		"Sunday":    6,
	}

	lessonTimes = map[string]bool{
		"8:00 AM": true, "9:00 AM": true, "10:00 AM": true, "11:00 AM": true,
		"12:00 PM": true, "1:00 PM": true, "2:00 PM": true, "3:00 PM": true,
		"4:00 PM": true, "5:00 PM": true, "6:00 PM": true,
	}

	allowedImageExtensions = map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
	}
)

type LessonsService interface {
	VerifyAdmin(secret string) bool
	CreateOffering(ctx context.Context, name, description, price, imageName string, image io.Reader) (*model.Offering, error)
	ListOfferings(ctx context.Context) ([]*dto.OfferingResponse, error)
	DeleteOffering(ctx context.Context, offeringID uint) error
	SubmitBooking(ctx context.Context, req *dto.BookingRequest) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]*dto.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID uint) error
	ExportBookingsCSV(ctx context.Context) ([]byte, error)
	ExportBookingsCalendar(ctx context.Context) ([]byte, error)
}

type lessonsServiceImpl struct {
	db              *gorm.DB
	offeringRepo    repository.OfferingRepository
	bookingRepo     repository.BookingRepository
	imageStore      storage.FileStore
	adminSecretHash string
	now             func() time.Time
}

func NewLessonsService(
	db *gorm.DB,
	offeringRepo repository.OfferingRepository,
	bookingRepo repository.BookingRepository,
	imageStore storage.FileStore,
	adminSecretHash string,
) LessonsService {
	return &lessonsServiceImpl{
		db:              db,
		offeringRepo:    offeringRepo,
		bookingRepo:     bookingRepo,
		imageStore:      imageStore,
		adminSecretHash: adminSecretHash,
		now:             time.Now,
	}
}

// VerifyAdmin compares the presented secret against the configured bcrypt
// hash; the comparison is constant-time.
func (s *lessonsServiceImpl) VerifyAdmin(secret string) bool {
	if s.adminSecretHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.adminSecretHash), []byte(secret)) == nil
}

func (s *lessonsServiceImpl) CreateOffering(ctx context.Context, name, description, price, imageName string, image io.Reader) (*model.Offering, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	price = strings.TrimSpace(price)

	if name == "" || description == "" || price == "" {
		return nil, fmt.Errorf("%w: name, description and price are required", ErrValidation)
	}

	offering := &model.Offering{
		Name:        name,
		Description: description,
		Price:       price,
	}

	if image != nil {
		ext := strings.ToLower(filepath.Ext(imageName))
		if !allowedImageExtensions[ext] {
			return nil, fmt.Errorf("%w: image type not allowed (png, jpg, jpeg)", ErrValidation)
		}

		storedName := uuid.NewString() + ext
		if err := s.imageStore.Save(image, storedName); err != nil {
			return nil, fmt.Errorf("save offering image: %w", err)
		}
		offering.ImagePath = storedName
	}

	if err := s.offeringRepo.Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("store offering: %w", err)
	}

	return offering, nil
}

func (s *lessonsServiceImpl) ListOfferings(ctx context.Context) ([]*dto.OfferingResponse, error) {
	offerings, err := s.offeringRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}

	out := make([]*dto.OfferingResponse, len(offerings))
	for i, o := range offerings {
		out[i] = &dto.OfferingResponse{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			Price:       o.Price,
			ImagePath:   o.ImagePath,
		}
	}

	return out, nil
}

func (s *lessonsServiceImpl) DeleteOffering(ctx context.Context, offeringID uint) error {
	offering, err := s.offeringRepo.FindByID(ctx, offeringID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.DeleteByOffering(ctx, tx, offeringID); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		if err := s.offeringRepo.Delete(ctx, tx, offeringID); err != nil {
			return fmt.Errorf("delete offering: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if offering.ImagePath != "" {
		if err := s.imageStore.Delete(offering.ImagePath); err != nil {
			log.Printf("delete offering image %s: %v", offering.ImagePath, err)
		}
	}

	return nil
}

func (s *lessonsServiceImpl) SubmitBooking(ctx context.Context, req *dto.BookingRequest) (*model.Booking, error) {
	name := strings.TrimSpace(req.StudentName)
	email := strings.TrimSpace(req.StudentEmail)
	goals := strings.TrimSpace(req.MusicalGoals)

	if name == "" || email == "" || goals == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if _, ok := weekdayOrder[req.PreferredDay]; !ok {
		return nil, fmt.Errorf("%w: unknown preferred day %q", ErrValidation, req.PreferredDay)
	}
	if !lessonTimes[req.PreferredTime] {
		return nil, fmt.Errorf("%w: unknown preferred time %q", ErrValidation, req.PreferredTime)
	}

	if _, err := s.offeringRepo.FindByID(ctx, req.OfferingID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		OfferingID:    req.OfferingID,
		StudentName:   name,
		StudentEmail:  email,
		PreferredDay:  req.PreferredDay,
		PreferredTime: req.PreferredTime,
		MusicalGoals:  goals,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	return booking, nil
}

func (s *lessonsServiceImpl) ListBookings(ctx context.Context) ([]*dto.BookingResponse, error) {
	bookings, err := s.sortedBookings(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.offeringNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = &dto.BookingResponse{
			ID:            b.ID,
			OfferingID:    b.OfferingID,
			OfferingName:  names[b.OfferingID],
			StudentName:   b.StudentName,
			StudentEmail:  b.StudentEmail,
			PreferredDay:  b.PreferredDay,
			PreferredTime: b.PreferredTime,
			MusicalGoals:  b.MusicalGoals,
		}
	}

	return out, nil
}

func (s *lessonsServiceImpl) DeleteBooking(ctx context.Context, bookingID uint) error {
	if _, err := s.bookingRepo.FindByID(ctx, bookingID); err != nil {
		return err
	}
	return s.bookingRepo.Delete(ctx, bookingID)
}

func (s *lessonsServiceImpl) ExportBookingsCSV(ctx context.Context) ([]byte, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Lesson", "Student", "Email", "Preferred Day", "Preferred Time", "Musical Goals"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range bookings {
		record := []string{b.OfferingName, b.StudentName, b.StudentEmail, b.PreferredDay, b.PreferredTime, b.MusicalGoals}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportBookingsCalendar emits one VEVENT per booking, scheduled on the next
// occurrence of the student's preferred weekday and time.
func (s *lessonsServiceImpl) ExportBookingsCalendar(ctx context.Context) ([]byte, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//jazz-woodwinds//lesson-bookings//EN\r\n")

	for _, b := range bookings {
		start, err := nextLessonSlot(s.now(), b.PreferredDay, b.PreferredTime)
		if err != nil {
			return nil, err
		}

		buf.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&buf, "UID:booking-%d@jazz-woodwinds\r\n", b.ID)
		fmt.Fprintf(&buf, "DTSTAMP:%s\r\n", s.now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(&buf, "DTSTART:%s\r\n", start.Format("20060102T150405"))
		fmt.Fprintf(&buf, "DTEND:%s\r\n", start.Add(time.Hour).Format("20060102T150405"))
		fmt.Fprintf(&buf, "SUMMARY:%s - %s\r\n", escapeICS(b.OfferingName), escapeICS(b.StudentName))
		fmt.Fprintf(&buf, "DESCRIPTION:%s\r\n", escapeICS(b.MusicalGoals))
		buf.WriteString("END:VEVENT\r\n")
	}

	buf.WriteString("END:VCALENDAR\r\n")

	return buf.Bytes(), nil
}

func (s *lessonsServiceImpl) sortedBookings(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	// parse once up front; rows with unparseable times sort first in
	// their day instead of dropping the list
	slots := make(map[uint]time.Time, len(bookings))
	for _, b := range bookings {
		t, err := time.Parse("3:04 PM", b.PreferredTime)
		if err != nil {
			log.Printf("booking %d has unparseable preferred time %q", b.ID, b.PreferredTime)
		}
		slots[b.ID] = t
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		di, dj := weekdayOrder[bookings[i].PreferredDay], weekdayOrder[bookings[j].PreferredDay]
		if di != dj {
			return di < dj
		}
		return slots[bookings[i].ID].Before(slots[bookings[j].ID])
	})

	return bookings, nil
}

func (s *lessonsServiceImpl) offeringNames(ctx context.Context) (map[uint]string, error) {
	offerings, err := s.offeringRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}

	names := make(map[uint]string, len(offerings))
	for _, o := range offerings {
		names[o.ID] = o.Name
	}

	return names, nil
}

// nextLessonSlot finds the next calendar date falling on the preferred
// weekday, at the preferred wall-clock time. A slot later today counts.
func nextLessonSlot(from time.Time, day, clock string) (time.Time, error) {
	target, ok := weekdayOrder[day]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown weekday %q", day)
	}

	t, err := time.Parse("3:04 PM", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}

	// weekdayOrder is Monday-based; time.Weekday is Sunday-based
	current := (int(from.Weekday()) + 6) % 7
	delta := (target - current + 7) % 7

	slot := time.Date(from.Year(), from.Month(), from.Day(), t.Hour(), t.Minute(), 0, 0, from.Location()).
		AddDate(0, 0, delta)
	if delta == 0 && slot.Before(from) {
		slot = slot.AddDate(0, 0, 7)
	}

	return slot, nil
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
