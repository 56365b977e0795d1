package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hebron-schedule/api"
	"hebron-schedule/internal/mailer"
	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
)

// Booking policy: meetings run Monday-Thursday and slots open on a
// rolling horizon of today..today+31 days, evaluated in UK time.
const (
	bookingWindowDays = 31
	dateLayout        = "2006-01-02"
)

type Store interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error)
	ListActive(ctx context.Context) ([]models.Booking, error)
	ListActiveBetween(ctx context.Context, from, to string) ([]models.Booking, error)
	ActiveSlotExists(ctx context.Context, date string, role models.Role, excludeID string) (bool, error)
	ActiveByNameOnDate(ctx context.Context, fullName, date string) (bool, error)
	UpdateBooking(ctx context.Context, id string, upd models.BookingUpdate) error
	DeleteBooking(ctx context.Context, id string) error
	SetBookingStatus(ctx context.Context, id string, status models.BookingStatus) error
	ListByParticipant(ctx context.Context, name string) ([]models.Booking, error)
	ListForExport(ctx context.Context, from, to *string) ([]models.Booking, error)
	ListRemindable(ctx context.Context, date string) ([]models.Booking, error)
}

type Service struct {
	store   Store
	mail    mailer.Sender
	loc     *time.Location
	zoomURL string
}

func NewService(store Store, mail mailer.Sender, loc *time.Location, zoomURL string) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{store: store, mail: mail, loc: loc, zoomURL: zoomURL}
}

// ValidateBookingDate checks the booking window policy: YYYY-MM-DD,
// Monday-Thursday, today <= date <= today+31 days.
func ValidateBookingDate(dateStr string, today time.Time) error {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", response.ErrValidation)
	}

	if d.Weekday() < time.Monday || d.Weekday() > time.Thursday {
		return fmt.Errorf("meetings run Monday-Thursday: %w", response.ErrValidation)
	}

	todayStr := today.Format(dateLayout)
	lastStr := today.AddDate(0, 0, bookingWindowDays).Format(dateLayout)

	// YYYY-MM-DD strings order the same way the dates do.
	if dateStr < todayStr || dateStr > lastStr {
		return fmt.Errorf("date outside the booking window: %w", response.ErrValidation)
	}

	return nil
}

// displayName formats "Jane Doe" as "Jane D." for public surfaces.
func displayName(fullName string) string {
	parts := strings.Fields(fullName)
	switch {
	case len(parts) >= 2:
		last := []rune(parts[len(parts)-1])
		return fmt.Sprintf("%s %c.", parts[0], last[0])
	case len(parts) == 1:
		return parts[0]
	default:
		return "Anonymous"
	}
}

func toBookingResponse(b *models.Booking) *api.BookingResponse {
	return &api.BookingResponse{
		ID:            b.ID,
		FullName:      b.FullName,
		Role:          string(b.Role),
		Date:          b.Date,
		TimeStart:     models.MeetingTimeStart,
		TimeEnd:       models.MeetingTimeEnd,
		Status:        string(b.Status),
		Notes:         b.Notes,
		Email:         b.Email,
		EditedByAdmin: b.EditedByAdmin,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// toPublicBookingResponse strips email and notes and adds the
// privacy-formatted display name.
func toPublicBookingResponse(b *models.Booking) *api.BookingResponse {
	resp := toBookingResponse(b)
	resp.Email = nil
	resp.Notes = nil
	resp.DisplayName = displayName(b.FullName)

	return resp
}

// #### bookings ####

func (s *Service) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.CreateBooking"

	fullName := strings.TrimSpace(req.FullName)
	if len([]rune(fullName)) < 2 {
		return nil, fmt.Errorf("%s: full_name too short: %w", op, response.ErrValidation)
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%s: invalid role: %w", op, response.ErrValidation)
	}

	today := time.Now().In(s.loc)
	if err := ValidateBookingDate(req.Date, today); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Courtesy check only; the store's unique index is what actually
	// decides races on the slot itself.
	taken, err := s.store.ActiveByNameOnDate(ctx, fullName, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, response.ErrDuplicateBooking)
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:            uuid.NewString(),
		FullName:      fullName,
		Role:          role,
		Date:          req.Date,
		Status:        models.StatusBooked,
		Notes:         req.Notes,
		Email:         req.Email,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, response.ErrSlotTaken) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if booking.Email != nil && *booking.Email != "" {
		go s.sendConfirmation(*booking)
	}

	return toBookingResponse(booking), nil
}

func (s *Service) sendConfirmation(b models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	msg := mailer.Confirmation(*b.Email, b.FullName, string(b.Role), b.Date, s.zoomURL)
	_ = s.mail.Send(ctx, msg)
}

func (s *Service) GetBooking(ctx context.Context, id string) (*api.BookingResponse, error) {
	const op = "service.GetBooking"

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toBookingResponse(booking), nil
}

func (s *Service) ListBookings(ctx context.Context, filters models.BookingFilters) ([]*api.BookingResponse, error) {
	const op = "service.ListBookings"

	bookings, err := s.store.ListBookings(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, toBookingResponse(&bookings[i]))
	}

	return result, nil
}

func (s *Service) ListPublicBookings(ctx context.Context) ([]*api.BookingResponse, error) {
	const op = "service.ListPublicBookings"

	bookings, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, toPublicBookingResponse(&bookings[i]))
	}

	return result, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id string, req *api.BookingUpdateRequest) (*api.BookingResponse, error) {
	const op = "service.UpdateBooking"

	upd := models.BookingUpdate{
		FullName: req.FullName,
		Date:     req.Date,
		Notes:    req.Notes,
		Email:    req.Email,
	}

	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%s: invalid role: %w", op, response.ErrValidation)
		}
		upd.Role = &role
	}

	if req.Status != nil {
		status := models.BookingStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%s: invalid status: %w", op, response.ErrValidation)
		}
		upd.Status = &status
	}

	if req.Date != nil {
		if _, err := time.Parse(dateLayout, *req.Date); err != nil {
			return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrValidation)
		}
	}

	if upd.Empty() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoFields)
	}

	existing, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The edited record must not collide with another active booking
	// on its effective (date, role). Admin edits are otherwise trusted:
	// the window policy is not re-checked.
	effDate := existing.Date
	effRole := existing.Role
	effStatus := existing.Status
	if upd.Date != nil {
		effDate = *upd.Date
	}
	if upd.Role != nil {
		effRole = *upd.Role
	}
	if upd.Status != nil {
		effStatus = *upd.Status
	}

	if effStatus == models.StatusBooked {
		exists, err := s.store.ActiveSlotExists(ctx, effDate, effRole, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}
	}

	if err := s.store.UpdateBooking(ctx, id, upd); err != nil {
		if errors.Is(err, response.ErrSlotTaken) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetBooking(ctx, id)
}

func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	const op = "service.DeleteBooking"

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnlockBooking cancels the booking, which frees its slot while keeping
// the record for history.
func (s *Service) UnlockBooking(ctx context.Context, id string) error {
	const op = "service.UnlockBooking"

	if err := s.store.SetBookingStatus(ctx, id, models.StatusCancelled); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### availability ####

func (s *Service) GetAvailability(ctx context.Context, startStr, endStr string) ([]*api.AvailabilityDay, error) {
	const op = "service.GetAvailability"

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start_date: %w", op, response.ErrValidation)
	}

	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid end_date: %w", op, response.ErrValidation)
	}

	days := make([]*api.AvailabilityDay, 0)
	if end.Before(start) {
		return days, nil
	}

	bookings, err := s.store.ListActiveBetween(ctx, startStr, end.AddDate(0, 0, 1).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index := make(map[string]*api.AvailabilityDay)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := &api.AvailabilityDay{
			Date:             d.Format(dateLayout),
			PrayerAvailable:  true,
			WorshipAvailable: true,
		}
		days = append(days, day)
		index[day.Date] = day
	}

	for i := range bookings {
		day, ok := index[bookings[i].Date]
		if !ok {
			continue
		}

		name := displayName(bookings[i].FullName)
		switch bookings[i].Role {
		case models.RolePrayer:
			day.PrayerAvailable = false
			day.PrayerBookedBy = &name
		case models.RoleWorship:
			day.WorshipAvailable = false
			day.WorshipBookedBy = &name
		}
	}

	return days, nil
}
