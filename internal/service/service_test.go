package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"hebron-schedule/api"
	"hebron-schedule/internal/mailer"
	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
)

// fakeStore is an in-memory Store that mirrors the database guarantees
// the service relies on, including the one-active-booking-per-slot rule.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeStore) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b.Status == models.StatusBooked {
		for _, existing := range f.bookings {
			if existing.Status == models.StatusBooked && existing.Date == b.Date && existing.Role == b.Role {
				return response.ErrSlotTaken
			}
		}
	}

	clone := *b
	f.bookings[b.ID] = &clone

	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, response.ErrNotFound
	}

	clone := *b
	return &clone, nil
}

func (f *fakeStore) ListBookings(_ context.Context, filters models.BookingFilters) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if filters.Date != nil && b.Date != *filters.Date {
			continue
		}
		if filters.Role != nil && b.Role != *filters.Role {
			continue
		}
		if filters.Status != nil && b.Status != *filters.Status {
			continue
		}
		if filters.Name != nil && !strings.Contains(strings.ToLower(b.FullName), strings.ToLower(*filters.Name)) {
			continue
		}
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })

	return result, nil
}

func (f *fakeStore) ListActive(_ context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.Status == models.StatusBooked {
			result = append(result, *b)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })

	return result, nil
}

func (f *fakeStore) ListActiveBetween(_ context.Context, from, to string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.Status == models.StatusBooked && b.Date >= from && b.Date < to {
			result = append(result, *b)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })

	return result, nil
}

func (f *fakeStore) ActiveSlotExists(_ context.Context, date string, role models.Role, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.Status == models.StatusBooked && b.Date == date && b.Role == role {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeStore) ActiveByNameOnDate(_ context.Context, fullName, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.Status == models.StatusBooked && b.Date == date &&
			strings.EqualFold(b.FullName, fullName) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, id string, upd models.BookingUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return response.ErrNotFound
	}

	next := *b
	if upd.FullName != nil {
		next.FullName = *upd.FullName
	}
	if upd.Role != nil {
		next.Role = *upd.Role
	}
	if upd.Date != nil {
		next.Date = *upd.Date
	}
	if upd.Notes != nil {
		next.Notes = upd.Notes
	}
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.Email != nil {
		next.Email = upd.Email
	}
	next.EditedByAdmin = true
	next.LastUpdatedAt = time.Now().UTC()

	if next.Status == models.StatusBooked {
		for _, other := range f.bookings {
			if other.ID == id {
				continue
			}
			if other.Status == models.StatusBooked && other.Date == next.Date && other.Role == next.Role {
				return response.ErrSlotTaken
			}
		}
	}

	f.bookings[id] = &next

	return nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.bookings, id)

	return nil
}

func (f *fakeStore) SetBookingStatus(_ context.Context, id string, status models.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return response.ErrNotFound
	}
	b.Status = status
	b.LastUpdatedAt = time.Now().UTC()

	return nil
}

func (f *fakeStore) ListByParticipant(_ context.Context, name string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if strings.Contains(strings.ToLower(b.FullName), strings.ToLower(name)) {
			result = append(result, *b)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })

	return result, nil
}

func (f *fakeStore) ListForExport(_ context.Context, from, to *string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.Status != models.StatusBooked {
			continue
		}
		if from != nil && b.Date < *from {
			continue
		}
		if to != nil && b.Date >= *to {
			continue
		}
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })

	return result, nil
}

func (f *fakeStore) ListRemindable(_ context.Context, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.Status == models.StatusBooked && b.Date == date && b.Email != nil && *b.Email != "" {
			result = append(result, *b)
		}
	}

	return result, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)

	return nil
}

func newTestService(store Store) *Service {
	return NewService(store, &fakeMailer{}, time.UTC, "https://example.com/meeting")
}

// upcomingMeetingDates returns the next n distinct Monday-Thursday dates
// starting from today, all inside the booking window.
func upcomingMeetingDates(n int) []string {
	dates := make([]string, 0, n)
	d := time.Now().UTC()
	for len(dates) < n {
		if d.Weekday() >= time.Monday && d.Weekday() <= time.Thursday {
			dates = append(dates, d.Format("2006-01-02"))
		}
		d = d.AddDate(0, 0, 1)
	}

	return dates
}

// upcomingFriday returns the next Friday, which is never bookable.
func upcomingFriday() string {
	d := time.Now().UTC()
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}

	return d.Format("2006-01-02")
}

func TestValidateBookingDate(t *testing.T) {
	today := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC) // a Monday

	cases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"today monday", "2026-03-02", false},
		{"thursday in window", "2026-03-05", false},
		{"window edge", "2026-04-02", false}, // today+31, a Thursday
		{"friday", "2026-03-06", true},
		{"saturday", "2026-03-07", true},
		{"sunday", "2026-03-08", true},
		{"yesterday", "2026-03-01", true},
		{"past monday", "2026-02-23", true},
		{"beyond window", "2026-04-06", true},
		{"garbage", "not-a-date", true},
		{"wrong layout", "02/03/2026", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBookingDate(tc.date, today)
			if tc.wantErr {
				if !errors.Is(err, response.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	got, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith",
		Role:     "Lead Prayer",
		Date:     date,
	})
	if err == nil {
		t.Fatalf("expected validation error for unknown role, got booking %v", got)
	}

	got, err = svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith",
		Role:     "Prayer",
		Date:     date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID == "" {
		t.Error("expected generated booking id")
	}
	if got.Status != string(models.StatusBooked) {
		t.Errorf("status = %q, want %q", got.Status, models.StatusBooked)
	}
	if got.TimeStart != models.MeetingTimeStart || got.TimeEnd != models.MeetingTimeEnd {
		t.Errorf("meeting time = %s-%s, want %s-%s",
			got.TimeStart, got.TimeEnd, models.MeetingTimeStart, models.MeetingTimeEnd)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	cases := []struct {
		name string
		req  api.BookingRequest
	}{
		{"short name", api.BookingRequest{FullName: "J", Role: "Prayer", Date: date}},
		{"blank name", api.BookingRequest{FullName: "   ", Role: "Prayer", Date: date}},
		{"bad role", api.BookingRequest{FullName: "John Smith", Role: "Usher", Date: date}},
		{"friday", api.BookingRequest{FullName: "John Smith", Role: "Prayer", Date: upcomingFriday()}},
		{"past date", api.BookingRequest{FullName: "John Smith", Role: "Prayer", Date: "2020-01-06"}},
		{"bad date", api.BookingRequest{FullName: "John Smith", Role: "Prayer", Date: "soon"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, &tc.req)
			if !errors.Is(err, response.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBookingSlotTaken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: date,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "Mary Jones", Role: "Prayer", Date: date,
	})
	if !errors.Is(err, response.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// The other role on the same date is a different slot.
	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "Mary Jones", Role: "Worship", Date: date,
	}); err != nil {
		t.Fatalf("worship booking on same date failed: %v", err)
	}
}

func TestCreateBookingDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: date,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Same person may not take both roles on one date, case-insensitively.
	_, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "john smith", Role: "Worship", Date: date,
	})
	if !errors.Is(err, response.ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	dates := upcomingMeetingDates(2)

	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: dates[0],
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	days, err := svc.GetAvailability(ctx, dates[0], dates[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byDate := make(map[string]*api.AvailabilityDay)
	for _, day := range days {
		byDate[day.Date] = day
	}

	booked, ok := byDate[dates[0]]
	if !ok {
		t.Fatalf("no availability entry for %s", dates[0])
	}
	if booked.PrayerAvailable {
		t.Error("prayer slot should be unavailable")
	}
	if booked.PrayerBookedBy == nil || *booked.PrayerBookedBy != "John S." {
		t.Errorf("prayer booked_by = %v, want John S.", booked.PrayerBookedBy)
	}
	if !booked.WorshipAvailable {
		t.Error("worship slot should still be available")
	}

	free, ok := byDate[dates[1]]
	if !ok {
		t.Fatalf("no availability entry for %s", dates[1])
	}
	if !free.PrayerAvailable || !free.WorshipAvailable {
		t.Error("untouched date should be fully available")
	}
}

func TestGetAvailabilityCoversAllWeekdays(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	start := time.Now().UTC()
	end := start.AddDate(0, 0, 6)

	days, err := svc.GetAvailability(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every calendar day of the range is reported, weekends included.
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	for i, day := range days {
		want := start.AddDate(0, 0, i).Format("2006-01-02")
		if day.Date != want {
			t.Errorf("days[%d].Date = %s, want %s", i, day.Date, want)
		}
	}
}

func TestGetAvailabilityInvertedRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	days, err := svc.GetAvailability(ctx, "2026-03-10", "2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("got %d days for inverted range, want 0", len(days))
	}
}

func TestUnlockBookingFreesSlot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	booking, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: date,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.UnlockBooking(ctx, booking.ID); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	got, err := svc.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != string(models.StatusCancelled) {
		t.Errorf("status = %q, want %q", got.Status, models.StatusCancelled)
	}

	// The slot is open again.
	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "Mary Jones", Role: "Prayer", Date: date,
	}); err != nil {
		t.Fatalf("rebooking unlocked slot failed: %v", err)
	}
}

func TestUpdateBooking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	dates := upcomingMeetingDates(2)

	booking, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: dates[0],
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	newDate := dates[1]
	got, err := svc.UpdateBooking(ctx, booking.ID, &api.BookingUpdateRequest{Date: &newDate})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.Date != newDate {
		t.Errorf("date = %s, want %s", got.Date, newDate)
	}
	if !got.EditedByAdmin {
		t.Error("edited_by_admin should be set after an admin update")
	}
}

func TestUpdateBookingErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	dates := upcomingMeetingDates(2)

	first, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: dates[0],
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	second, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "Mary Jones", Role: "Prayer", Date: dates[1],
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	t.Run("no fields", func(t *testing.T) {
		_, err := svc.UpdateBooking(ctx, first.ID, &api.BookingUpdateRequest{})
		if !errors.Is(err, response.ErrNoFields) {
			t.Fatalf("expected ErrNoFields, got %v", err)
		}
	})

	t.Run("bad role", func(t *testing.T) {
		role := "Usher"
		_, err := svc.UpdateBooking(ctx, first.ID, &api.BookingUpdateRequest{Role: &role})
		if !errors.Is(err, response.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		status := "Pending"
		_, err := svc.UpdateBooking(ctx, first.ID, &api.BookingUpdateRequest{Status: &status})
		if !errors.Is(err, response.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("collision", func(t *testing.T) {
		// Moving the second booking onto the first one's slot.
		_, err := svc.UpdateBooking(ctx, second.ID, &api.BookingUpdateRequest{Date: &dates[0]})
		if !errors.Is(err, response.ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "New Name"
		_, err := svc.UpdateBooking(ctx, "missing", &api.BookingUpdateRequest{FullName: &name})
		if !errors.Is(err, response.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	booking, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: date,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.DeleteBooking(ctx, booking.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.GetBooking(ctx, booking.ID); !errors.Is(err, response.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := svc.DeleteBooking(ctx, booking.ID); !errors.Is(err, response.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func TestListPublicBookingsHidesContacts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	date := upcomingMeetingDates(1)[0]

	notes := "please start on time"
	email := "john@example.com"
	if _, err := svc.CreateBooking(ctx, &api.BookingRequest{
		FullName: "John Smith", Role: "Prayer", Date: date, Notes: &notes, Email: &email,
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	public, err := svc.ListPublicBookings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("got %d public bookings, want 1", len(public))
	}

	got := public[0]
	if got.Email != nil || got.Notes != nil {
		t.Error("public booking must not expose email or notes")
	}
	if got.DisplayName != "John S." {
		t.Errorf("display_name = %q, want %q", got.DisplayName, "John S.")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John Smith", "John S."},
		{"Mary Anne Jones", "Mary J."},
		{"Cher", "Cher"},
		{"", "Anonymous"},
	}

	for _, tc := range cases {
		if got := displayName(tc.in); got != tc.want {
			t.Errorf("displayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
