package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"hebron-schedule/api"
	"hebron-schedule/internal/mailer"
	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
)

// monthWindow returns the half-open [first of month, first of next month)
// range as YYYY-MM-DD strings.
func monthWindow(year, month int) (string, string) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)

	var end string
	if month == 12 {
		end = fmt.Sprintf("%04d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%04d-%02d-01", year, month+1)
	}

	return start, end
}

func prevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// bookableSlots counts Monday-Thursday days in the month times the two
// roles.
func bookableSlots(year, month int) int {
	days := 0
	d := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == time.Month(month) {
		if d.Weekday() >= time.Monday && d.Weekday() <= time.Thursday {
			days++
		}
		d = d.AddDate(0, 0, 1)
	}

	return days * 2
}

func (s *Service) resolveMonth(month, year int) (int, int, error) {
	now := time.Now().In(s.loc)
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	if month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("invalid month/year: %w", response.ErrValidation)
	}

	return month, year, nil
}

// #### admin/analytics ####

func (s *Service) GetAnalytics(ctx context.Context, month, year int) (*api.AnalyticsResponse, error) {
	const op = "service.GetAnalytics"

	month, year, err := s.resolveMonth(month, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := monthWindow(year, month)
	bookings, err := s.store.ListActiveBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prayerTotal := 0
	worshipTotal := 0
	byName := make(map[string]*api.ParticipantStat)

	for i := range bookings {
		b := &bookings[i]

		stat, ok := byName[b.FullName]
		if !ok {
			stat = &api.ParticipantStat{Name: b.FullName}
			byName[b.FullName] = stat
		}
		stat.TotalBookings++

		switch b.Role {
		case models.RolePrayer:
			prayerTotal++
			stat.PrayerCount++
		case models.RoleWorship:
			worshipTotal++
			stat.WorshipCount++
		}
	}

	participants := make([]api.ParticipantStat, 0, len(byName))
	for _, stat := range byName {
		participants = append(participants, *stat)
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].TotalBookings != participants[j].TotalBookings {
			return participants[i].TotalBookings > participants[j].TotalBookings
		}
		return participants[i].Name < participants[j].Name
	})

	return &api.AnalyticsResponse{
		Month:         month,
		Year:          year,
		PrayerSlots:   prayerTotal,
		WorshipSlots:  worshipTotal,
		TotalBookings: prayerTotal + worshipTotal,
		Participants:  participants,
	}, nil
}

// #### admin/reports/monthly ####

const reportListLimit = 10

func (s *Service) GetMonthlyReport(ctx context.Context, month, year int) (*api.MonthlyReport, error) {
	const op = "service.GetMonthlyReport"

	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%s: invalid month/year: %w", op, response.ErrValidation)
	}

	start, end := monthWindow(year, month)
	bookings, err := s.store.ListActiveBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prevYear, prevMon := prevMonth(year, month)
	prevStart, _ := monthWindow(prevYear, prevMon)
	prevBookings, err := s.store.ListActiveBetween(ctx, prevStart, start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	totalSlots := bookableSlots(year, month)

	prayerCount := 0
	worshipCount := 0
	counts := make(map[string]int)
	current := make(map[string]struct{})

	for i := range bookings {
		b := &bookings[i]
		if b.Role == models.RolePrayer {
			prayerCount++
		} else {
			worshipCount++
		}
		counts[b.FullName]++
		current[b.FullName] = struct{}{}
	}

	rate := 0.0
	if totalSlots > 0 {
		rate = math.Round(float64(len(bookings))/float64(totalSlots)*1000) / 10
	}

	top := make([]api.TopParticipant, 0, len(counts))
	for name, count := range counts {
		top = append(top, api.TopParticipant{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > reportListLimit {
		top = top[:reportListLimit]
	}

	// Members who served last month but dropped out this month.
	inactive := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range prevBookings {
		name := prevBookings[i].FullName
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := current[name]; !ok {
			inactive = append(inactive, name)
		}
	}
	sort.Strings(inactive)
	if len(inactive) > reportListLimit {
		inactive = inactive[:reportListLimit]
	}

	return &api.MonthlyReport{
		Month:                month,
		Year:                 year,
		TotalAvailableSlots:  totalSlots,
		TotalPrayerBookings:  prayerCount,
		TotalWorshipBookings: worshipCount,
		TotalBookings:        len(bookings),
		ParticipationRate:    rate,
		TopParticipants:      top,
		InactiveMembers:      inactive,
	}, nil
}

// #### admin/participant-history ####

func (s *Service) GetParticipantHistory(ctx context.Context, name string) (*api.ParticipantHistory, error) {
	const op = "service.GetParticipantHistory"

	if name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	bookings, err := s.store.ListByParticipant(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	history := &api.ParticipantHistory{
		Name:          name,
		TotalServices: len(bookings),
		History:       make([]api.BookingResponse, 0, len(bookings)),
	}

	for i := range bookings {
		if bookings[i].Role == models.RolePrayer {
			history.PrayerCount++
		} else {
			history.WorshipCount++
		}
		history.History = append(history.History, *toBookingResponse(&bookings[i]))
	}

	return history, nil
}

// #### admin/export ####

// ExportBookings returns active bookings date-ascending, limited to one
// month when both month and year are given.
func (s *Service) ExportBookings(ctx context.Context, month, year int) ([]models.Booking, error) {
	const op = "service.ExportBookings"

	var from, to *string
	if month != 0 && year != 0 {
		if month < 1 || month > 12 || year < 1 {
			return nil, fmt.Errorf("%s: invalid month/year: %w", op, response.ErrValidation)
		}
		start, end := monthWindow(year, month)
		from, to = &start, &end
	}

	bookings, err := s.store.ListForExport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// #### reminders ####

// SendDailyReminders mails every active booking for today (UK time)
// that has an email address. Returns the number of emails sent.
func (s *Service) SendDailyReminders(ctx context.Context) (int, error) {
	const op = "service.SendDailyReminders"

	today := time.Now().In(s.loc).Format(dateLayout)

	bookings, err := s.store.ListRemindable(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		msg := mailer.Reminder(*b.Email, b.FullName, string(b.Role), b.Date, s.zoomURL)
		if err := s.mail.Send(ctx, msg); err != nil {
			continue
		}
		sent++
	}

	return sent, nil
}
