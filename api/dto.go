package api

import "time"

type BookingRequest struct {
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	Date     string  `json:"date"`
	Notes    *string `json:"notes,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type BookingUpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Date     *string `json:"date,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Status   *string `json:"status,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type BookingResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	Role          string    `json:"role"`
	Date          string    `json:"date"`
	TimeStart     string    `json:"time_start"`
	TimeEnd       string    `json:"time_end"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	Email         *string   `json:"email,omitempty"`
	EditedByAdmin bool      `json:"edited_by_admin"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

type AvailabilityDay struct {
	Date             string  `json:"date"`
	PrayerAvailable  bool    `json:"prayer_available"`
	PrayerBookedBy   *string `json:"prayer_booked_by"`
	WorshipAvailable bool    `json:"worship_available"`
	WorshipBookedBy  *string `json:"worship_booked_by"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type ParticipantStat struct {
	Name          string `json:"name"`
	TotalBookings int    `json:"total_bookings"`
	PrayerCount   int    `json:"prayer_count"`
	WorshipCount  int    `json:"worship_count"`
}

type AnalyticsResponse struct {
	Month         int               `json:"month"`
	Year          int               `json:"year"`
	PrayerSlots   int               `json:"prayer_slots"`
	WorshipSlots  int               `json:"worship_slots"`
	TotalBookings int               `json:"total_bookings"`
	Participants  []ParticipantStat `json:"participants"`
}

type TopParticipant struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthlyReport struct {
	Month                int              `json:"month"`
	Year                 int              `json:"year"`
	TotalAvailableSlots  int              `json:"total_available_slots"`
	TotalPrayerBookings  int              `json:"total_prayer_bookings"`
	TotalWorshipBookings int              `json:"total_worship_bookings"`
	TotalBookings        int              `json:"total_bookings"`
	ParticipationRate    float64          `json:"participation_rate"`
	TopParticipants      []TopParticipant `json:"top_participants"`
	InactiveMembers      []string         `json:"inactive_members"`
}

type ParticipantHistory struct {
	Name          string            `json:"name"`
	TotalServices int               `json:"total_services"`
	PrayerCount   int               `json:"prayer_count"`
	WorshipCount  int               `json:"worship_count"`
	History       []BookingResponse `json:"history"`
}
