package models

import "time"

type Role string

const (
	RolePrayer  Role = "Prayer"
	RoleWorship Role = "Worship"
)

func (r Role) Valid() bool {
	return r == RolePrayer || r == RoleWorship
}

type BookingStatus string

const (
	StatusBooked    BookingStatus = "Booked"
	StatusCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) Valid() bool {
	return s == StatusBooked || s == StatusCancelled
}

// Meeting time is fixed for every slot.
const (
	MeetingTimeStart = "20:00"
	MeetingTimeEnd   = "21:00"
)

type Booking struct {
	ID            string        `db:"id"`
	FullName      string        `db:"full_name"`
	Role          Role          `db:"role"`
	Date          string        `db:"date"` // YYYY-MM-DD
	Status        BookingStatus `db:"status"`
	Notes         *string       `db:"notes"`
	Email         *string       `db:"email"`
	EditedByAdmin bool          `db:"edited_by_admin"`
	CreatedAt     time.Time     `db:"created_at"`
	LastUpdatedAt time.Time     `db:"last_updated_at"`
}

// BookingFilters enumerates the recognized admin list filters.
// Name matches as a case-insensitive substring.
type BookingFilters struct {
	Date   *string
	Role   *Role
	Name   *string
	Status *BookingStatus
}

// BookingUpdate carries the admin partial-update fields; nil means keep.
type BookingUpdate struct {
	FullName *string
	Role     *Role
	Date     *string
	Notes    *string
	Status   *BookingStatus
	Email    *string
}

func (u BookingUpdate) Empty() bool {
	return u.FullName == nil && u.Role == nil && u.Date == nil &&
		u.Notes == nil && u.Status == nil && u.Email == nil
}
