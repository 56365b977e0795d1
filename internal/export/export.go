package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hebron-schedule/internal/models"
)

var header = []string{"ID", "Full Name", "Role", "Date", "Time", "Status", "Notes", "Created At"}

const sheetName = "Bookings"

func meetingTime() string {
	return "8:00 PM - 9:00 PM"
}

func bookingRow(b *models.Booking) []string {
	notes := ""
	if b.Notes != nil {
		notes = *b.Notes
	}

	return []string{
		b.ID,
		b.FullName,
		string(b.Role),
		b.Date,
		meetingTime(),
		string(b.Status),
		notes,
		b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func CSV(w io.Writer, bookings []models.Booking) error {
	const op = "export.CSV"

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := range bookings {
		if err := cw.Write(bookingRow(&bookings[i])); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func Excel(w io.Writer, bookings []models.Booking) error {
	const op = "export.Excel"

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	writeRow := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := range bookings {
		if err := writeRow(i+2, bookingRow(&bookings[i])); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
