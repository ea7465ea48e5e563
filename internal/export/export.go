// Package export renders the booking ledger as an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"snowpool/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	BookingsSheet = "Bookings"
	CountsSheet   = "Area counters"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	bookingHeaders = []interface{}{
		"Booking ID", "Service request", "Postal code", "Operator service", "Scheduled date",
		"Scheduled time", "Status", "Base price", "Hourly rate", "Discount", "Final price", "Created at",
	}
	countHeaders = []interface{}{"Postal code", "Date", "Bookings"}
)

// Source provides the records that go into the workbook.
type Source interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListServiceRequests(ctx context.Context, postalCode string) ([]models.ServiceRequest, error)
	ListBookingCounts(ctx context.Context) ([]models.PostalAreaBookingCount, error)
}

// Build creates a workbook with every booking and every per-area counter.
// The caller owns the returned file and must close it.
func Build(ctx context.Context, src Source) (*excelize.File, error) {
	bookings, err := src.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting bookings: %w", err)
	}
	requests, err := src.ListServiceRequests(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("error getting service requests: %w", err)
	}
	counts, err := src.ListBookingCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting booking counts: %w", err)
	}

	postalByRequest := make(map[string]string, len(requests))
	for _, req := range requests {
		postalByRequest[req.ID] = req.PostalCode
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", BookingsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("error renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(CountsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating style: %w", err)
	}

	if err := writeBookings(f, bookings, postalByRequest, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeCounts(f, counts, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeBookings(f *excelize.File, bookings []models.Booking, postalByRequest map[string]string, headerStyle int) error {
	if err := writeHeader(f, BookingsSheet, bookingHeaders, headerStyle); err != nil {
		return err
	}

	for i, b := range bookings {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			b.ID,
			b.ServiceRequestID,
			postalByRequest[b.ServiceRequestID],
			b.OperatorServiceID,
			b.ScheduledDate,
			b.ScheduledTime,
			string(b.Status),
			b.BasePrice,
			b.HourlyRate,
			b.DiscountMultiplier,
			b.FinalPrice,
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(BookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing booking %s: %w", b.ID, err)
		}
	}

	_ = f.SetColWidth(BookingsSheet, "A", "D", 38)
	_ = f.SetColWidth(BookingsSheet, "E", "L", 16)
	return nil
}

func writeCounts(f *excelize.File, counts []models.PostalAreaBookingCount, headerStyle int) error {
	if err := writeHeader(f, CountsSheet, countHeaders, headerStyle); err != nil {
		return err
	}

	for i, c := range counts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{c.PostalCode, c.BookingDate, c.ActiveBookingsCount}
		if err := f.SetSheetRow(CountsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing counter %s/%s: %w", c.PostalCode, c.BookingDate, err)
		}
	}

	_ = f.SetColWidth(CountsSheet, "A", "C", 16)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("error writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// Write streams the workbook to w.
func Write(ctx context.Context, src Source, w io.Writer) error {
	f, err := Build(ctx, src)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// FileName is the snapshot name for the given moment.
func FileName(now time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02_150405"))
}

// SaveSnapshot writes the workbook into dir and returns the file path.
func SaveSnapshot(ctx context.Context, src Source, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := Build(ctx, src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	filePath := filepath.Join(dir, FileName(now))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}
