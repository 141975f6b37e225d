package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"studio/internal/domain/models"
	"studio/internal/utils"
)

// DocsService renders the printable booking summary the admin dashboard offers.
type DocsService struct {
	Bookings  BookingStore
	RequestID string
	Loader    func(ctx context.Context, id string) (models.BookingRecord, error)
}

// GenerateBookingSummary produces the PDF and a download filename.
func (s DocsService) GenerateBookingSummary(ctx context.Context, bookingID string) ([]byte, string, error) {
	rec, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_summary", "booking_id="+bookingID)
	return buildBookingSummaryPDF(rec)
}

func (s DocsService) load(ctx context.Context, id string) (models.BookingRecord, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	return s.Bookings.GetByID(ctx, id)
}

func buildBookingSummaryPDF(rec models.BookingRecord) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING SUMMARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID       : %s", rec.ID),
		fmt.Sprintf("Status           : %s", safe(rec.Status, "-")),
		fmt.Sprintf("Name             : %s", safe(rec.Name, "-")),
		fmt.Sprintf("Email            : %s", safe(rec.Email, "-")),
		fmt.Sprintf("Phone            : %s", safe(rec.Phone, "-")),
		fmt.Sprintf("Appointment      : %s", safe(formatDates(rec.BookingRequest), "-")),
		fmt.Sprintf("Artist           : %s", rec.DisplayArtist()),
		fmt.Sprintf("Placement        : %s", safe(rec.Placement, "-")),
		fmt.Sprintf("Style            : %s", safe(strings.Join(rec.PreferredStyle, ", "), "-")),
		fmt.Sprintf("Customer type    : %s", safe(rec.CustomerType, "-")),
		fmt.Sprintf("Submitted        : %s", rec.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Message:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, safe(rec.Message, "-"), "", "", false)

	if len(rec.Images) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Reference images:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, key := range rec.Images {
			pdf.Cell(0, 6, "- "+key)
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BOOKING_%s_%s.pdf", rec.ID, safeFilenamePart(rec.Name))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return time.Now().Format("20060102")
	}
	return b.String()
}
