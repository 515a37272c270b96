// Package pdf renders the booking-confirmation artifact attached to
// confirmation mail.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/seatsync/ticketd/internal/core/domain"
)

type Renderer struct {
	dir string
}

// NewRenderer writes artifacts under dir, one file per reference, so a
// duplicate delivery of the same job just overwrites an identical file.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

func (r *Renderer) Render(job domain.NotificationJob) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Ticket Booking Confirmation", "", 1, "C", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Event Name", job.EventName},
		{"Booked User", job.RecipientEmail},
		{"Reference Number", job.Reference},
		{"Booking Date", time.Now().Format("2006-01-02 15:04:05")},
	}
	for _, row := range rows {
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(60, 9, row[0], "1", 0, "L", true, 0, "")
		doc.CellFormat(100, 9, row[1], "1", 1, "L", false, 0, "")
	}

	path := filepath.Join(r.dir, job.Reference+".pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
