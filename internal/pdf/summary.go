package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator is an interface so tests can stub the sheet out.
type Generator interface {
	Summary(data SummaryData) ([]byte, error)
}

type SummaryData struct {
	FullName   string
	Email      string
	Phone      string
	Position   string
	Location   string
	Slots      []string
	Submitted  map[string]bool
	ReceivedAt time.Time
}

// SummaryGenerator renders the one-page cover sheet attached to the HR
// mail. Rendered to memory, nothing touches disk.
type SummaryGenerator struct{}

func NewSummaryGenerator() *SummaryGenerator { return &SummaryGenerator{} }

func (g *SummaryGenerator) Summary(data SummaryData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Application: %s", data.FullName), false)
	doc.SetAuthor("Careers Intake", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "APPLICATION SUMMARY", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s  |  %s", data.Position, data.ReceivedAt.Format("02.01.2006 15:04"))
	doc.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	hr(doc)

	phone := data.Phone
	if phone == "" {
		phone = "Not provided"
	}
	rows := [][2]string{
		{"Candidate", data.FullName},
		{"Email", data.Email},
		{"Phone", phone},
		{"Position", data.Position},
		{"Location", data.Location},
	}
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	hr(doc)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 9, "Submitted Documents", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, slot := range data.Slots {
		mark := "[  ]"
		if data.Submitted[slot] {
			mark = "[x]"
		}
		doc.CellFormat(0, 7, fmt.Sprintf("%s  %s", mark, slot), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func hr(doc *gofpdf.Fpdf) {
	doc.Ln(2)
	x, y := doc.GetX(), doc.GetY()
	doc.SetDrawColor(120, 120, 120)
	doc.Line(x, y, 190, y)
	doc.Ln(4)
}
