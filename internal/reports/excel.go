package reports

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

const (
	headerColor  = "1F4E78"
	sectionColor = "D9E1F2"
	totalColor   = "FFC000"
	grandColor   = "92D050"
)

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func boldFillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func titleStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: headerColor},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

// BuildRevenueWorkbook renders the monthly revenue report: one section per
// registration month, newest first, with per-month totals and a grand total.
func BuildRevenueWorkbook(periods []membership.MonthlyRevenue, generatedAt time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Revenue Report"
	f.SetSheetName("Sheet1", sheet)

	widths := map[string]float64{"A": 5, "B": 15, "C": 20, "D": 15, "E": 20, "F": 15, "G": 15, "H": 20}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	hdr, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	title, err := titleStyle(f)
	if err != nil {
		return nil, err
	}
	section, err := boldFillStyle(f, sectionColor)
	if err != nil {
		return nil, err
	}
	totalStyle, err := boldFillStyle(f, totalColor)
	if err != nil {
		return nil, err
	}
	grandStyle, err := boldFillStyle(f, grandColor)
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "GYM REVENUE REPORT")
	f.MergeCell(sheet, "A1", "H1")
	f.SetCellStyle(sheet, "A1", "H1", title)
	f.SetCellValue(sheet, "A2", "Generated: "+generatedAt.Format("02-01-2006 15:04"))
	f.MergeCell(sheet, "A2", "H2")

	row := 4
	var grandTotal float64
	var grandCount int

	for _, p := range periods {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, cell, "PERIOD: "+p.Label)
		f.MergeCell(sheet, cell, fmt.Sprintf("H%d", row))
		f.SetCellStyle(sheet, cell, cell, section)
		row++

		headers := []string{"No", "Member ID", "Name", "Plan", "Registered", "Monthly Fee", "Registration Fee", "Total"}
		for i, h := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			c := fmt.Sprintf("%s%d", col, row)
			f.SetCellValue(sheet, c, h)
			f.SetCellStyle(sheet, c, c, hdr)
		}
		row++

		for i, m := range p.Members {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.MemberID)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.PlanType.Label())
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.RegisteredAt.Format("02-01-2006"))
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.MonthlyFee)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), m.RegistrationFee)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), m.Total)
			row++
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), p.Total)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), totalStyle)

		grandTotal += p.Total
		grandCount += p.Count
		row += 2
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "GRAND TOTAL")
	f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), grandTotal)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), grandStyle)
	row += 2

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total members:")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), grandCount)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total revenue:")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), grandTotal)

	return f.WriteToBuffer()
}

// BuildAttendanceWorkbook renders the attendance log. Open visits show a
// dash in the check-out and duration columns.
func BuildAttendanceWorkbook(records []models.Attendance, nameOf func(memberID string) string, generatedAt time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	widths := map[string]float64{"A": 5, "B": 15, "C": 25, "D": 22, "E": 22, "F": 15, "G": 12}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	hdr, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	title, err := titleStyle(f)
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "GYM MEMBER ATTENDANCE LOG")
	f.MergeCell(sheet, "A1", "G1")
	f.SetCellStyle(sheet, "A1", "G1", title)
	f.SetCellValue(sheet, "A2", "Exported: "+generatedAt.Format("02-01-2006 15:04"))
	f.MergeCell(sheet, "A2", "G2")

	headers := []string{"No", "Member ID", "Name", "Check-in", "Check-out", "Duration (h)", "Status"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		c := fmt.Sprintf("%s4", col)
		f.SetCellValue(sheet, c, h)
		f.SetCellStyle(sheet, c, c, hdr)
	}

	row := 5
	for i, a := range records {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.MemberID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), nameOf(a.MemberID))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.CheckIn.Format("02-01-2006 15:04:05"))

		if a.CheckOut != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), a.CheckOut.Format("02-01-2006 15:04:05"))
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), math.Round(a.Duration().Hours()*100)/100)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "Check-out")
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), "-")
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), "-")
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "Check-in")
		}
		row++
	}

	return f.WriteToBuffer()
}
