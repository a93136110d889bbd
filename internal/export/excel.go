package export

import (
	"fmt"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headerRow = []string{"ID", "Item", "Booker", "Email", "Start", "End", "Status"}

// WriteBookings renders the bookings table as an xlsx workbook and streams
// it to w. Item and booker columns fall back to raw IDs when the view
// carries no summary.
func WriteBookings(w io.Writer, bookings []*models.BookingView) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for col, title := range headerRow {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2

		itemName := fmt.Sprintf("#%d", b.ItemID)
		if b.Item != nil {
			itemName = b.Item.Name
		}
		bookerName := fmt.Sprintf("#%d", b.BookerID)
		bookerEmail := ""
		if b.Booker != nil {
			bookerName = b.Booker.Name
			bookerEmail = b.Booker.Email
		}

		values := []interface{}{
			b.ID,
			itemName,
			bookerName,
			bookerEmail,
			b.Start.Format(time.RFC3339),
			b.End.Format(time.RFC3339),
			string(b.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "G", 22)

	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %v", err)
	}
	return nil
}

// FileName builds the attachment name for a report generated at ts.
func FileName(ts time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", ts.Format("2006-01-02"))
}
