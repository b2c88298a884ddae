package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"galli2globe/internal/currency"
	"galli2globe/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter renders the booking ledger as an .xlsx report for the
// back office.
type ExcelExporter struct {
	exportPath string
	table      *currency.Table
	logger     *zerolog.Logger
}

func NewExcelExporter(exportPath string, table *currency.Table, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{
		exportPath: exportPath,
		table:      table,
		logger:     logger,
	}
}

const bookingsSheet = "Bookings"

// WriteBookings streams the report straight to w, typically an HTTP
// response.
func (e *ExcelExporter) WriteBookings(w io.Writer, bookings []models.Booking) error {
	f, err := e.buildBookingsFile(bookings)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// ExportBookings saves the report under the configured export path and
// returns the file location.
func (e *ExcelExporter) ExportBookings(bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(e.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := e.buildBookingsFile(bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("bookings Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) buildBookingsFile(bookings []models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Owner", "Destination", "Location", "Travel Month", "Traveler",
		"Email", "Phone", "Country", "Group Size", "Price", "Status", "Booked",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), b.OwnerEmail)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), b.DestinationName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), b.DestinationLocation)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), b.TravelMonth)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), b.FullName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), b.Email)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), b.Phone)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("I%d", row), b.Country)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("J%d", row), b.GroupSize)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("K%d", row), e.table.Format(b.Price, e.table.Reference(), false))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("L%d", row), b.Status)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("M%d", row), b.BookedDate)
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 18)
	_ = f.SetColWidth(bookingsSheet, "B", "C", 25)
	_ = f.SetColWidth(bookingsSheet, "D", "D", 25)
	_ = f.SetColWidth(bookingsSheet, "E", "E", 12)
	_ = f.SetColWidth(bookingsSheet, "F", "I", 20)
	_ = f.SetColWidth(bookingsSheet, "J", "M", 14)

	_ = f.DeleteSheet("Sheet1")

	return f, nil
}
