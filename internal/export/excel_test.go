package export

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"galli2globe/internal/currency"
	"galli2globe/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBookings() []models.Booking {
	return []models.Booking{
		{
			ID:                  "BK1700000000000",
			OwnerEmail:          "asha@example.com",
			DestinationName:     "Kerala Backwaters",
			DestinationLocation: "Kerala, India",
			TravelMonth:         "2026-11",
			FullName:            "Asha Verma",
			Email:               "asha@example.com",
			Phone:               "+91 98765 43210",
			Country:             "India",
			GroupSize:           models.GroupSizeDuo,
			Price:               45000,
			Status:              models.StatusConfirmed,
			BookedAt:            time.Now(),
			BookedDate:          "November 3, 2026",
		},
		{
			ID:              "BK1700000000001",
			OwnerEmail:      "ravi@example.com",
			DestinationName: "Ladakh Circuit",
			Price:           62000,
			Status:          models.StatusCancelled,
		},
	}
}

func newExporter(t *testing.T) *ExcelExporter {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewExcelExporter(t.TempDir(), currency.DefaultTable(), &logger)
}

func TestWriteBookings(t *testing.T) {
	exporter := newExporter(t)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteBookings(&buf, sampleBookings()))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "BK1700000000000", rows[1][0])
	assert.Equal(t, "Kerala Backwaters", rows[1][2])
	assert.Equal(t, "₹45K", rows[1][10])
	assert.Equal(t, models.StatusCancelled, rows[2][11])
}

func TestExportBookingsSavesFile(t *testing.T) {
	exporter := newExporter(t)

	path, err := exporter.ExportBookings(sampleBookings())
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWriteBookingsEmptyLedger(t *testing.T) {
	exporter := newExporter(t)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteBookings(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 1) // headers only
}
