package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"galli2globe/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Service mirrors the agency's booking ledger into a Google spreadsheet.
// Each sync replaces the whole sheet; the booking list is small enough
// that row-level diffing is not worth the bookkeeping.
type Service struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

func NewService(credentialsFile, spreadsheetID, sheetName string) (*Service, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheetsapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &Service{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// TestConnection проверяет доступ к таблице
func (s *Service) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail returns the client_email from the credentials file,
// handy for sharing the spreadsheet with the right account.
func GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// ReplaceBookingsSheet clears the sheet and rewrites it from the given
// bookings, headers included.
func (s *Service) ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error {
	clearRange := s.sheetName + "!A:Z"
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear bookings sheet: %v", err)
	}

	values := [][]interface{}{
		{"ID", "Owner", "Destination", "Location", "Travel Month", "Traveler", "Email", "Phone", "Country", "Group Size", "Price", "Status", "Booked"},
	}
	for _, b := range bookings {
		values = append(values, []interface{}{
			b.ID,
			b.OwnerEmail,
			b.DestinationName,
			b.DestinationLocation,
			b.TravelMonth,
			b.FullName,
			b.Email,
			b.Phone,
			b.Country,
			b.GroupSize,
			b.Price,
			b.Status,
			b.BookedDate,
		})
	}

	valueRange := &sheetsapi.ValueRange{Values: values}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, s.sheetName+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update bookings sheet: %v", err)
	}

	return nil
}
