package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"kolipanel/internal/core"
	ports "kolipanel/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// headerRow is written once to an empty export sheet so the columns are
// readable without the app.
var headerRow = []any{
	"Timestamp", "Company", "Country",
	"Gross Revenue", "Tax", "Material Cost", "Overhead",
	"Net Profit", "Margin %", "Notes",
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	salesSheet    string
}

// Ensure interface conformance
var (
	_ ports.SaleWriter = (*Client)(nil)
	_ ports.SaleSyncer = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Sales"),
// credentials via GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	salesSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if salesSheet == "" {
		salesSheet = "Sales"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		salesSheet:    salesSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

func saleRow(s core.Sale) []any {
	return []any{
		s.Timestamp, s.CompanyName, s.CountryCode,
		s.GrossRevenue, s.TaxAmount, s.MaterialCost, s.AllocatedOverhead,
		s.NetProfit, s.ProfitMarginPercent, s.Notes,
	}
}

// Append writes the sale after the last used row, adding the header row
// first when the sheet is empty.
func (c *Client) Append(ctx context.Context, s core.Sale) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.salesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.salesSheet, err)
	}

	rows := [][]any{}
	nextRow := len(resp.Values) + 1
	if nextRow == 1 {
		rows = append(rows, headerRow)
	}
	rows = append(rows, saleRow(s))

	dataRange := fmt.Sprintf("%s!A%d", c.salesSheet, nextRow)
	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append sale to sheet %s: %w", c.salesSheet, err)
	}

	ref := fmt.Sprintf("%s!A%d:J%d", c.salesSheet, nextRow+len(rows)-1, nextRow+len(rows)-1)
	return ref, nil
}

// SyncAll rewrites the export sheet so it mirrors the given ledger.
func (c *Client) SyncAll(ctx context.Context, sales []core.Sale) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRng := fmt.Sprintf("%s!A:J", c.salesSheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.salesSheet, err)
	}

	rows := make([][]any, 0, len(sales)+1)
	rows = append(rows, headerRow)
	for _, s := range sales {
		rows = append(rows, saleRow(s))
	}

	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.salesSheet), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", c.salesSheet, err)
	}

	slog.InfoContext(ctx, "Ledger exported to Google Sheets",
		"component", "sheets",
		"sheet", c.salesSheet,
		"sales", len(sales),
	)
	return nil
}
