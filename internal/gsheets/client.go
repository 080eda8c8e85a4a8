package gsheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sentinel errors callers classify against. ErrUnavailable covers network
// and service failures and is safe to retry.
var (
	ErrAccessDenied = errors.New("access to the spreadsheet was denied")
	ErrTabNotFound  = errors.New("spreadsheet tab not found")
	ErrUnavailable  = errors.New("spreadsheet service unavailable")
)

// fetchRange bounds how much of a tab one read pulls in. Coach plans are a
// few dozen rows; 500 leaves plenty of headroom.
const fetchRange = "A1:Z500"

var spreadsheetIDPattern = regexp.MustCompile(`spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Client is a read-only Google Sheets client authenticated as a service
// account. Coaches share their plan spreadsheets with the service account's
// email address.
type Client struct {
	svc *sheets.Service
}

// NewClient builds a Sheets client from a service-account credentials file,
// requesting only the read-only spreadsheets scope.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("invalid sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// HealthCheck verifies the spreadsheet is reachable with the client's
// credentials. It fetches metadata only, no cell data.
func (c *Client) HealthCheck(ctx context.Context, spreadsheetID string) error {
	_, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err)
	}
	return nil
}

// ReadRows fetches the raw cell grid of one tab. Rows are ragged (trailing
// empty cells are not padded) and leading fully-blank rows are trimmed so
// the first returned row is the first one carrying any content.
func (c *Client) ReadRows(ctx context.Context, spreadsheetID, tabName string) ([][]string, error) {
	readRange := fmt.Sprintf("'%s'!%s", tabName, fetchRange)
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}

	return trimLeadingBlankRows(rows), nil
}

// classify maps Google API failures onto the package's sentinel errors.
// Anything that is not a clear permission or range problem is treated as
// retryable unavailability, including context timeouts on the fetch.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 403:
			return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.Message)
		case apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range"):
			return fmt.Errorf("%w: %s", ErrTabNotFound, apiErr.Message)
		case apiErr.Code == 404:
			return fmt.Errorf("%w: spreadsheet not found", ErrUnavailable)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func trimLeadingBlankRows(rows [][]string) [][]string {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return rows[i:]
			}
		}
	}
	return [][]string{}
}

// ExtractSpreadsheetID pulls the document id out of a shareable spreadsheet
// URL such as "https://docs.google.com/spreadsheets/d/ABC123/edit".
func ExtractSpreadsheetID(url string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(m) != 2 || m[1] == "" {
		return "", fmt.Errorf("not a shareable spreadsheet URL: %q", url)
	}
	return m[1], nil
}

// SpreadsheetURL returns the canonical URL for a spreadsheet id.
func SpreadsheetURL(spreadsheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", spreadsheetID)
}
