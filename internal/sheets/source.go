package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/peekr/outreach/internal/table"
)

// Source fetches one worksheet as a table of field-named rows.
type Source interface {
	FetchTable(ctx context.Context, spreadsheetID, sheet string) (*table.Table, error)
}

// RemoteFetchError wraps any failure to read a worksheet.
type RemoteFetchError struct {
	Sheet      string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch sheet %q: status %d: %v", e.Sheet, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch sheet %q: %v", e.Sheet, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// GoogleSource reads worksheets through the Sheets v4 REST API.
type GoogleSource struct {
	service *gsheets.Service
}

// NewGoogleSource builds a source over an already authorized client.
func NewGoogleSource(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*GoogleSource, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSource{service: service}, nil
}

// FetchTable reads every row of sheet. The first row is the header.
func (s *GoogleSource) FetchTable(ctx context.Context, spreadsheetID, sheet string) (*table.Table, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, quoteRange(sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		fetchErr := &RemoteFetchError{Sheet: sheet, Err: err}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			fetchErr.StatusCode = apiErr.Code
		}
		return nil, fetchErr
	}

	tbl, err := recordsFromValues(resp.Values)
	if err != nil {
		return nil, &RemoteFetchError{Sheet: sheet, Err: err}
	}
	return tbl, nil
}

// quoteRange turns a sheet title into an A1 range covering the whole sheet.
func quoteRange(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// recordsFromValues converts raw cell values into a table. Columns with an
// empty header are dropped; short rows are padded with "".
func recordsFromValues(values [][]interface{}) (*table.Table, error) {
	if len(values) == 0 {
		return table.Empty(), nil
	}

	var columns []string
	var keep []int
	for i, cell := range values[0] {
		name := cellString(cell)
		if name == "" {
			continue
		}
		columns = append(columns, name)
		keep = append(keep, i)
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(raw) {
				row[j] = cellString(raw[idx])
			}
		}
		rows = append(rows, row)
	}

	return table.New(columns, rows)
}

func cellString(v interface{}) string {
	switch cell := v.(type) {
	case nil:
		return ""
	case string:
		return cell
	default:
		return fmt.Sprint(cell)
	}
}
