package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/infra"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore is the Google Sheets implementation of RowStore. All calls are
// bounded by a per-call timeout and routed through a circuit breaker so a
// slow or dead Sheets API fast-fails instead of piling up request goroutines.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	breaker       *infra.CircuitBreaker
}

// NewSheetsService builds an authenticated Sheets client from service-account
// credentials. privateKey may carry literal "\n" sequences (the usual way the
// key is stored in env vars) — they are converted to real newlines here.
func NewSheetsService(ctx context.Context, clientEmail, privateKey string) (*sheets.Service, error) {
	if clientEmail == "" || privateKey == "" {
		return nil, fmt.Errorf("missing sheets credentials: GOOGLE_CLIENT_EMAIL / GOOGLE_PRIVATE_KEY")
	}
	key := strings.TrimSpace(strings.ReplaceAll(privateKey, `\n`, "\n"))
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(key),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
}

func NewSheetsStore(svc *sheets.Service, spreadsheetID string, timeout time.Duration, breaker *infra.CircuitBreaker) *SheetsStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID, timeout: timeout, breaker: breaker}
}

// call wraps one Sheets API round trip with the timeout and the breaker.
func (s *SheetsStore) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Execute(func() error { return fn(ctx) })
}

func (s *SheetsStore) ReadRows(ctx context.Context, tab string) ([][]interface{}, error) {
	var rows [][]interface{}
	err := s.call(ctx, func(ctx context.Context) error {
		resp, err := s.svc.Spreadsheets.Values.
			Get(s.spreadsheetID, fmt.Sprintf("%s!A2:ZZ", tab)).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).Do()
		if err != nil {
			return err
		}
		rows = resp.Values
		return nil
	})
	return rows, err
}

func (s *SheetsStore) ReadRow(ctx context.Context, tab string, rowIndex int) ([]interface{}, error) {
	if rowIndex < 2 {
		return nil, ErrRowNotFound
	}
	var row []interface{}
	err := s.call(ctx, func(ctx context.Context) error {
		resp, err := s.svc.Spreadsheets.Values.
			Get(s.spreadsheetID, fmt.Sprintf("%s!A%d:ZZ%d", tab, rowIndex, rowIndex)).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Values) > 0 {
			row = resp.Values[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, ErrRowNotFound
	}
	return row, nil
}

func (s *SheetsStore) AppendRow(ctx context.Context, tab string, row []interface{}) error {
	return s.call(ctx, func(ctx context.Context) error {
		rng := fmt.Sprintf("%s!A:%s", tab, columnLetter(len(row)))
		_, err := s.svc.Spreadsheets.Values.
			Append(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
}

func (s *SheetsStore) UpdateRow(ctx context.Context, tab string, rowIndex int, row []interface{}) error {
	return s.call(ctx, func(ctx context.Context) error {
		rng := fmt.Sprintf("%s!A%d:%s%d", tab, rowIndex, columnLetter(len(row)), rowIndex)
		_, err := s.svc.Spreadsheets.Values.
			Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
}

func (s *SheetsStore) DeleteRows(ctx context.Context, tab string, start, end int) error {
	return s.call(ctx, func(ctx context.Context) error {
		sheetID, err := s.sheetID(ctx, tab)
		if err != nil {
			return err
		}
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(start),
						EndIndex:   int64(end),
					},
				},
			}},
		}
		_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
}

func (s *SheetsStore) EnsureTab(ctx context.Context, tab string, header []interface{}) error {
	return s.call(ctx, func(ctx context.Context) error {
		meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
		if err != nil {
			return err
		}
		exists := false
		for _, sh := range meta.Sheets {
			if sh.Properties != nil && sh.Properties.Title == tab {
				exists = true
				break
			}
		}
		if !exists {
			req := &sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					AddSheet: &sheets.AddSheetRequest{
						Properties: &sheets.SheetProperties{Title: tab},
					},
				}},
			}
			if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
				return err
			}
		}

		rng := fmt.Sprintf("%s!A1:%s1", tab, columnLetter(len(header)))
		head, err := s.svc.Spreadsheets.Values.
			Get(s.spreadsheetID, rng).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).Do()
		if err != nil {
			return err
		}
		empty := true
		if len(head.Values) > 0 {
			for _, v := range head.Values[0] {
				if strings.TrimSpace(CellString(v)) != "" {
					empty = false
					break
				}
			}
		}
		if empty {
			_, err = s.svc.Spreadsheets.Values.
				Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{header}}).
				ValueInputOption("USER_ENTERED").
				Context(ctx).Do()
		}
		return err
	})
}

func (s *SheetsStore) sheetID(ctx context.Context, tab string) (int64, error) {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("tab %q missing", tab)
}
