// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tomtom215/doorly/internal/analytics"
	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

const sheetsBackend = "sheets"

// RowSource returns the rows of a named dataset.
type RowSource interface {
	Rows(ctx context.Context, source string) (analytics.Rows, error)
	Ping(ctx context.Context) error
}

// SheetWriter replaces the contents of a named sheet.
type SheetWriter interface {
	WriteRows(ctx context.Context, source string, header []string, rows [][]any) error
}

// SheetsClient reads and writes Google Sheets ranges through the Sheets v4
// API using a service account. Named sources map to a spreadsheet id and an
// A1 range through configuration.
//
// A client built without credentials is still usable: every call fails with
// a credentials_missing SourceError, which keeps the server up and lets the
// readiness check report the problem.
type SheetsClient struct {
	svc     *sheets.Service
	sources map[string]config.SheetSource
	timeout time.Duration
}

// NewSheetsClient authenticates with the configured service-account key.
func NewSheetsClient(ctx context.Context, cfg *config.SheetsConfig) (*SheetsClient, error) {
	if !cfg.HasCredentials() {
		logging.Warn().Msg("Google Sheets credentials not configured, sheet sources will be unavailable")
		return newSheetsClient(cfg, nil), nil
	}

	key := []byte(cfg.CredentialsJSON)
	if len(key) == 0 {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read sheets credentials file: %w", err)
		}
		key = data
	}

	jwtCfg, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logging.Info().Str("service_account", jwtCfg.Email).Strs("sources", cfg.SourceNames()).Msg("Google Sheets client ready")
	return newSheetsClient(cfg, svc), nil
}

func newSheetsClient(cfg *config.SheetsConfig, svc *sheets.Service) *SheetsClient {
	sources := make(map[string]config.SheetSource, len(cfg.Sources))
	for name, src := range cfg.Sources {
		sources[name] = src
	}
	return &SheetsClient{svc: svc, sources: sources, timeout: cfg.Timeout}
}

func (c *SheetsClient) lookup(source string) (config.SheetSource, error) {
	src, ok := c.sources[source]
	if !ok || !src.Configured() {
		return config.SheetSource{}, &SourceError{
			Kind:    KindNotFound,
			Source:  source,
			Message: fmt.Sprintf("sheet source %q is not configured", source),
		}
	}
	if c.svc == nil {
		return config.SheetSource{}, newSourceError(KindCredentialsMissing, "Google Sheets", nil)
	}
	return src, nil
}

func (c *SheetsClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Rows fetches the range of source. The first row is the header; header
// cells are normalized into row keys and short rows are padded with nil.
// Cells keep their formatted string values.
func (c *SheetsClient) Rows(ctx context.Context, source string) (analytics.Rows, error) {
	src, err := c.lookup(source)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Spreadsheets.Values.Get(src.SpreadsheetID, src.Range).Context(ctx).Do()
	if err != nil {
		serr := classifySheetsError(source, err)
		metrics.RecordSourceFetch(sheetsBackend, source, time.Since(start), 0, string(serr.Kind))
		logging.CtxErr(ctx, serr).Str("source", source).Str("kind", string(serr.Kind)).Msg("Sheets fetch failed")
		return nil, serr
	}

	rows := rowsFromValues(resp.Values)
	metrics.RecordSourceFetch(sheetsBackend, source, time.Since(start), len(rows), "")
	logging.Ctx(ctx).Debug().Str("source", source).Int("rows", len(rows)).Msg("Sheets fetch complete")
	return rows, nil
}

// WriteRows writes header plus rows from the top-left cell of source's range,
// then clears the rows left below them by an earlier, longer write. The
// existing contents stay in place if the write fails. Nil cells are left
// empty.
func (c *SheetsClient) WriteRows(ctx context.Context, source string, header []string, rows [][]any) error {
	src, err := c.lookup(source)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	for _, row := range rows {
		values = append(values, row)
	}

	_, err = c.svc.Spreadsheets.Values.Update(src.SpreadsheetID, src.Range, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classifySheetsError(source, err)
	}

	tail, ok := tailRange(src.Range, len(values))
	if !ok {
		return nil
	}
	if _, err := c.svc.Spreadsheets.Values.Clear(src.SpreadsheetID, tail, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		serr := classifySheetsError(source, err)
		logging.CtxErr(ctx, serr).Str("source", source).Str("range", tail).Msg("Sheets tail clear failed")
		return serr
	}
	return nil
}

// tailRange returns the A1 range of rng that starts written rows below its
// first row. It reports false when rng ends before that row.
func tailRange(rng string, written int) (string, bool) {
	sheet, cells := "", rng
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		sheet, cells = rng[:i+1], rng[i+1:]
	} else if _, row, _ := splitCell(rng); !strings.Contains(rng, ":") && row == 0 {
		// A bare name refers to the whole sheet.
		sheet, cells = rng+"!", ""
	}

	start, end, _ := strings.Cut(cells, ":")
	startCol, startRow, _ := splitCell(start)
	endCol, endRow, _ := splitCell(end)
	if startRow == 0 {
		startRow = 1
	}
	if endCol == "" && endRow == 0 {
		endCol = "ZZ"
		if startCol == "" {
			startCol = "A"
		}
	}

	first := startRow + written
	if endRow > 0 && first > endRow {
		return "", false
	}
	out := sheet + startCol + strconv.Itoa(first) + ":" + endCol
	if endRow > 0 {
		out += strconv.Itoa(endRow)
	}
	return out, true
}

// splitCell splits an A1 cell reference such as "B12" into its column
// letters and row number. Either part may be missing.
func splitCell(ref string) (col string, row int, ok bool) {
	i := 0
	for i < len(ref) && (ref[i] >= 'A' && ref[i] <= 'Z' || ref[i] >= 'a' && ref[i] <= 'z') {
		i++
	}
	col = strings.ToUpper(ref[:i])
	if i == len(ref) {
		return col, 0, col != ""
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return col, n, true
}

// Ping reads the metadata of the first configured spreadsheet.
func (c *SheetsClient) Ping(ctx context.Context) error {
	var name string
	for _, n := range sortedSourceNames(c.sources) {
		if c.sources[n].Configured() {
			name = n
			break
		}
	}
	if name == "" {
		return &SourceError{Kind: KindNotFound, Source: "sheets", Message: "no sheet sources are configured"}
	}

	src, err := c.lookup(name)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.svc.Spreadsheets.Get(src.SpreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return classifySheetsError(name, err)
	}
	return nil
}

func sortedSourceNames(sources map[string]config.SheetSource) []string {
	cfg := config.SheetsConfig{Sources: sources}
	return cfg.SourceNames()
}

// rowsFromValues converts a values grid into rows. Entirely empty rows are
// dropped; empty header cells become column_N.
func rowsFromValues(values [][]interface{}) analytics.Rows {
	if len(values) == 0 {
		return analytics.Rows{}
	}

	keys := make([]string, len(values[0]))
	for i, cell := range values[0] {
		key := analytics.NormalizeHeader(fmt.Sprint(cell))
		if key == "" {
			key = "column_" + strconv.Itoa(i+1)
		}
		keys[i] = key
	}

	rows := make(analytics.Rows, 0, len(values)-1)
	for _, raw := range values[1:] {
		if len(raw) == 0 {
			continue
		}
		if len(raw) > len(keys) {
			raw = raw[:len(keys)]
		}
		rows = append(rows, analytics.NewRow(keys, raw))
	}
	return rows
}

// classifySheetsError maps a Sheets API failure to a SourceError.
func classifySheetsError(source string, err error) *SourceError {
	if isTimeout(err) {
		return newSourceError(KindTimeout, source, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return newSourceError(KindPermissionDenied, source, err)
		case http.StatusNotFound:
			return newSourceError(KindNotFound, source, err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return newSourceError(KindTimeout, source, err)
		}
	}
	return newSourceError(KindUpstream, source, err)
}
