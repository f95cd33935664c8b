// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package sync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tomtom215/doorly/internal/config"
)

const requestsValues = `{
  "range": "Requests!A1:C4",
  "majorDimension": "ROWS",
  "values": [
    ["Customer Name", "Status", "Price  From", ""],
    ["Ahmed", "Active", "1,200", "x"],
    [],
    ["Sara"]
  ]
}`

func testSheetsConfig() *config.SheetsConfig {
	return &config.SheetsConfig{
		Timeout: 5 * time.Second,
		Sources: map[string]config.SheetSource{
			config.SourceRequests:  {SpreadsheetID: "sheet-requests", Range: "Requests!A:ZZ"},
			config.SourceInstagram: {SpreadsheetID: "sheet-social", Range: "Instagram!A:ZZ"},
			config.SourceLinkedIn:  {},
		},
	}
}

// newTestSheetsClient points a SheetsClient at handler.
func newTestSheetsClient(t *testing.T, handler http.HandlerFunc) *SheetsClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("sheets.NewService: %v", err)
	}
	return newSheetsClient(testSheetsConfig(), svc)
}

func writeGoogleError(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, `{"error":{"code":`+strconv.Itoa(code)+`,"message":"test failure","status":"`+status+`"}}`)
}

func TestSheetsClientRows(t *testing.T) {
	t.Parallel()

	client := newTestSheetsClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/spreadsheets/sheet-requests/values/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, requestsValues)
	})

	rows, err := client.Rows(context.Background(), config.SourceRequests)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (empty row dropped)", len(rows))
	}

	wantKeys := []string{"customer_name", "status", "price_from", "column_4"}
	for i, k := range wantKeys {
		if rows[0].Keys[i] != k {
			t.Errorf("key[%d] = %q, want %q", i, rows[0].Keys[i], k)
		}
	}
	if got := rows[0].Get("price_from"); got != "1,200" {
		t.Errorf("price_from = %v, want the raw string", got)
	}
	if !rows[1].Has("status") || rows[1].Get("status") != nil {
		t.Errorf("short row should be padded with nil, got %v", rows[1].Values)
	}
}

func TestSheetsClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		gstatus  string
		wantKind ErrorKind
	}{
		{name: "forbidden", status: http.StatusForbidden, gstatus: "PERMISSION_DENIED", wantKind: KindPermissionDenied},
		{name: "not found", status: http.StatusNotFound, gstatus: "NOT_FOUND", wantKind: KindNotFound},
		{name: "server error", status: http.StatusInternalServerError, gstatus: "INTERNAL", wantKind: KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestSheetsClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeGoogleError(w, tt.status, tt.gstatus)
			})

			_, err := client.Rows(context.Background(), config.SourceRequests)
			serr, ok := AsSourceError(err)
			if !ok {
				t.Fatalf("error %v is not a SourceError", err)
			}
			if serr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", serr.Kind, tt.wantKind)
			}
			if serr.Source != config.SourceRequests {
				t.Errorf("Source = %q, want %q", serr.Source, config.SourceRequests)
			}
		})
	}
}

func TestSheetsClientUnconfigured(t *testing.T) {
	t.Parallel()

	noCreds := newSheetsClient(testSheetsConfig(), nil)

	tests := []struct {
		name     string
		source   string
		wantKind ErrorKind
	}{
		{name: "unknown source", source: "facebook", wantKind: KindNotFound},
		{name: "source without id", source: config.SourceLinkedIn, wantKind: KindNotFound},
		{name: "missing credentials", source: config.SourceRequests, wantKind: KindCredentialsMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := noCreds.Rows(context.Background(), tt.source)
			if !IsKind(err, tt.wantKind) {
				t.Errorf("Rows(%q) error = %v, want kind %s", tt.source, err, tt.wantKind)
			}
		})
	}

	if err := noCreds.Ping(context.Background()); !IsKind(err, KindCredentialsMissing) {
		t.Errorf("Ping() error = %v, want credentials_missing", err)
	}
}

func TestSheetsClientWriteRows(t *testing.T) {
	t.Parallel()

	var (
		mu                     sync.Mutex
		calls                  []string
		clearPath              string
		updateBody, valueInput string
	)
	client := newTestSheetsClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			calls = append(calls, "clear")
			clearPath = r.URL.Path
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-social"}`)
		case r.Method == http.MethodPut:
			calls = append(calls, "update")
			body, _ := io.ReadAll(r.Body)
			updateBody = string(body)
			valueInput = r.URL.Query().Get("valueInputOption")
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-social","updatedRows":2}`)
		default:
			http.NotFound(w, r)
		}
	})

	err := client.WriteRows(context.Background(), config.SourceInstagram,
		[]string{"post_id", "reach"},
		[][]any{{"m1", nil}},
	)
	if err != nil {
		t.Fatalf("WriteRows() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(calls, ",") != "update,clear" {
		t.Errorf("calls = %v, want update then clear", calls)
	}
	if !strings.HasSuffix(clearPath, "Instagram!A3:ZZ:clear") {
		t.Errorf("clear path = %q, want the rows below the written data", clearPath)
	}
	if valueInput != "RAW" {
		t.Errorf("valueInputOption = %q, want RAW", valueInput)
	}
	for _, want := range []string{`"post_id"`, `"m1"`, `null`} {
		if !strings.Contains(updateBody, want) {
			t.Errorf("update body %s missing %s", updateBody, want)
		}
	}
}

func TestSheetsClientWriteRowsKeepsDataOnFailedUpdate(t *testing.T) {
	t.Parallel()

	var (
		mu              sync.Mutex
		clears, updates int
	)
	client := newTestSheetsClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			clears++
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-social"}`)
		case r.Method == http.MethodPut:
			updates++
			writeGoogleError(w, http.StatusBadRequest, "INVALID_ARGUMENT")
		default:
			http.NotFound(w, r)
		}
	})

	err := client.WriteRows(context.Background(), config.SourceInstagram,
		[]string{"post_id"}, [][]any{{"m1"}})
	if err == nil {
		t.Fatal("WriteRows() error = nil, want update failure")
	}
	if _, ok := AsSourceError(err); !ok {
		t.Errorf("WriteRows() error = %T, want *SourceError", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if updates != 1 {
		t.Errorf("updates = %d, want 1", updates)
	}
	if clears != 0 {
		t.Errorf("clears = %d, want 0 after a failed update", clears)
	}
}

func TestTailRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rng     string
		written int
		want    string
		wantOK  bool
	}{
		{"Instagram!A:ZZ", 2, "Instagram!A3:ZZ", true},
		{"Instagram!A1:ZZ", 1, "Instagram!A2:ZZ", true},
		{"Sheet1!B2:F10", 3, "Sheet1!B5:F10", true},
		{"Sheet1!A1:C3", 3, "", false},
		{"Instagram", 2, "Instagram!A3:ZZ", true},
		{"'My Sheet'!A:ZZ", 4, "'My Sheet'!A5:ZZ", true},
		{"Data!1:100", 10, "Data!11:100", true},
	}
	for _, tt := range tests {
		got, ok := tailRange(tt.rng, tt.written)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("tailRange(%q, %d) = %q, %v; want %q, %v", tt.rng, tt.written, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClassifySheetsError(t *testing.T) {
	t.Parallel()

	if got := classifySheetsError("requests", context.DeadlineExceeded); got.Kind != KindTimeout {
		t.Errorf("deadline kind = %q, want timeout", got.Kind)
	}
	if got := classifySheetsError("requests", &googleapi.Error{Code: http.StatusGatewayTimeout}); got.Kind != KindTimeout {
		t.Errorf("504 kind = %q, want timeout", got.Kind)
	}
	if got := classifySheetsError("requests", errors.New("boom")); got.Kind != KindUpstream {
		t.Errorf("plain error kind = %q, want upstream", got.Kind)
	}
	if got := classifySheetsError("requests", &googleapi.Error{Code: http.StatusUnauthorized}); !strings.Contains(got.Message, "denied") {
		t.Errorf("401 message = %q", got.Message)
	}
}

func TestRowsFromValuesEmpty(t *testing.T) {
	t.Parallel()

	if rows := rowsFromValues(nil); rows == nil || len(rows) != 0 {
		t.Errorf("rowsFromValues(nil) = %v, want empty non-nil", rows)
	}
	if rows := rowsFromValues([][]interface{}{{"only", "header"}}); len(rows) != 0 {
		t.Errorf("header-only sheet produced %d rows", len(rows))
	}
}
