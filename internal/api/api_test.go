// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/doorly/internal/analytics"
	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/authz"
	"github.com/tomtom215/doorly/internal/cache"
	"github.com/tomtom215/doorly/internal/config"
	syncpkg "github.com/tomtom215/doorly/internal/sync"
)

const testSecret = "api-test-secret-that-is-at-least-32-chars"

// fakeRows serves fixed rows per source and counts upstream reads.
type fakeRows struct {
	mu      sync.Mutex
	rows    map[string]analytics.Rows
	err     error
	pingErr error
	calls   int
}

func (f *fakeRows) Rows(_ context.Context, source string) (analytics.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[source], nil
}

func (f *fakeRows) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeRows) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSyncer struct {
	mu     sync.Mutex
	result *syncpkg.SyncResult
	err    error
}

func (f *fakeSyncer) SyncNow(context.Context) (*syncpkg.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeSyncer) LastResult() (*syncpkg.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Cached bool `json:"cached"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func requestRows() analytics.Rows {
	keys := []string{"Customer ID", "Customer Name", "City", "Property Type", "Status", "Created At"}
	data := [][]any{
		{"c1", "Sara", "Riyadh", "Villa", "active", "2025-03-05"},
		{"c1", "Sara", "Riyadh", "Villa", "active", "2025-03-20"},
		{"c2", "Omar", "Jeddah", "Apartment", "cancelled", "2025-07-01"},
	}
	rows := make(analytics.Rows, len(data))
	for i, d := range data {
		normalized := make([]string, len(keys))
		for j, k := range keys {
			normalized[j] = analytics.NormalizeHeader(k)
		}
		rows[i] = analytics.NewRow(normalized, d)
	}
	return rows
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			AuthMode:          mode,
			RateLimitDisabled: true,
			CookieName:        "doorly_session",
			Casbin:            config.CasbinConfig{DefaultRole: "viewer"},
		},
		Analytics: config.AnalyticsConfig{Timezone: "UTC", TopN: 10},
	}
}

type testServer struct {
	handler *Handler
	http    http.Handler
	rows    *fakeRows
	cache   *cache.Cache
	audit   *audit.Logger
}

func newTestServer(t *testing.T, cfg *config.Config, rows *fakeRows) *testServer {
	t.Helper()

	authSvc, err := auth.NewService(&cfg.Security)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)

	auditLog := audit.NewLogger(audit.NewMemoryStore(100), audit.DefaultConfig())
	t.Cleanup(func() { _ = auditLog.Close() })

	h := NewHandler(cfg, rows, authSvc, c)
	h.SetEnforcer(enforcer)
	h.SetAuditLogger(auditLog)
	return &testServer{
		handler: h,
		http:    NewRouter(h, authSvc, enforcer).SetupChi(),
		rows:    rows,
		cache:   c,
		audit:   auditLog,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body []byte, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.http.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNotFound || rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestDashboardKPIsServedFromCache(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	rec, env := s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" || env.Metadata.Cached {
		t.Errorf("first response status=%q cached=%v", env.Status, env.Metadata.Cached)
	}
	var kpis analytics.KPIBundle
	if err := json.Unmarshal(env.Data, &kpis); err != nil {
		t.Fatalf("decode kpis: %v", err)
	}
	if kpis.TotalRequests != 3 || kpis.UniqueCustomers != 2 || kpis.UniqueCities != 2 {
		t.Errorf("kpis = %+v", kpis)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}

	_, env = s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
	if !env.Metadata.Cached {
		t.Error("second response should be cached")
	}
	if got := rows.Calls(); got != 1 {
		t.Errorf("upstream reads = %d, want 1", got)
	}
}

func TestSourceErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   syncpkg.ErrorKind
		status int
		code   string
	}{
		{syncpkg.KindCredentialsMissing, http.StatusServiceUnavailable, "SOURCE_NOT_CONFIGURED"},
		{syncpkg.KindPermissionDenied, http.StatusForbidden, "SOURCE_PERMISSION_DENIED"},
		{syncpkg.KindNotFound, http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{syncpkg.KindTimeout, http.StatusGatewayTimeout, "SOURCE_TIMEOUT"},
		{syncpkg.KindUpstream, http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			message := "Share the spreadsheet with the service account (" + string(tt.kind) + ")"
			rows := &fakeRows{err: &syncpkg.SourceError{Kind: tt.kind, Source: "requests", Message: message}}
			s := newTestServer(t, testConfig(auth.ModeNone), rows)

			rec, env := s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.code)
			}
			if env.Error.Message != message {
				t.Errorf("message = %q, want %q", env.Error.Message, message)
			}
			if env.Error.Details["kind"] != string(tt.kind) {
				t.Errorf("details = %v", env.Error.Details)
			}

			// Failures are not cached.
			s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
			if got := rows.Calls(); got != 2 {
				t.Errorf("upstream reads = %d, want 2", got)
			}
		})
	}
}

func TestDashboardValidation(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	tests := []struct {
		name   string
		target string
	}{
		{"bad granularity", "/api/v1/dashboard/series?granularity=hourly"},
		{"non-date field", "/api/v1/dashboard/series?granularity=daily&field=city"},
		{"year out of range", "/api/v1/dashboard/series?granularity=monthly&year=1900"},
		{"unknown distribution field", "/api/v1/dashboard/distribution?field=price"},
		{"missing distribution field", "/api/v1/dashboard/distribution"},
		{"malformed top", "/api/v1/dashboard/distribution?field=city&top=ten"},
		{"bad source", "/api/v1/dashboard/kpis?source=Requests%20Sheet"},
		{"bad sort", "/api/v1/dashboard/customers?sort=price"},
		{"bad metric", "/api/v1/social/instagram/series?granularity=weekly&metric=views"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, tt.target, nil, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
	if got := rows.Calls(); got != 0 {
		t.Errorf("upstream reads = %d, want 0 for invalid requests", got)
	}
}

func TestDashboardSeriesMonthly(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	rec, env := s.do(t, http.MethodGet, "/api/v1/dashboard/series?granularity=monthly&year=2025", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var series struct {
		Year   int               `json:"year"`
		Points []analytics.Point `json:"points"`
	}
	if err := json.Unmarshal(env.Data, &series); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if series.Year != 2025 || len(series.Points) != 12 {
		t.Fatalf("series = %+v", series)
	}
	if p := series.Points[2]; p.Name != "2025-03" || p.Value != 2 {
		t.Errorf("March = %+v, want 2025-03=2", p)
	}
	if p := series.Points[6]; p.Name != "2025-07" || p.Value != 1 {
		t.Errorf("July = %+v, want 2025-07=1", p)
	}
}

func TestDashboardDistributionAndCustomers(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	rec, env := s.do(t, http.MethodGet, "/api/v1/dashboard/distribution?field=city&top=1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var dist struct {
		Total  int               `json:"total"`
		Column string            `json:"column"`
		Points []analytics.Point `json:"points"`
	}
	if err := json.Unmarshal(env.Data, &dist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dist.Total != 3 || dist.Column != "city" || len(dist.Points) != 1 || dist.Points[0].Name != "Riyadh" {
		t.Errorf("distribution = %+v", dist)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/dashboard/customers?repeated=true", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var customers struct {
		Total     int                           `json:"total"`
		Customers []analytics.CustomerAggregate `json:"customers"`
	}
	if err := json.Unmarshal(env.Data, &customers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if customers.Total != 1 || customers.Customers[0].CustomerID != "c1" || customers.Customers[0].RequestCount != 2 {
		t.Errorf("customers = %+v", customers)
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	hash := func(p string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		return string(h)
	}

	cfg := testConfig(auth.ModeJWT)
	cfg.Security.JWTSecret = testSecret
	cfg.Security.SessionTimeout = time.Hour
	cfg.Security.Users = []config.UserConfig{
		{Username: "vic", PasswordHash: hash("viewer-password"), Role: "viewer"},
		{Username: "ana", PasswordHash: hash("analyst-password"), Role: "analyst"},
	}
	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, cfg, rows)

	login := func(username, password string) (*httptest.ResponseRecorder, envelope) {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		return s.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
	}

	rec, env := login("vic", "wrong")
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("bad login = %d %+v", rec.Code, env.Error)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{"username":"vic","extra":1}`), "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field login status = %d, want 400", rec.Code)
	}

	rec, env = login("vic", "viewer-password")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil || session.Token == "" {
		t.Fatalf("login data = %s, err = %v", env.Data, err)
	}
	if c := rec.Result().Cookies(); len(c) == 0 || c[0].Name != "doorly_session" || !c[0].HttpOnly {
		t.Errorf("session cookie = %+v", c)
	}

	tests := []struct {
		name   string
		method string
		target string
		token  string
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/dashboard/kpis", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/dashboard/kpis", "not-a-token", http.StatusUnauthorized},
		{"viewer reads dashboard", http.MethodGet, "/api/v1/dashboard/kpis", session.Token, http.StatusOK},
		{"viewer reads self", http.MethodGet, "/api/v1/auth/me", session.Token, http.StatusOK},
		{"viewer denied social", http.MethodGet, "/api/v1/social/linkedin/summary", session.Token, http.StatusForbidden},
		{"viewer denied admin", http.MethodDelete, "/api/v1/admin/cache", session.Token, http.StatusForbidden},
		{"health is public", http.MethodGet, "/api/v1/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, tt.method, tt.target, nil, tt.token)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}

	_, env = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, session.Token)
	var me struct {
		User struct {
			Username string   `json:"username"`
			Role     string   `json:"role"`
			Roles    []string `json:"roles"`
		} `json:"user"`
		AuthMode string `json:"auth_mode"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.User.Username != "vic" || me.User.Role != "viewer" || me.AuthMode != auth.ModeJWT {
		t.Errorf("me = %+v", me)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")
	if c := rec.Result().Cookies(); rec.Code != http.StatusOK || len(c) == 0 || c[0].MaxAge >= 0 {
		t.Errorf("logout = %d, cookies %+v", rec.Code, c)
	}
}

// waitForAudit polls until the async writer has stored n events matching filter.
func (s *testServer) waitForAudit(t *testing.T, filter audit.QueryFilter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, _ := s.audit.Query(context.Background(), filter)
		if len(events) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("audit trail did not reach %d events for %+v", n, filter)
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()

	hash := func(p string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		return string(h)
	}

	cfg := testConfig(auth.ModeJWT)
	cfg.Security.JWTSecret = testSecret
	cfg.Security.SessionTimeout = time.Hour
	cfg.Security.Users = []config.UserConfig{
		{Username: "vic", PasswordHash: hash("viewer-password"), Role: "viewer"},
		{Username: "root", PasswordHash: hash("admin-password"), Role: "admin"},
	}
	s := newTestServer(t, cfg, &fakeRows{})

	login := func(username, password string) string {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		_, env := s.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
		var session struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal(env.Data, &session)
		return session.Token
	}

	if token := login("vic", "nope"); token != "" {
		t.Fatal("bad password returned a token")
	}
	viewer := login("vic", "viewer-password")
	if rec, _ := s.do(t, http.MethodDelete, "/api/v1/admin/cache", nil, viewer); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer cache clear status = %d, want 403", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, viewer); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	admin := login("root", "admin-password")
	if rec, _ := s.do(t, http.MethodDelete, "/api/v1/admin/cache?prefix=dashboard", nil, admin); rec.Code != http.StatusOK {
		t.Fatalf("admin cache clear status = %d", rec.Code)
	}

	// auth.failure, two auth.success, authz.denied, auth.logout, admin.cache_clear
	s.waitForAudit(t, audit.QueryFilter{}, 6)

	tests := []struct {
		name  string
		query string
		want  []audit.EventType
		user  string
	}{
		{"denied", "?type=authz.denied", []audit.EventType{audit.EventTypeAuthzDenied}, "vic"},
		{"failed logins", "?type=auth.failure", []audit.EventType{audit.EventTypeAuthFailure}, "vic"},
		{"logout", "?type=auth.logout", []audit.EventType{audit.EventTypeLogout}, "vic"},
		{"cache clear", "?type=admin.cache_clear", []audit.EventType{audit.EventTypeCacheCleared}, "root"},
		{"failures newest first", "?outcome=failure", []audit.EventType{audit.EventTypeAuthzDenied, audit.EventTypeAuthFailure}, "vic"},
		{"by username", "?username=root&limit=1", []audit.EventType{audit.EventTypeCacheCleared}, "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, "/api/v1/admin/audit"+tt.query, nil, admin)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var data struct {
				Events []audit.Event `json:"events"`
				Count  int           `json:"count"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if data.Count != len(tt.want) {
				t.Fatalf("count = %d, want %d: %+v", data.Count, len(tt.want), data.Events)
			}
			for i, typ := range tt.want {
				if data.Events[i].Type != typ || data.Events[i].Actor.Username != tt.user {
					t.Errorf("event[%d] = %s by %q, want %s by %q", i, data.Events[i].Type, data.Events[i].Actor.Username, typ, tt.user)
				}
			}
		})
	}

	if rec, _ := s.do(t, http.MethodGet, "/api/v1/admin/audit?type=bogus", nil, admin); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d, want 400", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/admin/audit", nil, viewer); rec.Code != http.StatusForbidden {
		t.Errorf("viewer audit status = %d, want 403", rec.Code)
	}
}

func TestAuditDisabled(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(auth.ModeNone), &fakeRows{})
	s.handler.SetAuditLogger(nil)
	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/audit", nil, "")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != "AUDIT_DISABLED" {
		t.Errorf("audit disabled = %d %+v", rec.Code, env.Error)
	}
}

func TestLoginDisabledInNoneMode(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(auth.ModeNone), &fakeRows{})
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{"username":"a","password":"b"}`), "")
	if rec.Code != http.StatusBadRequest || env.Error.Code != "AUTH_DISABLED" {
		t.Errorf("login = %d %+v", rec.Code, env.Error)
	}
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(auth.ModeNone)
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 100
	cfg.Security.RateLimitWindow = time.Minute
	cfg.Security.LoginRateLimit = 1
	s := newTestServer(t, cfg, &fakeRows{})

	body := []byte(`{"username":"a","password":"b"}`)
	s.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("second login = %d %+v", rec.Code, env.Error)
	}
}

func TestAdminSync(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(auth.ModeNone), &fakeRows{})

	rec, env := s.do(t, http.MethodPost, "/api/v1/admin/sync/instagram", nil, "")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != "SYNC_DISABLED" {
		t.Fatalf("sync without syncer = %d %+v", rec.Code, env.Error)
	}

	syncer := &fakeSyncer{err: syncpkg.ErrSyncInProgress}
	s.handler.SetSyncer(syncer)
	rec, env = s.do(t, http.MethodPost, "/api/v1/admin/sync/instagram", nil, "")
	if rec.Code != http.StatusConflict || env.Error.Code != "SYNC_IN_PROGRESS" {
		t.Fatalf("concurrent sync = %d %+v", rec.Code, env.Error)
	}

	syncer.mu.Lock()
	syncer.err = nil
	syncer.result = &syncpkg.SyncResult{RunID: "run-1", Posts: 4, DegradedMetrics: []string{"saved"}}
	syncer.mu.Unlock()

	rec, env = s.do(t, http.MethodPost, "/api/v1/admin/sync/instagram", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var status struct {
		RunID           string   `json:"run_id"`
		Posts           int      `json:"posts"`
		DegradedMetrics []string `json:"degraded_metrics"`
	}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.RunID != "run-1" || status.Posts != 4 || len(status.DegradedMetrics) != 1 {
		t.Errorf("sync status = %+v", status)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/admin/sync/instagram", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("sync status GET = %d", rec.Code)
	}
}

func TestAdminClearCache(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{rows: map[string]analytics.Rows{config.SourceRequests: requestRows()}}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
	s.do(t, http.MethodGet, "/api/v1/dashboard/distribution?field=city", nil, "")

	rec, env := s.do(t, http.MethodDelete, "/api/v1/admin/cache?prefix=dashboard.kpis", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var cleared struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(env.Data, &cleared); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cleared.Removed != 1 {
		t.Errorf("removed = %d, want 1", cleared.Removed)
	}

	_, env = s.do(t, http.MethodGet, "/api/v1/dashboard/kpis", nil, "")
	if env.Metadata.Cached {
		t.Error("kpis should be recomputed after invalidation")
	}
	_, env = s.do(t, http.MethodGet, "/api/v1/dashboard/distribution?field=city", nil, "")
	if !env.Metadata.Cached {
		t.Error("distribution should still be cached")
	}

	s.do(t, http.MethodDelete, "/api/v1/admin/cache", nil, "")
	if n := s.cache.GetStats().TotalKeys; n != 0 {
		t.Errorf("entries after clear = %d", n)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{}
	s := newTestServer(t, testConfig(auth.ModeNone), rows)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/health/ready", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}

	rows.mu.Lock()
	rows.pingErr = &syncpkg.SourceError{Kind: syncpkg.KindPermissionDenied, Source: "requests", Message: "not shared"}
	rows.mu.Unlock()

	rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want 503", rec.Code)
	}
	var ready struct {
		Ready        bool              `json:"ready"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(env.Data, &ready); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ready.Ready || ready.Dependencies["sheets"] != "not shared" {
		t.Errorf("readiness = %+v", ready)
	}
}

func TestHealthReportsDegradedSync(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(auth.ModeNone), &fakeRows{})
	s.handler.SetSyncer(&fakeSyncer{
		result: &syncpkg.SyncResult{RunID: "run-2"},
		err:    &syncpkg.SourceError{Kind: syncpkg.KindUpstream, Source: "Instagram", Message: "graph down"},
	})

	_, env := s.do(t, http.MethodGet, "/api/v1/health", nil, "")
	var health struct {
		Status   string `json:"status"`
		LastSync struct {
			Error string `json:"error"`
		} `json:"last_sync"`
	}
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "degraded" || health.LastSync.Error != "graph down" {
		t.Errorf("health = %+v", health)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig(auth.ModeNone), &fakeRows{})
	rec, env := s.do(t, http.MethodGet, "/api/v1/nope", nil, "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
