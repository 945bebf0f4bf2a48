package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api/http/middleware/ratelimit"
	"lifehub/internal/app/server/api/http/middleware/requestid"
	"lifehub/internal/app/server/config"
	"lifehub/internal/infrastructure/metrics"
	"lifehub/internal/infrastructure/supabase"
)

// fakeProvider is an in-memory GoTrue + PostgREST. It does not enforce
// row-level security, so isolation in these tests comes from the server.
type fakeProvider struct {
	mu         sync.Mutex
	users      map[string]string // token -> user id
	tables     map[string][]map[string]any
	seq        int
	storeCalls int
	otpSent    []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users:  map[string]string{"token-a": "user-a", "token-b": "user-b"},
		tables: map[string][]map[string]any{},
	}
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/v1/user":
		id, ok := f.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":%q,"email":"%s@example.com"}`, id, id)
	case r.URL.Path == "/auth/v1/otp":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.otpSent = append(f.otpSent, fmt.Sprint(body["email"]))
		_, _ = w.Write([]byte(`{}`))
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		f.storeCalls++
		f.rest(w, r, strings.TrimPrefix(r.URL.Path, "/rest/v1/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeProvider) rest(w http.ResponseWriter, r *http.Request, table string) {
	filters := map[string]string{}
	for k, v := range r.URL.Query() {
		if k == "select" || k == "order" || k == "on_conflict" {
			continue
		}
		filters[k] = strings.TrimPrefix(v[0], "eq.")
	}
	matches := func(row map[string]any) bool {
		for k, v := range filters {
			if fmt.Sprint(row[k]) != v {
				return false
			}
		}
		return true
	}

	out := []map[string]any{}
	switch r.Method {
	case http.MethodGet:
		for _, row := range f.tables[table] {
			if matches(row) {
				out = append(out, row)
			}
		}
	case http.MethodPost:
		var row map[string]any
		_ = json.NewDecoder(r.Body).Decode(&row)
		if cols := r.URL.Query().Get("on_conflict"); cols != "" {
			for _, existing := range f.tables[table] {
				same := true
				for _, c := range strings.Split(cols, ",") {
					same = same && fmt.Sprint(existing[c]) == fmt.Sprint(row[c])
				}
				if same {
					for k, v := range row {
						existing[k] = v
					}
					out = append(out, existing)
				}
			}
		}
		if len(out) == 0 {
			f.seq++
			row["id"] = fmt.Sprintf("r%d", f.seq)
			row["created_at"] = time.Now().UTC().Format(time.RFC3339)
			f.tables[table] = append(f.tables[table], row)
			out = append(out, row)
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		for _, row := range f.tables[table] {
			if matches(row) {
				for k, v := range patch {
					row[k] = v
				}
				out = append(out, row)
			}
		}
	case http.MethodDelete:
		kept := f.tables[table][:0]
		for _, row := range f.tables[table] {
			if !matches(row) {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeProvider) rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta struct {
		Timestamp string `json:"timestamp"`
		RequestID string `json:"requestId"`
	} `json:"meta"`
}

type testServer struct {
	t        *testing.T
	mux      http.Handler
	provider *fakeProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLimitedServer(t, 1000, false)
}

func newLimitedServer(t *testing.T, authMax int, trustProxy bool) *testServer {
	t.Helper()

	provider := newFakeProvider()
	upstream := httptest.NewServer(provider)
	t.Cleanup(upstream.Close)

	anon, err := supabase.New(upstream.URL, "anon-key", supabase.WithHTTPClient(upstream.Client()))
	require.NoError(t, err)
	admin, err := supabase.New(upstream.URL, "service-key", supabase.WithHTTPClient(upstream.Client()))
	require.NoError(t, err)

	cfg := &config.Config{Env: config.EnvLocal, APIVersion: "v1"}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Server.TrustProxy = trustProxy

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	mux := New(Dependencies{
		Config:      cfg,
		Log:         log,
		Anon:        anon,
		Admin:       admin,
		Metrics:     metrics.New(),
		Limiter:     ratelimit.New("general", 1000, time.Minute, log),
		AuthLimiter: ratelimit.New("auth", authMax, 15*time.Minute, log),
	})

	return &testServer{t: t, mux: mux, provider: provider}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var e envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	}
	return rec, e
}

func items(e envelope) []map[string]any {
	raw, _ := e.Data["items"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		out = append(out, it.(map[string]any))
	}
	return out
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/tasks", "/api/v1/goals", "/api/v1/health", "/api/v1/auth/session"} {
		rec, e := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "UNAUTHORIZED", e.Error.Code, path)
	}

	rec, e := s.do(http.MethodGet, "/api/v1/tasks", "stolen", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", e.Error.Message)

	assert.Zero(t, s.provider.storeCalls)
}

func TestAPI_TaskRoundTripAndIsolation(t *testing.T) {
	s := newTestServer(t)

	rec, e := s.do(http.MethodPost, "/api/v1/tasks", "token-a", map[string]any{
		"title":   "write report",
		"user_id": "user-b",
		"_uid":    "user-b",
		"_id":     "forged",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := e.Data["item"].(map[string]any)
	id := item["_id"].(string)
	assert.Equal(t, "user-a", item["_uid"])
	assert.Equal(t, "user-a", item["user_id"])
	assert.Equal(t, item["id"], item["_id"])

	_, e = s.do(http.MethodGet, "/api/v1/tasks", "token-a", nil)
	require.Len(t, items(e), 1)
	assert.Equal(t, id, items(e)[0]["_id"])

	// другой пользователь не видит и не может изменить чужую задачу
	_, e = s.do(http.MethodGet, "/api/v1/tasks", "token-b", nil)
	assert.Empty(t, items(e))

	rec, e = s.do(http.MethodPut, "/api/v1/tasks/"+id, "token-b", map[string]any{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", e.Error.Code)
	assert.Equal(t, "Task not found", e.Error.Message)

	rec, _ = s.do(http.MethodDelete, "/api/v1/tasks/"+id, "token-b", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.provider.rows("tasks"), 1)

	rec, e = s.do(http.MethodPut, "/api/v1/tasks/"+id, "token-a", map[string]any{"title": "final report", "user_id": "user-b"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "final report", e.Data["item"].(map[string]any)["title"])
	assert.Equal(t, "user-a", s.provider.rows("tasks")[0]["user_id"])

	rec, e = s.do(http.MethodDelete, "/api/v1/tasks/"+id, "token-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", e.Data["message"])

	_, e = s.do(http.MethodGet, "/api/v1/tasks", "token-a", nil)
	assert.Empty(t, items(e))
}

func TestAPI_StringifiedBooleans(t *testing.T) {
	s := newTestServer(t)

	for _, completed := range []any{true, "true"} {
		rec, e := s.do(http.MethodPost, "/api/v1/habits/logs", "token-a", map[string]any{
			"habit_id":  "h1",
			"date":      "2024-06-01",
			"completed": completed,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "true", e.Data["item"].(map[string]any)["completed"])
	}

	for _, row := range s.provider.rows("habit_logs") {
		assert.Equal(t, true, row["completed"])
	}

	_, e := s.do(http.MethodGet, "/api/v1/habits/logs", "token-a", nil)
	for _, it := range items(e) {
		assert.Equal(t, "true", it["completed"])
	}
}

func TestAPI_HealthDataUpsertsByDate(t *testing.T) {
	s := newTestServer(t)

	for _, sleep := range []float64{7, 8} {
		rec, _ := s.do(http.MethodPost, "/api/v1/health", "token-a", map[string]any{"date": "2024-06-01", "sleep_hours": sleep})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rows := s.provider.rows("health_tracking")
	require.Len(t, rows, 1)
	assert.Equal(t, float64(8), rows[0]["sleep_hours"])

	_, e := s.do(http.MethodGet, "/api/v1/health?date=2024-06-01", "token-a", nil)
	assert.Len(t, items(e), 1)
	_, e = s.do(http.MethodGet, "/api/v1/health?date=2024-06-02", "token-a", nil)
	assert.Empty(t, items(e))
}

func TestAPI_SendOTP(t *testing.T) {
	s := newTestServer(t)

	rec, e := s.do(http.MethodPost, "/api/v1/auth/send-otp", "", map[string]any{"email": "ann@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, e.Success)
	assert.Equal(t, "OTP sent to your email", e.Data["message"])
	assert.Equal(t, []string{"ann@example.com"}, s.provider.otpSent)

	rec, e = s.do(http.MethodPost, "/api/v1/auth/send-otp", "", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", e.Error.Code)
}

func TestAPI_Envelope(t *testing.T) {
	s := newTestServer(t)

	rec, e := s.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", e.Error.Code)
	assert.Equal(t, "Endpoint not found", e.Error.Message)
	assert.False(t, e.Success)

	rec, e = s.do(http.MethodGet, "/api/v1/goals", "token-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(requestid.Header)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, e.Meta.RequestID)
	assert.NotEmpty(t, e.Meta.Timestamp)
	assert.NotContains(t, rec.Body.String(), "$schema")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAPI_Liveness(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAPI_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/goals", "token-a", nil)

	rec, _ := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lifehub_store_request_duration_seconds_count{op="list",table="goals"} 1`)
}

func (s *testServer) sendOTPVia(forwardedFor string) int {
	s.t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-otp", strings.NewReader(`{"email":"ann@example.com"}`))
	req.RemoteAddr = "203.0.113.7:41000"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec.Code
}

func TestAPI_AuthLimitIgnoresForwardedHeaders(t *testing.T) {
	s := newLimitedServer(t, 5, false)

	var codes []int
	for i := 0; i < 7; i++ {
		codes = append(codes, s.sendOTPVia(fmt.Sprintf("198.51.100.%d", i+1)))
	}

	assert.Equal(t, []int{200, 200, 200, 200, 200, 429, 429}, codes)
	assert.Len(t, s.provider.otpSent, 5)
}

func TestAPI_AuthLimitTrustedProxy(t *testing.T) {
	s := newLimitedServer(t, 1, true)

	assert.Equal(t, http.StatusOK, s.sendOTPVia("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, s.sendOTPVia("198.51.100.1"))
	assert.Equal(t, http.StatusOK, s.sendOTPVia("198.51.100.2"))
}

func TestAPI_NestedResources(t *testing.T) {
	s := newTestServer(t)

	rec, e := s.do(http.MethodPost, "/api/v1/goals/milestones", "token-a", map[string]any{
		"goal_id":   "g1",
		"title":     "draft",
		"order":     2,
		"completed": "true",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	milestone := e.Data["item"].(map[string]any)
	id := milestone["_id"].(string)
	assert.Equal(t, float64(2), milestone["order"])
	assert.Equal(t, true, milestone["completed"])

	rec, e = s.do(http.MethodPut, "/api/v1/goals/milestones/"+id, "token-b", map[string]any{"title": "stolen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Milestone not found", e.Error.Message)

	rec, e = s.do(http.MethodPut, "/api/v1/goals/milestones/"+id, "token-a", map[string]any{"order": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(3), e.Data["item"].(map[string]any)["order"])
	assert.Equal(t, float64(3), s.provider.rows("milestones")[0]["order_index"])

	rec, e = s.do(http.MethodPost, "/api/v1/habits/logs", "token-a", map[string]any{"habit_id": "h1", "date": "2024-06-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	logID := e.Data["item"].(map[string]any)["_id"].(string)
	assert.Equal(t, "false", e.Data["item"].(map[string]any)["completed"])

	rec, e = s.do(http.MethodPut, "/api/v1/habits/logs/"+logID, "token-a", map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "true", e.Data["item"].(map[string]any)["completed"])

	rec, e = s.do(http.MethodDelete, "/api/v1/habits/logs/"+logID, "token-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Habit log deleted successfully", e.Data["message"])
	assert.Empty(t, s.provider.rows("habit_logs"))

	rec, e = s.do(http.MethodDelete, "/api/v1/goals/milestones/"+id, "token-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Milestone deleted successfully", e.Data["message"])
}
