package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/fleetdesk/internal/cache"
	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
	"github.com/dharmasatrya/fleetdesk/internal/service"
	"github.com/dharmasatrya/fleetdesk/internal/store"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[models.Variant][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[models.Variant][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, v models.Variant) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[v]
	return b, ok
}

func (c *memoryCache) Set(ctx context.Context, v models.Variant, view []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[v] = view
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, v models.Variant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, v)
	return nil
}

func (c *memoryCache) Close() error { return nil }

// gatedCache blocks its first Set until release is closed.
type gatedCache struct {
	*memoryCache
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *gatedCache) Set(ctx context.Context, v models.Variant, view []byte) error {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.entered)
		<-c.release
	}
	return c.memoryCache.Set(ctx, v, view)
}

type fakeAnswerer struct {
	answer string
	err    error
}

func (f fakeAnswerer) Answer(ctx context.Context, q string) (string, error) {
	return f.answer, f.err
}

func newServer(t *testing.T, answerer Answerer) (*echo.Echo, *memoryCache) {
	t.Helper()
	c := newMemoryCache()
	return newServerWithCache(t, answerer, c), c
}

func newServerWithCache(t *testing.T, answerer Answerer, c cache.Cache) *echo.Echo {
	t.Helper()
	dir := t.TempDir()

	planes := service.NewFleet(
		store.New(store.NewCSVFile(filepath.Join(dir, "data.csv"), schema.Planes), schema.Planes),
		service.WithCache(c),
	)
	legs := service.NewFleet(
		store.New(store.NewCSVFile(filepath.Join(dir, "flat_data.csv"), schema.Legs), schema.Legs),
		service.WithCache(c),
	)

	e := echo.New()
	Register(e, Handlers{
		Planes: NewFleetHandler(planes),
		Legs:   NewFleetHandler(legs),
		Chat:   NewChatHandler(answerer),
	})
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const planeBody = `{"id": 1, "name": "Garuda", "model": "A320", "capacity": "180", "flight_dates": ["2025-06-01"]}`

func TestPlaneLifecycleOnLegacyRoutes(t *testing.T) {
	e, _ := newServer(t, nil)

	rec := do(e, http.MethodPost, "/add_plane", planeBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.PlaneRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 180, created.Capacity)
	assert.Equal(t, []string{"2025-06-01"}, created.FlightDates)

	rec = do(e, http.MethodPost, "/add_plane", planeBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_id", decodeError(t, rec).Error)

	rec = do(e, http.MethodPost, "/add_flight/1/2025-07-10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Flight date added successfully")

	rec = do(e, http.MethodPost, "/add_flight/1/2025-07-10", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_date", decodeError(t, rec).Error)

	rec = do(e, http.MethodPost, "/delete_flight/1/2025-06-01", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/delete_flight/1/2025-06-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/planes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var planes []models.PlaneRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &planes))
	require.Len(t, planes, 1)
	assert.Equal(t, []string{"2025-07-10"}, planes[0].FlightDates)

	rec = do(e, http.MethodDelete, "/delete_plane/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Plane with ID 1 deleted.")

	rec = do(e, http.MethodDelete, "/delete_plane/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddPlaneValidation(t *testing.T) {
	e, _ := newServer(t, nil)

	rec := do(e, http.MethodPost, "/api/v1/planes", `{"id": 1, "name": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "missing_fields", resp.Error)
	assert.Equal(t, []string{"model", "capacity", "flight_dates"}, resp.Fields)

	rec = do(e, http.MethodPost, "/api/v1/planes", `{"id": "abc", "name": "x", "model": "m", "capacity": 1, "flight_dates": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", decodeError(t, rec).Error)

	rec = do(e, http.MethodPost, "/api/v1/planes", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
}

func TestNonIntegerPathID(t *testing.T) {
	e, _ := newServer(t, nil)

	rec := do(e, http.MethodDelete, "/api/v1/planes/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", decodeError(t, rec).Error)
}

func TestListIsServedFromCacheUntilWrite(t *testing.T) {
	e, c := newServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/planes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/planes", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/v1/planes", planeBody).Code)
	_, cached := c.Get(context.Background(), models.VariantPlanes)
	assert.False(t, cached)

	rec = do(e, http.MethodGet, "/api/v1/planes", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"Garuda"`)
}

func TestListFillDoesNotOutliveConcurrentWrite(t *testing.T) {
	c := &gatedCache{
		memoryCache: newMemoryCache(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	e := newServerWithCache(t, nil, c)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		do(e, http.MethodGet, "/api/v1/planes", "")
	}()
	<-c.entered

	go func() {
		defer wg.Done()
		rec := do(e, http.MethodPost, "/api/v1/planes", planeBody)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}()
	time.Sleep(20 * time.Millisecond)
	close(c.release)
	wg.Wait()

	rec := do(e, http.MethodGet, "/api/v1/planes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Garuda"`)
}

func TestLegRoutes(t *testing.T) {
	e, _ := newServer(t, nil)

	leg := `{"id": 5, "name": "ANA", "model": "B787", "capacity": 250, "date": "2025-06-01", "from": "HND", "to": "CGK"}`
	rec := do(e, http.MethodPost, "/api/v1/legs", leg)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Unknown"`)

	rec = do(e, http.MethodPost, "/api/v1/legs", leg)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_flight", decodeError(t, rec).Error)

	rec = do(e, http.MethodPost, "/api/v1/legs/5/flights", `{"date": "2025-06-02", "from": "CGK", "to": "HND", "status": "On Time"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/legs/5/flights", `{"date": "2025-06-02", "from": "CGK", "to": "HND"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/legs/9/flights", `{"date": "2025-06-02", "from": "CGK", "to": "HND"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/legs/5/flights", `{"date": "2025-06-03"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"from", "to"}, decodeError(t, rec).Fields)

	rec = do(e, http.MethodGet, "/api/v1/legs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []models.PlaneRoutes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "ANA", groups[0].Name)
	require.Len(t, groups[0].Routes, 2)
	assert.Equal(t, "On Time", groups[0].Routes[1].Status)

	rec = do(e, http.MethodDelete, "/api/v1/legs/5/flights/2025-06-02?from=XXX", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/legs/5/flights/2025-06-02?from=CGK&to=HND", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/legs/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/legs", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestChat(t *testing.T) {
	e, _ := newServer(t, fakeAnswerer{answer: "Flight 1 departs at noon."})

	rec := do(e, http.MethodPost, "/api/v1/chat", `{"message": "when?"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response": "Flight 1 departs at noon."}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/chat", `{"message": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	failing := models.NewDownstream("failed to generate answer", errors.New("googleapi: 429 quota exceeded for key AIza-secret"))
	e, _ = newServer(t, fakeAnswerer{err: failing})
	rec = do(e, http.MethodPost, "/api/v1/chat", `{"message": "when?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"response": "Error: failed to generate answer"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "quota")

	e, _ = newServer(t, fakeAnswerer{err: errors.New("dial tcp 10.0.0.7:443: connection refused")})
	rec = do(e, http.MethodPost, "/api/v1/chat", `{"message": "when?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"response": "Error: failed to answer question"}`, rec.Body.String())
}

func TestChatWithoutAnswerer(t *testing.T) {
	e, _ := newServer(t, nil)

	rec := do(e, http.MethodPost, "/api/v1/chat", `{"message": "hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: chat is not configured")
}

func TestHomeAndHealth(t *testing.T) {
	e, _ := newServer(t, nil)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/about", "").Code)
	assert.JSONEq(t, `{"status":"ok"}`, do(e, http.MethodGet, "/health", "").Body.String())
}
