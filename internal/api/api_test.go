package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(name string) survey.Draft {
	return survey.Draft{
		Code: "A1", Name: name, Category: "General", Status: survey.StatusDraft,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Respondents: "10", Cost: 4000, Currency: survey.CurrencyRupee,
	}
}

// ── HTTPService ─────────────────────────────────────────────────────────────

func newBackend(t *testing.T, handler http.HandlerFunc) *HTTPService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	svc, err := NewHTTPService(srv.URL+"/", 2*time.Second, nil)
	require.NoError(t, err)
	return svc
}

func TestHTTPService_ListSurveys(t *testing.T) {
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/surveys", r.URL.Path)
		_, _ = w.Write([]byte(`[{"_id":"a","name":"One","status":"Active","startDate":"2025-03-04T00:00:00.000Z","endDate":"2025-04-01","cost":4000,"currency":"$"}]`))
	})

	got, err := svc.ListSurveys(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 4000.0, got[0].Cost)
}

func TestHTTPService_CreateSendsDraft(t *testing.T) {
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "X", body["name"])
		assert.Equal(t, 4000.0, body["cost"])
		assert.NotContains(t, body, "_id")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"new-1","name":"X","status":"Draft","currency":"₹"}`))
	})

	got, err := svc.CreateSurvey(context.Background(), draft("X"))
	require.NoError(t, err)
	assert.Equal(t, "new-1", got.ID)
}

func TestHTTPService_UpdateAndDeletePaths(t *testing.T) {
	var seen []string
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			_, _ = w.Write([]byte(`{"message":"deleted"}`))
			return
		}
		_, _ = w.Write([]byte(`{"_id":"s1","name":"Y"}`))
	})

	_, err := svc.UpdateSurvey(context.Background(), "s1", draft("Y"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSurvey(context.Background(), "s1"))
	assert.Equal(t, []string{"PUT /api/surveys/s1", "DELETE /api/surveys/s1"}, seen)
}

func TestHTTPService_StatusError(t *testing.T) {
	svc := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Survey not found"}`))
	})

	err := svc.DeleteSurvey(context.Background(), "gone")
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.Code)
	assert.Equal(t, "Survey not found", serr.Message)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPService_Overview(t *testing.T) {
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboardoverview", r.URL.Path)
		_, _ = w.Write([]byte(`{"activeUsers":1200,"totalRoutines":300,"avgRoutinesPerUser":2.5,"avgProductsPerRoutine":4.1,"genderDistribution":{"male":10,"female":20,"unknown":1}}`))
	})

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, o.ActiveUsers)
	assert.Equal(t, 20, o.Genders()[1].Value)
}

func TestNewHTTPService_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPService("localhost:8000", time.Second, nil)
	assert.Error(t, err)
}

// ── FileService ─────────────────────────────────────────────────────────────

func TestFileService_CRUD(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "surveys.json")
	svc, err := NewFileService(path, nil)
	require.NoError(t, err)

	list, err := svc.ListSurveys(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := svc.CreateSurvey(ctx, draft("X"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	d := draft("X renamed")
	updated, err := svc.UpdateSurvey(ctx, created.ID, d)
	require.NoError(t, err)
	assert.Equal(t, "X renamed", updated.Name)

	list, err = svc.ListSurveys(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.True(t, list[0].StartDate.Equal(d.StartDate))

	require.NoError(t, svc.DeleteSurvey(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteSurvey(ctx, created.ID), ErrNotFound)
	_, err = svc.UpdateSurvey(ctx, "nope", d)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileService_ReadsExistingFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surveys.json")
	raw := `{"surveys":[{"_id":"s1","name":"One","startDate":"2025-01-02","endDate":"2025-01-03"}],
		"overview":{"activeUsers":7}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	svc, err := NewFileService(path, nil)
	require.NoError(t, err)
	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, o.ActiveUsers)
	list, err := svc.ListSurveys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "One", list[0].Name)
}

func TestFileService_CancelledContext(t *testing.T) {
	svc, err := NewFileService(filepath.Join(t.TempDir(), "s.json"), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.ListSurveys(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

// ── CachedService ───────────────────────────────────────────────────────────

type countingService struct {
	FileService
	lists, overviews int
	failList         error
}

func (c *countingService) ListSurveys(ctx context.Context) ([]survey.Survey, error) {
	c.lists++
	if c.failList != nil {
		return nil, c.failList
	}
	return c.FileService.ListSurveys(ctx)
}

func (c *countingService) Overview(ctx context.Context) (survey.Overview, error) {
	c.overviews++
	return c.FileService.Overview(ctx)
}

func newCounting(t *testing.T) *countingService {
	t.Helper()
	fs, err := NewFileService(filepath.Join(t.TempDir(), "s.json"), nil)
	require.NoError(t, err)
	return &countingService{FileService: FileService{path: fs.path, log: fs.log}}
}

func TestCachedService_CachesReadsUntilWrite(t *testing.T) {
	ctx := context.Background()
	inner := newCounting(t)
	c := NewCachedService(inner, time.Minute)

	_, _ = c.ListSurveys(ctx)
	_, _ = c.ListSurveys(ctx)
	_, _ = c.Overview(ctx)
	_, _ = c.Overview(ctx)
	assert.Equal(t, 1, inner.lists)
	assert.Equal(t, 1, inner.overviews)

	_, err := c.CreateSurvey(ctx, draft("X"))
	require.NoError(t, err)
	list, err := c.ListSurveys(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, inner.lists)
}

func TestCachedService_Expiry(t *testing.T) {
	ctx := context.Background()
	inner := newCounting(t)
	c := NewCachedService(inner, time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, _ = c.ListSurveys(ctx)
	now = now.Add(2 * time.Second)
	_, _ = c.ListSurveys(ctx)
	assert.Equal(t, 2, inner.lists)
}

func TestCachedService_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := newCounting(t)
	inner.failList = errors.New("down")
	c := NewCachedService(inner, time.Minute)

	_, err := c.ListSurveys(ctx)
	assert.Error(t, err)
	inner.failList = nil
	_, err = c.ListSurveys(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.lists)
}

func TestCachedService_DropCacheSeesExternalEdit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "surveys.json")
	fs, err := NewFileService(path, nil)
	require.NoError(t, err)
	c := NewCachedService(fs, time.Hour)

	list, err := c.ListSurveys(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	// Another process rewrites the file.
	raw := `{"surveys":[{"_id":"s1","name":"One","startDate":"2025-01-02","endDate":"2025-01-03"}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	list, err = c.ListSurveys(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "served from cache within the TTL")

	DropCache(c)
	list, err = c.ListSurveys(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "One", list[0].Name)
}

func TestCachedService_InvalidateDuringReadIsNotRecached(t *testing.T) {
	c := NewCachedService(newCounting(t), time.Hour)

	_, gen, ok := c.get(keySurveys)
	require.False(t, ok)
	c.Invalidate()
	c.set(keySurveys, []survey.Survey{{ID: "stale"}}, gen)

	_, _, ok = c.get(keySurveys)
	assert.False(t, ok)
}

func TestDropCache_UncachedServiceIsNoop(t *testing.T) {
	fs, err := NewFileService(filepath.Join(t.TempDir(), "s.json"), nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { DropCache(fs) })
}
