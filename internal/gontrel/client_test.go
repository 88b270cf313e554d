package gontrel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gontrel-admin/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key")
	c.backoff = time.Millisecond
	return c, srv
}

func TestFetchPageRestaurants(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/restaurants/pending" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Gontrel-Api-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "burger" {
			t.Errorf("q = %q, want burger", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "rst_1", "name": "Blue Door", "address": map[string]any{"content": "1 Road", "status": "pending"}},
			},
			"total": 14,
		})
	}))

	page, err := c.FetchPage(context.Background(), models.TablePendingRestaurants, models.PageQuery{
		Page: 1, PageSize: 20, SearchTerm: "burger",
	})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Total != 14 || len(page.Items) != 1 {
		t.Fatalf("page = total %d, %d items; want 14, 1", page.Total, len(page.Items))
	}
	r := page.Items[0].Restaurant
	if r == nil || r.ID != "rst_1" || r.Address.Status != models.StatusPending {
		t.Errorf("decoded restaurant = %+v", page.Items[0])
	}
}

func TestFetchPageVideos(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/videos/pending" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "vid_1", "restaurant_id": "rst_1", "video_url": "https://cdn/v.mp4", "status": "pending"},
			},
			"total": 1,
		})
	}))

	page, err := c.FetchPage(context.Background(), models.TablePendingVideos, models.PageQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	v := page.Items[0].Video
	if v == nil || v.ID != "vid_1" || v.RestaurantID != "rst_1" {
		t.Errorf("decoded video = %+v", page.Items[0])
	}
}

func TestFetchPageEmptyResultIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "total": 0})
	}))

	page, err := c.FetchPage(context.Background(), models.TablePendingRestaurants, models.PageQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("page = %+v, want empty", page)
	}
}

func TestFetchPageRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "total": 5})
	}))

	page, err := c.FetchPage(context.Background(), models.TablePendingRestaurants, models.PageQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("FetchPage after retries: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if calls.Load() != 3 {
		t.Errorf("server saw %d calls, want 3", calls.Load())
	}
}

func TestFetchPageGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.FetchPage(context.Background(), models.TablePendingRestaurants, models.PageQuery{Page: 1, PageSize: 20})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != int32(c.maxRetries)+1 {
		t.Errorf("server saw %d calls, want %d", got, c.maxRetries+1)
	}
}

func TestUpdateStatusPostsBodyAndIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/admin/v1/status" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var u models.StatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if u.EntityID != "rst_1" || u.Field != models.FieldAddress || u.NewStatus != models.StatusApproved {
			t.Errorf("update = %+v", u)
		}
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := c.UpdateStatus(context.Background(), models.StatusUpdate{
		EntityID: "rst_1", Field: models.FieldAddress, NewStatus: models.StatusApproved,
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("mutation was retried: %d calls", calls.Load())
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := c.UpdateStatus(context.Background(), models.StatusUpdate{
		EntityID: "rst_404", Field: models.FieldMenu, NewStatus: models.StatusRejected,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusSurfacesPlatformRejection(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "restaurant already live"})
	}))

	err := c.UpdateStatus(context.Background(), models.StatusUpdate{
		EntityID: "rst_1", Field: models.FieldMenu, NewStatus: models.StatusApproved,
	})
	if err == nil || err.Error() != "platform rejected request: restaurant already live" {
		t.Errorf("err = %v, want the platform's message", err)
	}
}

func TestFetchCount(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/restaurants/active/count" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"total": 230})
	}))

	total, err := c.FetchCount(context.Background(), models.TableActiveRestaurants, "")
	if err != nil {
		t.Fatalf("FetchCount: %v", err)
	}
	if total != 230 {
		t.Errorf("total = %d, want 230", total)
	}
}
