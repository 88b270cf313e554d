// Package testutil provides test fixtures and a scriptable fake of the
// Gontrel platform API.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"gontrel-admin/internal/models"
)

// FakePlatform is an in-memory stand-in for the remote platform API.
// Pages and counts are scripted per kind; individual status updates can be
// made to fail by change key.
type FakePlatform struct {
	mu sync.Mutex

	Pages        map[models.TableKind]models.Page
	CountsByKind map[models.TableKind]int

	FetchErr    error            // returned by FetchPage when set
	CountErr    error            // returned by FetchCount when set
	FailUpdates map[string]error // change key -> error

	// OnUpdate, when set, runs at the start of every UpdateStatus call.
	// Tests use it to interleave workspace activity with an in-flight save.
	OnUpdate func(models.StatusUpdate)

	Updates    []models.StatusUpdate
	FetchCalls int
	CountCalls int
}

// NewFakePlatform creates an empty fake.
func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		Pages:        make(map[models.TableKind]models.Page),
		CountsByKind: make(map[models.TableKind]int),
		FailUpdates:  make(map[string]error),
	}
}

// FetchPage returns the scripted page for the kind.
func (f *FakePlatform) FetchPage(_ context.Context, kind models.TableKind, _ models.PageQuery) (models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls++
	if f.FetchErr != nil {
		return models.Page{}, f.FetchErr
	}
	return f.Pages[kind], nil
}

// UpdateStatus records the update, or fails if its change key is scripted
// to fail.
func (f *FakePlatform) UpdateStatus(_ context.Context, u models.StatusUpdate) error {
	if f.OnUpdate != nil {
		f.OnUpdate(u)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailUpdates[u.ChangeKey()]; ok {
		return err
	}
	f.Updates = append(f.Updates, u)
	return nil
}

// FetchCount returns the scripted total for the kind.
func (f *FakePlatform) FetchCount(_ context.Context, kind models.TableKind, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountCalls++
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	return f.CountsByKind[kind], nil
}

// AppliedKeys returns the change keys of all recorded updates, in call order.
func (f *FakePlatform) AppliedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.Updates))
	for _, u := range f.Updates {
		keys = append(keys, u.ChangeKey())
	}
	return keys
}

// PendingRestaurant builds a restaurant with all fields and posts pending.
func PendingRestaurant(t *testing.T, id, name string, postIDs ...string) *models.Restaurant {
	t.Helper()

	pending := func(content string) models.ApprovableField {
		return models.ApprovableField{Content: content, Status: models.StatusPending}
	}
	r := &models.Restaurant{
		ID:          id,
		Name:        name,
		Address:     pending("1 " + name + " St"),
		Menu:        pending("https://menus.example.com/" + id),
		Reservation: pending("https://book.example.com/" + id),
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, pid := range postIDs {
		r.Posts = append(r.Posts, models.VideoPost{
			ID:           pid,
			RestaurantID: id,
			VideoURL:     "https://cdn.example.com/" + pid + ".mp4",
			Status:       models.StatusPending,
		})
	}
	return r
}

// PendingVideo builds a standalone pending video post row.
func PendingVideo(t *testing.T, id, restaurantID string) *models.VideoPost {
	t.Helper()
	return &models.VideoPost{
		ID:           id,
		RestaurantID: restaurantID,
		VideoURL:     "https://cdn.example.com/" + id + ".mp4",
		Status:       models.StatusPending,
		SubmittedAt:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}
}

// RestaurantPage wraps restaurants as a fetched page.
func RestaurantPage(rs ...*models.Restaurant) models.Page {
	page := models.Page{Total: len(rs)}
	for _, r := range rs {
		page.Items = append(page.Items, models.RestaurantEntity(r))
	}
	return page
}

// VideoPage wraps video posts as a fetched page.
func VideoPage(vs ...*models.VideoPost) models.Page {
	page := models.Page{Total: len(vs)}
	for _, v := range vs {
		page.Items = append(page.Items, models.VideoEntity(v))
	}
	return page
}
