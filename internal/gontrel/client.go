// Package gontrel is the HTTP client for the remote Gontrel platform API,
// the system of record for restaurants, video posts, and their statuses.
package gontrel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gontrel-admin/internal/metrics"
	"gontrel-admin/internal/models"
)

var (
	ErrNotFound    = errors.New("entity not found on platform")
	ErrUnavailable = errors.New("platform API unavailable")
)

// kindPaths maps queue kinds onto platform API resource paths.
var kindPaths = map[models.TableKind]string{
	models.TablePendingRestaurants:   "restaurants/pending",
	models.TablePendingVideos:        "videos/pending",
	models.TableSubmittedRestaurants: "restaurants/submitted",
	models.TableSubmittedVideos:      "videos/submitted",
	models.TableActiveRestaurants:    "restaurants/active",
}

// Client talks to the platform's admin API. Page and count fetches are
// retried with backoff on transient failures; status mutations are never
// retried automatically (the operator retries through the ledger).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

type pageEnvelope struct {
	Items json.RawMessage `json:"items"`
	Total int             `json:"total"`
}

type countEnvelope struct {
	Total int `json:"total"`
}

// FetchPage retrieves one page of queue rows.
func (c *Client) FetchPage(ctx context.Context, kind models.TableKind, q models.PageQuery) (models.Page, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return models.Page{}, fmt.Errorf("unknown table kind %q", kind)
	}

	start := time.Now()
	defer func() { metrics.ObservePlatformRequest("fetch_page", time.Since(start).Seconds()) }()

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.SearchTerm != "" {
		params.Set("q", q.SearchTerm)
	}
	if q.StartDate != nil {
		params.Set("from", q.StartDate.UTC().Format(time.RFC3339))
	}
	if q.EndDate != nil {
		params.Set("to", q.EndDate.UTC().Format(time.RFC3339))
	}

	var env pageEnvelope
	if err := c.getJSON(ctx, "/admin/v1/"+path+"?"+params.Encode(), &env); err != nil {
		return models.Page{}, err
	}

	page := models.Page{Total: env.Total}
	if len(env.Items) == 0 {
		return page, nil
	}

	if kind.IsVideoKind() {
		var videos []models.VideoPost
		if err := json.Unmarshal(env.Items, &videos); err != nil {
			return models.Page{}, fmt.Errorf("decode %s items: %w", kind, err)
		}
		for i := range videos {
			page.Items = append(page.Items, models.VideoEntity(&videos[i]))
		}
		return page, nil
	}

	var restaurants []models.Restaurant
	if err := json.Unmarshal(env.Items, &restaurants); err != nil {
		return models.Page{}, fmt.Errorf("decode %s items: %w", kind, err)
	}
	for i := range restaurants {
		page.Items = append(page.Items, models.RestaurantEntity(&restaurants[i]))
	}
	return page, nil
}

// UpdateStatus applies one status change. The platform enforces transition
// legality; a rejected transition comes back as a 4xx.
func (c *Client) UpdateStatus(ctx context.Context, u models.StatusUpdate) error {
	start := time.Now()
	defer func() { metrics.ObservePlatformRequest("update_status", time.Since(start).Seconds()) }()

	body, err := json.Marshal(u)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/admin/v1/status", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

// FetchCount retrieves a queue's total row count.
func (c *Client) FetchCount(ctx context.Context, kind models.TableKind, searchTerm string) (int, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return 0, fmt.Errorf("unknown table kind %q", kind)
	}

	start := time.Now()
	defer func() { metrics.ObservePlatformRequest("fetch_count", time.Since(start).Seconds()) }()

	endpoint := "/admin/v1/" + path + "/count"
	if searchTerm != "" {
		endpoint += "?q=" + url.QueryEscape(searchTerm)
	}

	var env countEnvelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return 0, err
	}
	return env.Total, nil
}

// getJSON performs a GET with bounded retry on transient failures.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
			continue
		}

		err = c.checkStatus(resp)
		if err != nil {
			resp.Body.Close()
			if errors.Is(err, ErrUnavailable) {
				lastErr = err
				continue
			}
			return err
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("decode platform response: %w", decodeErr)
		}
		return nil
	}
	return lastErr
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Gontrel-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", "Gontrel-Admin/1.0")
	return req, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %s", ErrUnavailable, resp.Status)
	default:
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("platform rejected request: %s", msg)
	}
}

func readErrorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
