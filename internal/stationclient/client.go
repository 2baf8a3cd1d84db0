// ============================================================================
// Railbook API client
// ============================================================================
// Go client for the railbook REST surface: station search, auth, bookings
// and the session event log. The autocomplete controller in this package
// drives SearchStations the same way the web combobox does.

package stationclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/railbook/internal/models"
)

// DefaultTimeout bounds every API request; a hung fetch is an error, not a
// stuck client.
const DefaultTimeout = 10 * time.Second

// Client talks to a railbook backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to BASE_URL or the local default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// SetToken sets the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SearchStations queries GET /api/stations for one page of matches.
func (c *Client) SearchStations(ctx context.Context, query string, page, limit int) (models.StationQueryResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var res models.StationQueryResult
	err := c.do(ctx, http.MethodGet, "/api/stations", params, nil, &res)
	return res, err
}

// Register creates an account and stores the returned bearer token.
func (c *Client) Register(ctx context.Context, username, email, password string) (models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &res)
	if err == nil {
		c.SetToken(res.Token)
	}
	return res, err
}

// Login authenticates and stores the returned bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, models.LoginRequest{
		Email:    email,
		Password: password,
	}, &res)
	if err == nil {
		c.SetToken(res.Token)
	}
	return res, err
}

// CreateBooking persists a booking record (bearer auth).
func (c *Client) CreateBooking(ctx context.Context, req models.BookingCreateRequest) (models.Booking, error) {
	var res models.Booking
	err := c.do(ctx, http.MethodPost, "/api/bookings", nil, req, &res)
	return res, err
}

// ListBookings fetches the most recent bookings (bearer auth).
func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var res []models.Booking
	err := c.do(ctx, http.MethodGet, "/api/bookings", nil, nil, &res)
	return res, err
}

// PostEvent records a session event (bearer auth).
func (c *Client) PostEvent(ctx context.Context, req models.EventCreateRequest) (models.Event, error) {
	var res models.Event
	err := c.do(ctx, http.MethodPost, "/api/events", nil, req, &res)
	return res, err
}

// ListEvents fetches the public event feed.
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	var res []models.Event
	err := c.do(ctx, http.MethodGet, "/api/events", nil, nil, &res)
	return res, err
}
