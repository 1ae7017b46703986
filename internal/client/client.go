// Package client talks to a running fleetdesk server over its JSON API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

const DefaultServer = "http://localhost:8080"

type Client struct {
	base *url.URL
	http *http.Client
}

func New(server string, timeout time.Duration) (*Client, error) {
	if server == "" {
		server = DefaultServer
	}
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q", server)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) ListPlanes(ctx context.Context) ([]models.PlaneRecord, error) {
	var out []models.PlaneRecord
	err := c.do(ctx, http.MethodGet, "/api/v1/planes", nil, nil, &out)
	return out, err
}

func (c *Client) AddPlane(ctx context.Context, plane map[string]any) (*models.PlaneRecord, error) {
	var out models.PlaneRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/planes", nil, plane, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddFlight(ctx context.Context, id int, date string) (string, error) {
	var out models.MessageResponse
	err := c.do(ctx, http.MethodPost, flightPath("planes", id, date), nil, nil, &out)
	return out.Message, err
}

func (c *Client) DeletePlane(ctx context.Context, id int) (string, error) {
	var out models.MessageResponse
	err := c.do(ctx, http.MethodDelete, "/api/v1/planes/"+strconv.Itoa(id), nil, nil, &out)
	return out.Message, err
}

func (c *Client) DeleteFlight(ctx context.Context, id int, date string) (string, error) {
	var out models.MessageResponse
	err := c.do(ctx, http.MethodDelete, flightPath("planes", id, date), nil, nil, &out)
	return out.Message, err
}

func (c *Client) ListLegs(ctx context.Context) ([]models.PlaneRoutes, error) {
	var out []models.PlaneRoutes
	err := c.do(ctx, http.MethodGet, "/api/v1/legs", nil, nil, &out)
	return out, err
}

func (c *Client) AddLeg(ctx context.Context, leg map[string]any) (*models.FlightLeg, error) {
	var out models.FlightLeg
	if err := c.do(ctx, http.MethodPost, "/api/v1/legs", nil, leg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddLegFlight(ctx context.Context, req models.FlightRequest) (string, error) {
	var out models.MessageResponse
	path := "/api/v1/legs/" + strconv.Itoa(req.ID) + "/flights"
	err := c.do(ctx, http.MethodPost, path, nil, req, &out)
	return out.Message, err
}

func (c *Client) DeleteLegs(ctx context.Context, id int) (string, error) {
	var out models.MessageResponse
	err := c.do(ctx, http.MethodDelete, "/api/v1/legs/"+strconv.Itoa(id), nil, nil, &out)
	return out.Message, err
}

// DeleteLegFlight removes the legs of plane req.ID on req.Date. Empty From and
// To match any endpoint.
func (c *Client) DeleteLegFlight(ctx context.Context, req models.FlightRequest) (string, error) {
	q := url.Values{}
	if req.From != "" {
		q.Set("from", req.From)
	}
	if req.To != "" {
		q.Set("to", req.To)
	}
	var out models.MessageResponse
	err := c.do(ctx, http.MethodDelete, flightPath("legs", req.ID, req.Date), q, nil, &out)
	return out.Message, err
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out models.ChatResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/chat", nil, models.ChatRequest{Message: message}, &out)
	return out.Response, err
}

func flightPath(variant string, id int, date string) string {
	return "/api/v1/" + variant + "/" + strconv.Itoa(id) + "/flights/" + url.PathEscape(date)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error body into a *models.Error so callers can match
// it with errors.Is against the models sentinels.
func decodeError(status int, data []byte) error {
	var e models.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return &models.Error{Kind: models.ErrorKind(e.Error), Message: e.Message, Fields: e.Fields}
	}

	var chat models.ChatResponse
	if err := json.Unmarshal(data, &chat); err == nil && chat.Response != "" {
		return models.NewDownstream(strings.TrimPrefix(chat.Response, "Error: "), nil)
	}

	return fmt.Errorf("server returned %d: %s", status, strings.TrimSpace(string(data)))
}
