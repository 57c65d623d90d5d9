package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Workout Planner backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a backend client. token may be empty for backends that
// do not require auth (local development).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// PlanItems returns the scheduled items for a plan whose date falls in
// [start, end] inclusive, dates as YYYY-MM-DD. The backend pre-filters to
// the range, though callers should not rely on that.
func (c *Client) PlanItems(ctx context.Context, planID, start, end string) ([]PlanItem, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	endpoint := fmt.Sprintf("/plans/%s/items?%s", url.PathEscape(planID), q.Encode())

	var items []PlanItem
	if err := c.get(ctx, endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Workouts returns the full workout catalog.
func (c *Client) Workouts(ctx context.Context) ([]Workout, error) {
	var workouts []Workout
	if err := c.get(ctx, "/workouts", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// CreatePlanItem schedules a workout on a calendar day.
func (c *Client) CreatePlanItem(ctx context.Context, planID, workoutID, day string) (*PlanItem, error) {
	body := map[string]string{
		"workoutId": workoutID,
		"date":      day,
	}
	endpoint := fmt.Sprintf("/plans/%s/items", url.PathEscape(planID))

	var item PlanItem
	if err := c.do(ctx, http.MethodPost, endpoint, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeletePlanItem removes a scheduled item.
func (c *Client) DeletePlanItem(ctx context.Context, planID, itemID string) error {
	endpoint := fmt.Sprintf("/plans/%s/items/%s", url.PathEscape(planID), url.PathEscape(itemID))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CreateWorkout adds a workout to the catalog.
func (c *Client) CreateWorkout(ctx context.Context, w Workout) (*Workout, error) {
	var created Workout
	if err := c.do(ctx, http.MethodPost, "/workouts", w, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, endpoint, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
