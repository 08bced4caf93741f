package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"recipebox/models"
)

// FilterKind selects the filter.php query parameter
type FilterKind string

const (
	FilterCategory FilterKind = "c"
	FilterArea     FilterKind = "a"
)

// Client wraps the TheMealDB search, filter and lookup endpoints
type Client struct {
	baseURL string
	getter  Getter
}

// NewClient creates a Client rooted at baseURL
func NewClient(baseURL string, getter Getter) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
	}
}

type mealsResponse struct {
	Meals []models.RawRecord `json:"meals"`
}

type stubsResponse struct {
	Meals []struct {
		ID string `json:"idMeal"`
	} `json:"meals"`
}

// Search returns every meal matching the free-text term
func (c *Client) Search(ctx context.Context, term string) ([]models.RawRecord, error) {
	var resp mealsResponse
	if err := c.getJSON(ctx, "search.php", "s", term, &resp); err != nil {
		return nil, err
	}
	return compact(resp.Meals), nil
}

// FilterIDs returns the ids of every meal in a category or area
func (c *Client) FilterIDs(ctx context.Context, kind FilterKind, value string) ([]string, error) {
	var resp stubsResponse
	if err := c.getJSON(ctx, "filter.php", string(kind), value, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// Lookup resolves an id to its full record; ok is false when the API knows no such meal
func (c *Client) Lookup(ctx context.Context, id string) (models.RawRecord, bool, error) {
	var resp mealsResponse
	if err := c.getJSON(ctx, "lookup.php", "i", id, &resp); err != nil {
		return nil, false, err
	}
	meals := compact(resp.Meals)
	if len(meals) == 0 {
		return nil, false, nil
	}
	return meals[0], true, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, key, value string, out interface{}) error {
	u := fmt.Sprintf("%s/%s?%s=%s", c.baseURL, endpoint, key, url.QueryEscape(value))
	body, err := c.getter.Get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", u, err)
	}
	return nil
}

// compact drops null entries from a meals array
func compact(records []models.RawRecord) []models.RawRecord {
	out := records[:0]
	for _, r := range records {
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}
