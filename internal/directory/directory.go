// Package directory looks up universities in the public Hipo directory.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joshua-takyi/crumbs/internal/models"
)

const (
	DefaultBaseURL = "http://universities.hipolabs.com"

	MaxResults     = 10
	MinQueryLength = 2
)

type university struct {
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	Domains  []string `json:"domains"`
	WebPages []string `json:"web_pages"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns at most MaxResults universities whose name contains name.
// Names shorter than MinQueryLength return no results without a request.
func (c *Client) Search(ctx context.Context, name string) ([]models.UserSchool, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinQueryLength {
		return []models.UserSchool{}, nil
	}

	endpoint := fmt.Sprintf("%s/search?name=%s", c.BaseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.Transport("failed to build directory request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, models.Transport("directory request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.Transport(fmt.Sprintf("directory returned %d", resp.StatusCode), nil)
	}

	var found []university
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, models.Transport("failed to decode directory response", err)
	}

	if len(found) > MaxResults {
		found = found[:MaxResults]
	}
	out := make([]models.UserSchool, 0, len(found))
	for _, u := range found {
		school := models.UserSchool{Name: u.Name, Country: u.Country}
		if len(u.Domains) > 0 {
			school.Domain = u.Domains[0]
		}
		out = append(out, school)
	}
	return out, nil
}
