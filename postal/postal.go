// Package postal looks up Indian PIN codes through the public postalpincode.in API.
package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.postalpincode.in"

var pinCodePattern = regexp.MustCompile(`^\d{6}$`)

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
}

type lookupResult struct {
	Status     string       `json:"Status"`
	Message    string       `json:"Message"`
	PostOffice []postOffice `json:"PostOffice"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// LookupCity returns the district of the first post office registered for code.
func (c *Client) LookupCity(ctx context.Context, code string) (string, error) {
	if !pinCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q is not a 6-digit postal code", models.ErrLookup, code)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", code).
		Get("/pincode/{code}")
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrLookup, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: status %d", models.ErrLookup, resp.StatusCode())
	}

	var results []lookupResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", models.ErrLookup, err)
	}
	if len(results) == 0 || results[0].Status != "Success" || len(results[0].PostOffice) == 0 {
		return "", fmt.Errorf("%w: no post office for %s", models.ErrLookup, code)
	}
	return results[0].PostOffice[0].District, nil
}
