// Package matching is the typed client for the external hospital scoring
// service. The service returns loosely-typed rows; this client parses them
// into strict candidates with explicit null handling for optional fields.
package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type request struct {
	Condition string     `json:"condition"`
	Location  [2]float64 `json:"location"`
}

// candidateWire mirrors the service's row shape, including its field casing.
type candidateWire struct {
	HospitalID   string   `json:"Hospital_ID"`
	HospitalName string   `json:"Hospital_Name"`
	Distance     float64  `json:"distance"`
	Score        *float64 `json:"score"`
	ContactNo    *string  `json:"Contact_No"`
	Address      *string  `json:"Address"`
	Latitude     *float64 `json:"Latitude"`
	Longitude    *float64 `json:"Longitude"`
	Type         *string  `json:"Type"`
}

// Candidate is one hospital returned for a (condition, location) pair.
// Contact, address, coordinates and type are optional in the feed.
type Candidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Distance  float64  `json:"distance"`
	Score     float64  `json:"score"`
	ContactNo *string  `json:"contact_no,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Type      *string  `json:"type,omitempty"`
}

// HasCoordinates reports whether the candidate can be placed on a map.
// Candidates without coordinates stay in the list for contact and dispatch.
func (c Candidate) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Match asks the scoring service for candidate hospitals for the given
// condition at the given position. Errors are returned as-is; callers treat
// failure as "no candidates available".
func (c *Client) Match(ctx context.Context, condition string, lat, lng float64) ([]Candidate, error) {
	body, err := json.Marshal(request{Condition: condition, Location: [2]float64{lat, lng}})
	if err != nil {
		return nil, fmt.Errorf("matching: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match_hospitals", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("matching: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("matching: status %d", resp.StatusCode)
	}

	var rows []candidateWire
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("matching: decode response: %w", err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		cand := Candidate{
			ID:        row.HospitalID,
			Name:      row.HospitalName,
			Distance:  row.Distance,
			ContactNo: row.ContactNo,
			Address:   row.Address,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Type:      row.Type,
		}
		if row.Score != nil {
			cand.Score = *row.Score
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
