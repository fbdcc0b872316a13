// Package classifier is the typed client for the external condition
// classification service. The service owns the model; this client only
// speaks its request/response contract.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Vitals is the wire form of a physiological snapshot, keyed the way the
// classifier expects.
type Vitals struct {
	HR      int     `json:"HR"`
	SpO2    int     `json:"SpO2"`
	SBP     int     `json:"SBP"`
	DBP     int     `json:"DBP"`
	Temp    float64 `json:"Temp"`
	Glucose float64 `json:"Glucose"`
	GCS     int     `json:"GCS"`
}

type request struct {
	Symptoms []string `json:"symptoms"`
	Vitals   Vitals   `json:"vitals"`
}

// Result is the classifier's answer for one input snapshot.
type Result struct {
	Condition       string   `json:"condition"`
	Confidence      float64  `json:"confidence"`
	Severity        string   `json:"severity"`
	Department      string   `json:"department"`
	Recommendations []string `json:"recommendations"`
	TimeToTreat     string   `json:"timeToTreat"`
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

// Predict submits one (symptoms, vitals) snapshot and returns the predicted
// condition. Any transport, status or decode failure is returned as an error;
// the caller decides how to degrade.
func (c *Client) Predict(ctx context.Context, symptoms []string, vitals Vitals) (*Result, error) {
	body, err := json.Marshal(request{Symptoms: symptoms, Vitals: vitals})
	if err != nil {
		return nil, fmt.Errorf("classifier: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("classifier: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier: status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("classifier: decode response: %w", err)
	}

	// The service omits fields for conditions it has no metadata for.
	if result.Condition == "" {
		result.Condition = "Unknown"
	}
	if result.Severity == "" {
		result.Severity = "medium"
	}
	if result.Department == "" {
		result.Department = "General Medicine"
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}
	return &result, nil
}
