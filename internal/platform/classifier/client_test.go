package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPredict_DecodesAndDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Symptoms []string `json:"symptoms"`
			Vitals   Vitals   `json:"vitals"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Symptoms) != 2 || req.Vitals.HR != 120 {
			t.Errorf("unexpected request payload: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"condition":  "sepsis",
			"confidence": 87.5,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Predict(context.Background(), []string{"fever", "fatigue"}, Vitals{HR: 120, SpO2: 91})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Condition != "sepsis" || res.Confidence != 87.5 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Severity != "medium" || res.Department != "General Medicine" {
		t.Errorf("expected defaults for omitted fields, got %+v", res)
	}
}

func TestPredict_ClampsConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"condition": "stroke", "confidence": 180})
	}))
	defer srv.Close()

	res, err := New(srv.URL).Predict(context.Background(), []string{"slurred speech"}, Vitals{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != 100 {
		t.Errorf("expected confidence clamped to 100, got %v", res.Confidence)
	}
}

func TestPredict_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Predict(context.Background(), []string{"fever"}, Vitals{}); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestPredict_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(srv.URL).Predict(ctx, []string{"fever"}, Vitals{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
