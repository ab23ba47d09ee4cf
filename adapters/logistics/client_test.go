package logistics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"landed-cost/core/calc"
	"landed-cost/internal/errors"
)

func testRequest() calc.Request {
	return calc.Request{ProductID: "p1", Quantity: 2, DestinationCountry: "ES"}
}

func TestCalculateSuccess(t *testing.T) {
	var gotPath string
	var gotReq calc.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(calc.Envelope{
			Success: true,
			Calculation: &calc.Calculation{
				Breakdown:  &calc.Breakdown{Total: 2122.05},
				Parameters: &calc.Parameters{VATPercentage: 21},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Calculate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if gotPath != "/calculate-logistics-costs" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ProductID != "p1" || gotReq.Quantity != 2 {
		t.Errorf("request = %+v", gotReq)
	}
	if result.Breakdown.Total != 2122.05 {
		t.Errorf("Total = %v, want 2122.05", result.Breakdown.Total)
	}
}

func TestCalculateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(calc.Envelope{Success: false, Error: "product not found: p1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Calculate(context.Background(), testRequest())
	if !errors.IsType(err, errors.TypeCalculation) {
		t.Fatalf("err = %v, want calculation error", err)
	}
	if err.(*errors.Error).Message != "product not found: p1" {
		t.Errorf("message = %q", err.(*errors.Error).Message)
	}
}

func TestCalculateServiceErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(calc.Envelope{Success: false})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Calculate(context.Background(), testRequest())
	if !errors.IsType(err, errors.TypeCalculation) {
		t.Fatalf("err = %v, want calculation error", err)
	}
	if err.(*errors.Error).Message != "calculation service returned status 500" {
		t.Errorf("message = %q", err.(*errors.Error).Message)
	}
}

func TestCalculateMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<html>bad gateway</html>`},
		{"missing breakdown", `{"success":true,"calculation":{"parameters":{}}}`},
		{"missing calculation", `{"success":true}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.Calculate(context.Background(), testRequest())
			if !errors.IsType(err, errors.TypeCalculation) {
				t.Errorf("err = %v, want calculation error", err)
			}
		})
	}
}

func TestCalculateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.Calculate(context.Background(), testRequest())
	if !errors.IsType(err, errors.TypeNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(calc.Envelope{Success: false, Error: "boom"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	for i := 0; i < 5; i++ {
		if _, err := c.Calculate(context.Background(), testRequest()); err == nil {
			t.Fatal("expected failure")
		}
	}

	before := hits.Load()
	_, err := c.Calculate(context.Background(), testRequest())
	if !errors.IsType(err, errors.TypeNetwork) {
		t.Fatalf("err = %v, want network error from open breaker", err)
	}
	if err.(*errors.Error).Message != "calculation service unavailable" {
		t.Errorf("message = %q", err.(*errors.Error).Message)
	}
	if hits.Load() != before {
		t.Error("open breaker should not reach the service")
	}
}
