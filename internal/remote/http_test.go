package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"water_heater/internal/models"
)

func TestHTTPClient_FetchTelemetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.EscapedPath() != "/api/plants/GW%201/data" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.EscapedPath())
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"gw":"GW 1","on":true,"mode":"BOOST","temp":48.5,"procReqTemp":70,"reqTemp":45,"boostReqTemp":70,"antiLeg":false,"heatReq":true,"avShw":3}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api/", "GW 1", "secret", time.Second)
	tel, err := c.FetchTelemetry(context.Background())
	if err != nil {
		t.Fatalf("FetchTelemetry: %v", err)
	}
	if tel.Mode != models.ModeBoost || tel.Temperature != 48.5 || !tel.On || tel.AvailableShowers != 3 || tel.GatewayID != "GW 1" {
		t.Fatalf("unexpected telemetry: %+v", tel)
	}
}

func TestHTTPClient_FetchTelemetry_NoData(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no content": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"empty body": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
		"null body":  func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "null") },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "gw", "", 0).FetchTelemetry(context.Background())
			if !errors.Is(err, ErrNoData) {
				t.Fatalf("expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestHTTPClient_FetchTelemetry_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway unreachable", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, "gw", "", 0).FetchTelemetry(context.Background())
		if err == nil || !strings.Contains(err.Error(), "502") {
			t.Fatalf("expected 502 error, got %v", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"mode":"TURBO"}`)
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, "gw", "", 0).FetchTelemetry(context.Background())
		if err == nil || !strings.Contains(err.Error(), "decode plant data") {
			t.Fatalf("expected decode error, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewHTTPClient(srv.URL, "gw", "", 50*time.Millisecond).FetchTelemetry(context.Background())
		if err == nil {
			t.Fatal("expected timeout error")
		}
	})
}

func TestHTTPClient_ApplyMode(t *testing.T) {
	var got modeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/plants/gw/mode" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := NewHTTPClient(srv.URL, "gw", "", 0).ApplyMode(context.Background(), models.ModeGreen); err != nil {
		t.Fatalf("ApplyMode: %v", err)
	}
	if got.Mode != models.ModeGreen {
		t.Fatalf("sent mode %s, want GREEN", got.Mode)
	}
}

func TestHTTPClient_ApplyMode_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plant locked", http.StatusConflict)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "gw", "", 0).ApplyMode(context.Background(), models.ModeBoost)
	if err == nil || !strings.Contains(err.Error(), "409") || !strings.Contains(err.Error(), "plant locked") {
		t.Fatalf("expected 409 error, got %v", err)
	}
}
