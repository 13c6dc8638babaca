package advice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"agriloan-backend/internal/domain/apperr"
)

func TestAdvise_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/advice" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req adviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.PromptContent == "" || req.SystemInstruction == "" {
			t.Errorf("empty prompt fields: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(adviceResponse{Advice: "Water the plot early in the morning."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logrus.New())
	got, err := c.Advise(context.Background(), "Planting on Maize Plot 1")
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if got != "Water the plot early in the morning." {
		t.Fatalf("advice = %q", got)
	}
}

func TestAdvise_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(adviceResponse{Error: "quota exceeded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logrus.New())
	if _, err := c.Advise(context.Background(), "prompt"); !errors.Is(err, apperr.ErrExternal) {
		t.Fatalf("err = %v, want ErrExternal", err)
	}
}

func TestAdvise_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logrus.New())
	if _, err := c.Advise(context.Background(), "prompt"); !errors.Is(err, apperr.ErrExternal) {
		t.Fatalf("err = %v, want ErrExternal", err)
	}
}

func TestAdvise_Unconfigured(t *testing.T) {
	c := NewClient("", logrus.New())
	if _, err := c.Advise(context.Background(), "prompt"); !errors.Is(err, apperr.ErrExternal) {
		t.Fatalf("err = %v, want ErrExternal", err)
	}
}
