package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
)

func setupRateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	admin := db.User{Email: "admin@example.com", UUID: "test-admin", Role: "admin"}
	if err := db.DB.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/exchange-rate", GetExchangeRate)
	r.PUT("/admin/exchange-rate", func(c *gin.Context) {
		c.Set("user", admin)
		c.Next()
	}, UpdateExchangeRate)
	return r
}

func putRate(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/admin/exchange-rate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getRate(t *testing.T, r *gin.Engine) (rate float64, source string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/exchange-rate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Rate   float64 `json:"rate"`
			Source string  `json:"source"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data.Rate, resp.Data.Source
}

func TestExchangeRateDefault(t *testing.T) {
	setupDB(t)
	r := setupRateRouter(t)

	rate, source := getRate(t, r)
	if rate != db.DefaultUSDKESRate || source != "default" {
		t.Errorf("expected default %v, got %v (%s)", db.DefaultUSDKESRate, rate, source)
	}
}

func TestExchangeRateUpsert(t *testing.T) {
	setupDB(t)
	r := setupRateRouter(t)

	if w := putRate(t, r, `{"rate": 135, "source": "api"}`); w.Code != http.StatusOK {
		t.Fatalf("first update failed: %d %s", w.Code, w.Body.String())
	}
	if w := putRate(t, r, `{"rate": 140, "source": "central_bank"}`); w.Code != http.StatusOK {
		t.Fatalf("second update failed: %d %s", w.Code, w.Body.String())
	}

	rate, source := getRate(t, r)
	if rate != 140 || source != "central_bank" {
		t.Errorf("expected 140 central_bank, got %v (%s)", rate, source)
	}

	// both updates landed on the same row
	var count int64
	db.DB.Model(&db.ExchangeRate{}).Count(&count)
	if count != 1 {
		t.Errorf("expected a single rate row, got %d", count)
	}
}

func TestExchangeRateValidation(t *testing.T) {
	setupDB(t)
	r := setupRateRouter(t)

	for _, body := range []string{`{"rate": 0}`, `{"rate": -5}`, `{"rate": 10001}`} {
		if w := putRate(t, r, body); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s, got %d", body, w.Code)
		}
	}

	// unknown source falls back to manual rather than failing
	if w := putRate(t, r, `{"rate": 128, "source": "crystal_ball"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	_, source := getRate(t, r)
	if source != "manual" {
		t.Errorf("expected source manual, got %q", source)
	}
}
