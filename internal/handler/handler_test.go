package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shortly/config"
	"shortly/internal/handler"
	"shortly/internal/models"
	"shortly/internal/repository"
	"shortly/internal/router"
	"shortly/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.URL{}, &models.Click{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Every connection to :memory: is a separate database; a single
	// connection keeps the async click writes on the same one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access the connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := &config.Config{
		BaseURL: "http://localhost:8080",
		JWT: config.JWTConfig{
			Secret: "test-secret",
			Exp:    time.Hour,
		},
		CORS: config.CORSConfig{Origin: "http://localhost:3000"},
		App: config.AppConfig{
			DefaultExpiry: 365 * 24 * time.Hour,
			MaxExpiry:     365 * 24 * time.Hour,
			PurgeAfter:    30 * 24 * time.Hour,
		},
	}

	urlRepo := repository.NewURLRepository(db)
	clickRepo := repository.NewClickRepository(db)
	userRepo := repository.NewUserRepository(db)

	urls := service.NewURLService(urlRepo, cfg, zap.NewNop())
	clicks := service.NewClickService(clickRepo, urlRepo, zap.NewNop())
	users := service.NewUserService(userRepo, cfg)

	return router.Router(cfg,
		handler.NewURLHandler(urls, clicks, cfg),
		handler.NewAnalyticsHandler(clicks),
		handler.NewAuthHandler(users),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 && strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
		}
	}
	return w, parsed
}

func TestCreateAndRedirect(t *testing.T) {
	r := setupRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{
		"url": "https://example.com/landing",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if body["success"] != true {
		t.Errorf("success flag missing: %v", body)
	}

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("no data object in %v", body)
	}
	code, _ := data["shortCode"].(string)
	if code == "" {
		t.Fatal("no shortCode in response")
	}
	if data["shortUrl"] != "http://localhost:8080/"+code {
		t.Errorf("got shortUrl %v", data["shortUrl"])
	}
	if data["expiresAt"] == nil {
		t.Error("no default expiry in response")
	}

	w, _ = doJSON(t, r, http.MethodGet, "/"+code, "", nil)
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("got status %d, want 301", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://example.com/landing" {
		t.Errorf("got Location %q", loc)
	}

	// The click write is fire-and-forget, so poll until it settles.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, body = doJSON(t, r, http.MethodGet, "/api/v1/urls/"+code+"/stats", "", nil)
		stats := body["data"].(map[string]interface{})
		if stats["totalClicks"].(float64) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("redirect click never recorded, stats %v", stats)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRedirect_Unknown(t *testing.T) {
	r := setupRouter(t)

	w, body := doJSON(t, r, http.MethodGet, "/nothere", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
	if body["success"] != false || body["error"] != "URL not found" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestCreate_Validation(t *testing.T) {
	r := setupRouter(t)

	t.Run("missing url", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
		if body["success"] != false {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("bad scheme", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{"url": "ftp://example.com"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
		if body["error"] == nil {
			t.Errorf("no error message: %v", body)
		}
	})

	t.Run("alias conflict", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{"url": "https://example.com", "customAlias": "mine"})
		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}
		w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{"url": "https://example.com", "customAlias": "mine"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
		if body["error"] != "Custom alias already taken" {
			t.Errorf("got error %v", body["error"])
		}
	})
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "dana@example.com",
		"password": "long-enough-password",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got status %d: %s", w.Code, w.Body.String())
	}
	data := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("no token issued on register")
	}

	t.Run("me", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}
		me := body["data"].(map[string]interface{})
		if me["email"] != "dana@example.com" {
			t.Errorf("got email %v", me["email"])
		}
	})

	t.Run("me without token", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", w.Code)
		}
	})

	t.Run("login", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "dana@example.com",
			"password": "long-enough-password",
		})
		if w.Code != http.StatusOK {
			t.Errorf("got status %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("login wrong password", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "dana@example.com",
			"password": "not-the-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", w.Code)
		}
	})
}

func TestOwnedURLLifecycle(t *testing.T) {
	r := setupRouter(t)

	_, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "erin@example.com",
		"password": "long-enough-password",
	})
	token := body["data"].(map[string]interface{})["token"].(string)

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", token, gin.H{"url": "https://example.com/owned"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got status %d: %s", w.Code, w.Body.String())
	}
	code := body["data"].(map[string]interface{})["shortCode"].(string)

	t.Run("list requires auth", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/api/v1/urls", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/v1/urls?page=1&limit=10", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}
		items := body["data"].([]interface{})
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		pg := body["pagination"].(map[string]interface{})
		if pg["total"].(float64) != 1 {
			t.Errorf("got pagination %v", pg)
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPut, "/api/v1/urls/"+code, token, gin.H{"active": false})
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}
		data := body["data"].(map[string]interface{})
		if data["isActive"] != false {
			t.Errorf("got data %v", data)
		}

		w, _ = doJSON(t, r, http.MethodGet, "/"+code, "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("deactivated link still redirects: status %d", w.Code)
		}
	})

	t.Run("deactivated record is gone from the lookup path", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodDelete, "/api/v1/urls/"+code, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404 for an already inactive record", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", token, gin.H{"url": "https://example.com/second"})
		if w.Code != http.StatusCreated {
			t.Fatalf("create: got status %d: %s", w.Code, w.Body.String())
		}
		second := body["data"].(map[string]interface{})["shortCode"].(string)

		w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/urls/"+second, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}

		w, _ = doJSON(t, r, http.MethodGet, "/"+second, "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("deleted link still redirects: status %d", w.Code)
		}

		// Details stay readable so owners can inspect deactivated links.
		w, body = doJSON(t, r, http.MethodGet, "/api/v1/urls/"+second, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("details: got status %d: %s", w.Code, w.Body.String())
		}
		if data := body["data"].(map[string]interface{}); data["isActive"] != false {
			t.Errorf("got details %v, want isActive false", data)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	r := setupRouter(t)

	_, body := doJSON(t, r, http.MethodPost, "/api/v1/urls", "", gin.H{"url": "https://example.com"})
	code := body["data"].(map[string]interface{})["shortCode"].(string)

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/urls/"+code+"/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	data := body["data"].(map[string]interface{})
	if data["totalClicks"].(float64) != 0 {
		t.Errorf("got stats %v", data)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/urls/missing/stats", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", w.Code)
	}
}
