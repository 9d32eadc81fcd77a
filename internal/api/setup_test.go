// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/audit"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
)

// DuckDB in-memory instances are created one at a time.
var testDBSemaphore = make(chan struct{}, 1)

const testPassword = "Tr0ub4dor&3x"

// testServer is a fully wired API over an in-memory database.
type testServer struct {
	t       *testing.T
	db      *database.DB
	jwt     *auth.JWTManager
	cache   *shoppinglist.Cache
	audit   *audit.MemoryStore
	handler http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{DefaultPageSize: 6, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-that-is-long-enough-for-hs256",
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
			LoginAttempts:     3,
			LoginWindow:       time.Hour,
		},
		ShoppingList: config.ShoppingListConfig{
			Format:       shoppinglist.FormatPDF,
			Title:        "Shopping list",
			MaxLineTotal: math.MaxInt32,
			CacheSize:    64,
			CacheTTL:     time.Minute,
		},
		Events: config.EventsConfig{Transport: events.TransportGoChannel},
	}
}

// serverOption adjusts the handler dependencies before the router is built.
type serverOption func(*Dependencies)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := testConfig()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	revocations, err := auth.OpenRevocationStore("")
	if err != nil {
		t.Fatalf("OpenRevocationStore: %v", err)
	}
	t.Cleanup(func() { _ = revocations.Close() })

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	cache, err := shoppinglist.NewCache(cfg.ShoppingList.CacheSize, cfg.ShoppingList.CacheTTL)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	bus, err := events.NewBus(cfg.Events, "", nil)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	eventRouter, err := events.NewRouter(bus, events.DefaultRouterConfig(), nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	cache.Register(eventRouter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = eventRouter.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = bus.Close()
	})
	<-eventRouter.Running()

	publisher := events.NewPublisher(bus, events.BreakerConfig{Name: "api-test"})
	auditStore := audit.NewMemoryStore(0)

	deps := Dependencies{
		DB:           db,
		Config:       cfg,
		JWT:          jwtManager,
		Revocations:  revocations,
		Throttle:     auth.NewLoginThrottle(cfg.Security.LoginAttempts, cfg.Security.LoginWindow),
		ShoppingList: shoppinglist.NewService(db, cfg.ShoppingList.MaxLineTotal, cache),
		Events:       publisher,
		Audit:        audit.NewLogger(auditStore, audit.Config{}),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	handler := NewHandler(deps)
	router := NewRouter(handler,
		NewChiMiddlewareFromConfig(cfg.Security),
		auth.NewMiddleware(jwtManager, revocations, WriteError),
		enforcer,
		nil,
	)

	return &testServer{t: t, db: db, jwt: jwtManager, cache: cache, audit: auditStore, handler: router.SetupChi()}
}

// do sends a request with an optional JSON body and token.
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

// decodeData checks the status and decodes the envelope payload into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, dst interface{}) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d: %s", rec.Code, wantStatus, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) *APIError {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d: %s", rec.Code, wantStatus, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	if wantCode != "" && env.Error.Code != wantCode {
		t.Errorf("error code = %q, want %q (%s)", env.Error.Code, wantCode, env.Error.Message)
	}
	return env.Error
}

var userSeq struct {
	sync.Mutex
	n int
}

// register creates an account through the API and logs it in.
func (s *testServer) register(name string) (*models.User, string) {
	s.t.Helper()

	userSeq.Lock()
	userSeq.n++
	n := userSeq.n
	userSeq.Unlock()

	email := fmt.Sprintf("%s%d@example.com", name, n)
	var user models.User
	decodeData(s.t, s.do(http.MethodPost, "/api/users", "", RegisterRequest{
		Email:     email,
		Username:  fmt.Sprintf("%s%d", name, n),
		FirstName: "Test",
		LastName:  "Cook",
		Password:  testPassword,
	}), http.StatusCreated, &user)

	return &user, s.login(email, testPassword)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	var tok TokenResponse
	decodeData(s.t, s.do(http.MethodPost, "/api/auth/token/login", "", LoginRequest{
		Email:    email,
		Password: password,
	}), http.StatusOK, &tok)
	if tok.AuthToken == "" {
		s.t.Fatal("login returned an empty token")
	}
	return tok.AuthToken
}

// admin creates an admin directly in the store and issues a token for it.
func (s *testServer) admin() string {
	s.t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		s.t.Fatal(err)
	}
	u, _, err := s.db.EnsureAdmin(context.Background(), models.NewUser{
		Email:        "admin@example.com",
		Username:     "admin",
		FirstName:    "Site",
		LastName:     "Admin",
		PasswordHash: hash,
	})
	if err != nil {
		s.t.Fatalf("EnsureAdmin: %v", err)
	}
	token, _, err := s.jwt.GenerateToken(u)
	if err != nil {
		s.t.Fatal(err)
	}
	return token
}

// seedCatalog creates a tag and the given ingredients as admin.
func (s *testServer) seedCatalog(ingredients ...IngredientRequest) (models.Tag, []models.Ingredient) {
	s.t.Helper()
	token := s.admin()

	var tag models.Tag
	decodeData(s.t, s.do(http.MethodPost, "/api/tags", token, TagRequest{
		Name: "Breakfast", Color: "#e26c2d", Slug: "breakfast",
	}), http.StatusCreated, &tag)

	created := make([]models.Ingredient, len(ingredients))
	for i, in := range ingredients {
		decodeData(s.t, s.do(http.MethodPost, "/api/ingredients", token, in), http.StatusCreated, &created[i])
	}
	return tag, created
}

func (s *testServer) createRecipe(token, name string, tagID int64, items ...IngredientAmountRequest) models.Recipe {
	s.t.Helper()
	var recipe models.Recipe
	decodeData(s.t, s.do(http.MethodPost, "/api/recipes", token, RecipeRequest{
		Ingredients: items,
		Tags:        []int64{tagID},
		Image:       "recipes/images/" + name + ".png",
		Name:        name,
		Text:        "Mix and cook.",
		CookingTime: 15,
	}), http.StatusCreated, &recipe)
	return recipe
}
