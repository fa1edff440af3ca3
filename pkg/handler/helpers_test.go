package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

const testFarmers = `farmerID,Name,Khetscore
F001,Ramesh Kumar,50
F002,Sita Devi,72.5
`

var testSecret = []byte("test-secret")

type testEnv struct {
	server *httptest.Server
	mr     *miniredis.Miniredis
	api    *API
}

// setupTestAPI serves the API over httptest with a miniredis-backed store.
// Seasons draw weather from rng.
func setupTestAPI(t *testing.T, rng scoring.RandomSource) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := store.NewRedisStore(client, store.RedisStoreConfig{})

	farmers, err := farmer.LoadCSV(strings.NewReader(testFarmers))
	if err != nil {
		t.Fatalf("failed to load farmers: %v", err)
	}

	drafts := service.NewDraftService(s)
	api := New(Dependencies{
		Users:       service.NewUserService(s, service.UserServiceConfig{BcryptCost: bcrypt.MinCost}),
		Simulations: service.NewSimulationService(s, drafts),
		Drafts:      drafts,
		Farmers:     farmers,
		Catalog:     catalog.Default(),
		Engine:      scoring.NewEngine(catalog.DefaultShocks, rng),
		Health:      store.NewHealthChecker(s, store.BackendRedis),
	}, Config{JWTSecret: testSecret})

	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)

	return &testEnv{server: server, mr: mr, api: api}
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	var resp authResponse
	status := e.do(t, http.MethodPost, "/api/auth/register", "", service.RegisterRequest{
		Username: username, Password: "secret", Name: "Field Officer",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
	return resp.Token
}
