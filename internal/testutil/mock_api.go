// Package testutil provides testing utilities for the collector.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockApp is one catalog entry served by the fake APIs.
type MockApp struct {
	ID   int
	Name string

	// Available controls the storefront success flag. Unavailable apps
	// mimic delisted or region-locked titles.
	Available bool

	// StoreData adds fields to the storefront data payload.
	StoreData map[string]any

	// SpyData adds fields to the SteamSpy payload.
	SpyData map[string]any
}

// MockAPI is a configurable fake of the Steam storefront and SteamSpy APIs
// behind one test server: /api/appdetails serves storefront responses,
// /api.php serves SteamSpy (request=all and request=appdetails).
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	apps     map[int]MockApp
	order    []int
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	failRemaining int
	failStatus    int

	// Tracking
	RequestCount int
	StoreCount   int
	SpyCount     int
}

// NewMockAPI creates a mock server seeded with the given catalog.
func NewMockAPI(apps ...MockApp) *MockAPI {
	mock := &MockAPI{
		apps:     make(map[int]MockApp, len(apps)),
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}
	for _, app := range apps {
		mock.apps[app.ID] = app
		mock.order = append(mock.order, app.ID)
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		switch r.URL.Path {
		case "/api/appdetails":
			mock.StoreCount++
		case "/api.php":
			mock.SpyCount++
		}
		failing := mock.failRemaining > 0
		failStatus := mock.failStatus
		if failing {
			mock.failRemaining--
		}
		mock.mu.Unlock()

		if failing {
			if failStatus == 0 {
				// 200 with an empty body, the upstream throttle shape.
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Error(w, http.StatusText(failStatus), failStatus)
			return
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case "/api/appdetails":
			mock.storeHandler(w, r)
		case "/api.php":
			mock.spyHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// StoreURL returns the fake storefront appdetails endpoint.
func (m *MockAPI) StoreURL() string {
	return m.server.URL + "/api/appdetails"
}

// SpyURL returns the fake SteamSpy endpoint.
func (m *MockAPI) SpyURL() string {
	return m.server.URL + "/api.php"
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and planned failures.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.StoreCount = 0
	m.SpyCount = 0
	m.failRemaining = 0
}

// FailNext makes the next n requests fail with the given status before
// normal behavior resumes. Status 0 produces a 200 with an empty body.
func (m *MockAPI) FailNext(n int, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRemaining = n
	m.failStatus = status
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// StoreRequests returns the number of storefront appdetails requests.
func (m *MockAPI) StoreRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.StoreCount
}

// SpyRequests returns the number of SteamSpy requests.
func (m *MockAPI) SpyRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SpyCount
}

// storeHandler mimics the storefront appdetails wrapper:
// {"<appid>": {"success": bool, "data": {...}}}.
func (m *MockAPI) storeHandler(w http.ResponseWriter, r *http.Request) {
	appid, err := strconv.Atoi(r.URL.Query().Get("appids"))
	if err != nil {
		http.Error(w, "missing appids", http.StatusBadRequest)
		return
	}

	m.mu.RLock()
	app, known := m.apps[appid]
	m.mu.RUnlock()

	wrapper := map[string]any{"success": false}
	if known && app.Available {
		data := map[string]any{
			"name":        app.Name,
			"steam_appid": app.ID,
			"type":        "game",
		}
		for k, v := range app.StoreData {
			data[k] = v
		}
		wrapper = map[string]any{"success": true, "data": data}
	}

	writeJSON(w, map[string]any{strconv.Itoa(appid): wrapper})
}

// spyHandler mimics the SteamSpy api.php endpoint.
func (m *MockAPI) spyHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("request") {
	case "all":
		m.mu.RLock()
		catalog := make(map[string]any, len(m.apps))
		for id, app := range m.apps {
			catalog[strconv.Itoa(id)] = map[string]any{
				"appid": id,
				"name":  app.Name,
			}
		}
		m.mu.RUnlock()
		writeJSON(w, catalog)

	case "appdetails":
		appid, err := strconv.Atoi(r.URL.Query().Get("appid"))
		if err != nil {
			http.Error(w, "missing appid", http.StatusBadRequest)
			return
		}

		m.mu.RLock()
		app, known := m.apps[appid]
		m.mu.RUnlock()

		payload := map[string]any{"appid": appid}
		if known {
			payload["name"] = app.Name
			payload["developer"] = "Mock Studio"
			for k, v := range app.SpyData {
				payload[k] = v
			}
		}
		writeJSON(w, payload)

	default:
		http.Error(w, "unknown request", http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
	}
}

// Catalog builds n sequentially numbered apps for bulk tests, all
// available, with ids 10, 20, 30, ...
func Catalog(n int) []MockApp {
	apps := make([]MockApp, n)
	for i := range apps {
		id := (i + 1) * 10
		apps[i] = MockApp{
			ID:        id,
			Name:      fmt.Sprintf("Game %d", id),
			Available: true,
		}
	}
	return apps
}
