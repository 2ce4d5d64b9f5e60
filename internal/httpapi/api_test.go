package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
	"github.com/goliatone/go-menu-catalog/catalogcache"
	"github.com/goliatone/go-menu-catalog/internal/metrics"
	"github.com/goliatone/go-menu-catalog/internal/store"
	"github.com/goliatone/go-menu-catalog/pkg/testsupport"
)

type testServer struct {
	*httptest.Server
	redis *miniredis.Miniredis
	store *store.Store
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()

	db := testsupport.OpenSQLite(t)
	require.NoError(t, store.CreateSchema(context.Background(), db))
	st := store.New(db, nil)

	mr, client := testsupport.StartRedis(t)
	cat := catalogcache.New(st, cache.NewRedisStore(client))

	srv := httptest.NewServer(New(cat, opts...).Routes())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, redis: mr, store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	status, raw := s.doRaw(t, method, path, body, header...)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return status, out
}

func (s *testServer) list(t *testing.T, path string, header ...string) (int, []map[string]any) {
	t.Helper()
	status, raw := s.doRaw(t, http.MethodGet, path, nil, header...)
	var out []map[string]any
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return status, out
}

func (s *testServer) doRaw(t *testing.T, method, path string, body any, header ...string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (s *testServer) createTree(t *testing.T) (menuID, submenuID, dishID string) {
	t.Helper()

	status, menu := s.do(t, http.MethodPost, "/api/v1/menus", map[string]string{"title": "alcohol", "description": "drinks"})
	require.Equal(t, http.StatusCreated, status)
	menuID = menu["id"].(string)

	status, submenu := s.do(t, http.MethodPost, "/api/v1/menus/"+menuID+"/submenus", map[string]string{"title": "wine", "description": "red"})
	require.Equal(t, http.StatusCreated, status)
	submenuID = submenu["id"].(string)

	status, dish := s.do(t, http.MethodPost, "/api/v1/menus/"+menuID+"/submenus/"+submenuID+"/dishes",
		map[string]string{"title": "merlot", "description": "dry", "price": "80.50"})
	require.Equal(t, http.StatusCreated, status)
	dishID = dish["id"].(string)
	return menuID, submenuID, dishID
}

func TestAPI_CountsScenario(t *testing.T) {
	s := newTestServer(t)

	status, menu := s.do(t, http.MethodPost, "/api/v1/menus", map[string]string{"title": "menu", "description": "d"})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 0, menu["submenus_count"])
	assert.EqualValues(t, 0, menu["dishes_count"])
	menuPath := "/api/v1/menus/" + menu["id"].(string)

	status, submenu := s.do(t, http.MethodPost, menuPath+"/submenus", map[string]string{"title": "submenu", "description": "d"})
	require.Equal(t, http.StatusCreated, status)
	submenuPath := menuPath + "/submenus/" + submenu["id"].(string)

	for _, title := range []string{"one", "two"} {
		status, _ := s.do(t, http.MethodPost, submenuPath+"/dishes", map[string]string{"title": title, "description": "d", "price": "12.5"})
		require.Equal(t, http.StatusCreated, status)
	}

	status, got := s.do(t, http.MethodGet, menuPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, got["submenus_count"])
	assert.EqualValues(t, 2, got["dishes_count"])

	status, got = s.do(t, http.MethodGet, submenuPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, got["dishes_count"])

	status, body := s.do(t, http.MethodDelete, submenuPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": true, "message": "The submenu has been deleted"}, body)

	status, got = s.do(t, http.MethodGet, menuPath, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, got["submenus_count"])
	assert.EqualValues(t, 0, got["dishes_count"])

	status, body = s.do(t, http.MethodGet, submenuPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "submenu not found", body["detail"])

	status, dishes := s.list(t, submenuPath+"/dishes")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, dishes)
}

func TestAPI_MenuCRUD(t *testing.T) {
	s := newTestServer(t)

	status, menus := s.list(t, "/api/v1/menus")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, menus)

	status, menu := s.do(t, http.MethodPost, "/api/v1/menus", map[string]string{"title": "My menu 1", "description": "My menu description 1"})
	require.Equal(t, http.StatusCreated, status)
	path := "/api/v1/menus/" + menu["id"].(string)

	status, menus = s.list(t, "/api/v1/menus")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, menus, 1)

	status, updated := s.do(t, http.MethodPatch, path, map[string]string{"title": "My updated menu 1", "description": "My updated menu description 1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "My updated menu 1", updated["title"])

	status, got := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "My updated menu description 1", got["description"])

	status, body := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "The menu has been deleted", body["message"])

	status, body = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "menu not found", body["detail"])

	status, menus = s.list(t, "/api/v1/menus")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, menus)
}

func TestAPI_DishLifecycle(t *testing.T) {
	s := newTestServer(t)
	menuID, submenuID, dishID := s.createTree(t)
	path := "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes/" + dishID

	status, dish := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "80.50", dish["price"])

	status, dish = s.do(t, http.MethodPatch, path, map[string]string{"title": "cabernet", "description": "dry", "price": "99.999"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "100.00", dish["price"])

	status, body := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "The dish has been deleted", body["message"])

	status, body = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "dish not found", body["detail"])
}

func TestAPI_InvalidPrice(t *testing.T) {
	s := newTestServer(t)
	menuID, submenuID, _ := s.createTree(t)
	dishes := "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes"

	before := len(s.redis.Keys())
	status, body := s.do(t, http.MethodPost, dishes, map[string]string{"title": "bad", "description": "d", "price": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "price type is not correct", body["detail"])
	assert.Len(t, s.redis.Keys(), before, "a rejected write must not touch the cache")

	status, list := s.list(t, dishes)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)
}

func TestAPI_DiscountExpires(t *testing.T) {
	s := newTestServer(t)
	menuID, submenuID, dishID := s.createTree(t)
	path := "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes/" + dishID

	key := dishID + "_discount"
	require.NoError(t, s.redis.Set(key, "20"))
	s.redis.SetTTL(key, 15*time.Second)

	status, dish := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "64.40", dish["price"])

	status, list := s.list(t, "/api/v1/menus/"+menuID+"/submenus/"+submenuID+"/dishes")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "64.40", list[0]["price"])

	s.redis.FastForward(16 * time.Second)

	status, dish = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "80.50", dish["price"])
}

func TestAPI_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	menuID, submenuID, _ := s.createTree(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"malformed menu id", http.MethodGet, "/api/v1/menus/not-a-uuid", nil},
		{"malformed submenu id", http.MethodGet, "/api/v1/menus/" + menuID + "/submenus/42", nil},
		{"malformed json", http.MethodPost, "/api/v1/menus", `{"title":`},
		{"missing title", http.MethodPost, "/api/v1/menus", map[string]string{"description": "d"}},
		{"missing description", http.MethodPatch, "/api/v1/menus/" + menuID, map[string]string{"title": "t"}},
		{"missing price", http.MethodPost, "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes", map[string]string{"title": "t", "description": "d"}},
		{"price as number", http.MethodPost, "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes", map[string]any{"title": "t", "description": "d", "price": 12.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Contains(t, body, "detail")
		})
	}
}

func TestAPI_NotFound(t *testing.T) {
	s := newTestServer(t)
	menuID, submenuID, _ := s.createTree(t)
	missing := "00000000-0000-0000-0000-000000000001"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		detail string
	}{
		{"get menu", http.MethodGet, "/api/v1/menus/" + missing, nil, "menu not found"},
		{"patch menu", http.MethodPatch, "/api/v1/menus/" + missing, map[string]string{"title": "t", "description": "d"}, "menu not found"},
		{"delete menu", http.MethodDelete, "/api/v1/menus/" + missing, nil, "menu not found"},
		{"submenu under missing menu", http.MethodPost, "/api/v1/menus/" + missing + "/submenus", map[string]string{"title": "t", "description": "d"}, "menu not found"},
		{"submenu of another menu", http.MethodGet, "/api/v1/menus/" + missing + "/submenus/" + submenuID, nil, "submenu not found"},
		{"dish under missing submenu", http.MethodPost, "/api/v1/menus/" + menuID + "/submenus/" + missing + "/dishes",
			map[string]string{"title": "t", "description": "d", "price": "1"}, "submenu not found"},
		{"delete dish", http.MethodDelete, "/api/v1/menus/" + menuID + "/submenus/" + submenuID + "/dishes/" + missing, nil, "dish not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, tt.detail, body["detail"])
		})
	}
}

func TestAPI_NoCacheBypassesCachedRead(t *testing.T) {
	s := newTestServer(t)
	menuID, _, _ := s.createTree(t)
	path := "/api/v1/menus/" + menuID

	status, _ := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)

	// change the row behind the cache's back
	n, err := s.store.UpdateMenu(context.Background(), uuidOf(t, menuID), catalog.Details{Title: "renamed"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, cached := s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, "alcohol", cached["title"])

	_, fresh := s.do(t, http.MethodGet, path, nil, "Cache-Control", "no-cache")
	assert.Equal(t, "renamed", fresh["title"])

	_, after := s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, "renamed", after["title"], "bypassed read should repopulate the cache")
}

func TestAPI_FullMenu(t *testing.T) {
	s := newTestServer(t)
	_, _, dishID := s.createTree(t)
	require.NoError(t, s.redis.Set(dishID+"_discount", "50"))

	status, raw := s.doRaw(t, http.MethodGet, "/api/v1/full_menu", nil)
	require.Equal(t, http.StatusOK, status)

	var menus []catalog.FullMenuView
	require.NoError(t, json.Unmarshal(raw, &menus))
	require.Len(t, menus, 1)
	require.Len(t, menus[0].Submenus, 1)
	require.Len(t, menus[0].Submenus[0].Dishes, 1)
	assert.Equal(t, "40.25", menus[0].Submenus[0].Dishes[0].Price)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	collector := metrics.NewCollector("catalog")
	s := newTestServer(t,
		WithMetrics(collector),
		WithHealthCheck("database", func(context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("connection refused")
		}),
	)

	status, body := s.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	healthy.Store(false)
	status, body = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, map[string]any{"database": "connection refused"}, body["checks"])

	s.list(t, "/api/v1/menus")
	status, raw := s.doRaw(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "catalog_http_requests_total")
}

func TestNoCache(t *testing.T) {
	assert.True(t, noCache([]string{"no-cache"}))
	assert.True(t, noCache([]string{"max-age=0, No-Cache"}))
	assert.False(t, noCache([]string{"no-store"}))
	assert.False(t, noCache(nil))
}
