package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pinboard-server/core"
	"pinboard-server/stores/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{}

func (stubGateway) Random(ctx context.Context, count int) ([]core.UnsplashPhoto, error) {
	photos := make([]core.UnsplashPhoto, count)
	for i := range photos {
		photos[i] = core.UnsplashPhoto{ID: "p", URL: "https://img/p", Author: "Jo"}
	}
	return photos, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(setupRouter(memory.NewPostStore(), stubGateway{}, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body, user string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestOwnershipScenario(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodPost, "/api/posts", `{"usuario":"ana","link_imagen":"http://x/1.jpg","etiquetas":["sun"]}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created core.Post
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, []string{"sun"}, created.Etiquetas)

	resp, _ = call(t, srv, http.MethodPut, "/api/posts/1", `{"usuario":"bob2"}`, "bob")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/api/posts/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unchanged core.Post
	require.NoError(t, json.Unmarshal(body, &unchanged))
	assert.Equal(t, "ana", unchanged.Usuario)

	resp, body = call(t, srv, http.MethodPut, "/api/posts/1", `{"link_imagen":"http://x/2.jpg"}`, "ana")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated core.Post
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "http://x/2.jpg", updated.LinkImagen)
	assert.Equal(t, "ana", updated.Usuario)
	assert.Equal(t, []string{"sun"}, updated.Etiquetas)

	resp, body = call(t, srv, http.MethodDelete, "/api/posts/1", "", "ana")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = call(t, srv, http.MethodGet, "/api/posts/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaginationScenario(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 15; i++ {
		resp, _ := call(t, srv, http.MethodPost, "/api/posts", `{"usuario":"ana","link_imagen":"http://x/1.jpg"}`, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := call(t, srv, http.MethodGet, "/api/posts?page=2&limit=10", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Total int         `json:"total"`
		Posts []core.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Posts, 5)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/favicon.ico", http.StatusNoContent},
		{http.MethodGet, "/api/posts", http.StatusOK},
		{http.MethodGet, "/api/posts/abc", http.StatusUnprocessableEntity},
		{http.MethodGet, "/api/discovery?count=3", http.StatusOK},
		{http.MethodGet, "/api/discovery?count=31", http.StatusUnprocessableEntity},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, _ := call(t, srv, tt.method, tt.path, "", "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/posts/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "X-User, Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestDiscoveryScenario(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodGet, "/api/discovery?count=3", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var photos []core.UnsplashPhoto
	require.NoError(t, json.Unmarshal(body, &photos))
	assert.Len(t, photos, 3)
}
