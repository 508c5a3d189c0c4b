package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	name string
}

func (s stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Handler", s.name)
	w.WriteHeader(http.StatusTeapot)
}

type h struct{}

func (h) Check(w http.ResponseWriter, r *http.Request) {
	stubHandler{name: "check"}.ServeHTTP(w, r)
}
func (h) Ping(w http.ResponseWriter, r *http.Request) {
	stubHandler{name: "ping"}.ServeHTTP(w, r)
}

func TestCustomRouter_Route_happyTests(t *testing.T) {
	r := New(nil, nil)
	r.SetRouter(h{})
	srv := httptest.NewServer(r.GetRouter())
	defer srv.Close()

	tests := []struct {
		method      string
		path        string
		contentType string
		wantName    string
		wantCode    int
	}{
		{http.MethodPost, "/api/check", "application/json", "check", http.StatusTeapot},
		{http.MethodGet, "/ping", "", "ping", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path,
				strings.NewReader("{}"))
			require.NoError(t, err)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer func() {
				require.NoError(t, resp.Body.Close())
			}()

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantName, resp.Header.Get("X-Handler"))
		})
	}
}

func TestCustomRouter_Route_rejections(t *testing.T) {
	r := New(nil, nil)
	r.SetRouter(h{})
	srv := httptest.NewServer(r.GetRouter())
	defer srv.Close()

	t.Run("wrong method", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/api/check")
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("wrong content type", func(t *testing.T) {
		resp, err := srv.Client().Post(
			srv.URL+"/api/check", "text/plain", strings.NewReader("1,2"))
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}
