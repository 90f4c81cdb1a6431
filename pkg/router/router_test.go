package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupRoutesAndNames(t *testing.T) {
	r := New()
	var seen []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	api.Get("/products", "products.index", ok)
	api.Put("/products/{id}", "products.update", ok, tag("editor"))
	api.Delete("/products/{id}", "products.destroy", ok)
	r.Handle("/metrics", "", http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/products/7", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "editor"}, seen)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products/7", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	url, err := r.URL("products.update", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/7", url)

	_, err = r.URL("products.update", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	assert.Equal(t, []RouteInfo{
		{Method: "GET", Path: "/api/products", Name: "products.index"},
		{Method: "DELETE", Path: "/api/products/{id}", Name: "products.destroy"},
		{Method: "PUT", Path: "/api/products/{id}", Name: "products.update"},
		{Method: "*", Path: "/metrics"},
	}, r.Routes())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath())
	assert.Equal(t, "/", normalizePath(""))
	assert.Equal(t, "/api/products", joinPath("/api/", "/products/"))
}
