package kernel

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/routes"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/auth"
	"github.com/shashiranjanraj/estoque/pkg/event"
	"github.com/shashiranjanraj/estoque/pkg/testkit"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

func newInventory(t *testing.T, workDir string) *services.InventoryService {
	t.Helper()
	inv := services.NewInventoryService(services.Options{WorkDir: workDir, Events: event.New()})
	_, _ = inv.Open(context.Background())
	t.Cleanup(func() { _ = inv.Close() })
	return inv
}

func newHandler(t *testing.T, inv *services.InventoryService) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	k, err := NewHTTPKernel(routes.Deps{Inventory: inv, Hub: hub})
	require.NoError(t, err)
	return k.Handler()
}

func TestScenarios(t *testing.T) {
	handler := newHandler(t, newInventory(t, t.TempDir()))
	testkit.RunDir(t, handler, "testdata")
}

func TestExportImportOverHTTP(t *testing.T) {
	src := newInventory(t, t.TempDir())
	_, _, err := src.Create(context.Background(), models.ProductFields{Name: "Mouse Óptico", UnitPrice: 45.9, Quantity: 25, Category: "Eletrônicos"})
	require.NoError(t, err)
	h := newHandler(t, src)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/database/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-sqlite3", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="meu_estoque.sqlite"`, rec.Header().Get("Content-Disposition"))
	image := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(image, []byte("SQLite format 3\x00")))

	dst := newInventory(t, t.TempDir())
	h2 := newHandler(t, dst)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "meu_estoque.sqlite")
	require.NoError(t, err)
	_, _ = part.Write(image)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/database/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	h2.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, src.List(context.Background(), ""), dst.List(context.Background(), ""))
}

func TestImportRejectsGarbage(t *testing.T) {
	inv := newInventory(t, t.TempDir())
	h := newHandler(t, inv)

	req := httptest.NewRequest(http.MethodPost, "/api/database/import", strings.NewReader("not a database"))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be imported")
	assert.NoError(t, inv.Ready())
}

func TestEngineFailureAnswers503(t *testing.T) {
	inv := newInventory(t, filepath.Join(t.TempDir(), "missing"))
	h := newHandler(t, inv)

	for _, path := range []string{"/health", "/api/products", "/api/totals", "/api/database/export"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"name":"Mouse","unitPrice":1,"quantity":1}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEditorGuard(t *testing.T) {
	config.Set("AUTH_ENABLED", "true")
	t.Cleanup(func() { config.Set("AUTH_ENABLED", "false") })
	h := newHandler(t, newInventory(t, t.TempDir()))

	post := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/products",
			strings.NewReader(`{"name":"Mouse","unitPrice":"10","quantity":"2"}`))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	viewer, err := auth.GenerateToken("ana", auth.RoleViewer, 0)
	require.NoError(t, err)
	editor, err := auth.GenerateToken("bia", auth.RoleEditor, 0)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, post(""))
	assert.Equal(t, http.StatusForbidden, post(viewer))
	assert.Equal(t, http.StatusCreated, post(editor))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesTable(t *testing.T) {
	k, err := NewHTTPKernel(routes.Deps{Inventory: services.NewInventoryService(services.Options{})})
	require.NoError(t, err)

	names := map[string]string{}
	for _, ri := range k.Routes() {
		names[ri.Name] = ri.Method + " " + ri.Path
	}
	assert.Equal(t, "GET /api/products", names["products.index"])
	assert.Equal(t, "PUT /api/products/{id}", names["products.update"])
	assert.Equal(t, "POST /api/database/import", names["database.import"])
	assert.Equal(t, "* /metrics", names["metrics"])
	assert.Equal(t, "GET /ws/products", names["ws.products"])
}

func TestProductStreamSendsSnapshotThenChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	bus := event.New()
	inv := services.NewInventoryService(services.Options{WorkDir: t.TempDir(), Events: bus})
	_, err := inv.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = inv.Close() })

	k, err := NewHTTPKernel(routes.Deps{Inventory: inv, Hub: hub, Events: bus})
	require.NoError(t, err)
	srv := httptest.NewServer(k.Handler())
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/products", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	type frame struct {
		Event string `json:"event"`
		Data  struct {
			Products []map[string]any `json:"products"`
		} `json:"data"`
	}
	next := func() frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	first := next()
	assert.Equal(t, "inventory.snapshot", first.Event)
	assert.Empty(t, first.Data.Products)

	_, _, err = inv.Create(ctx, models.ProductFields{Name: "Mouse", UnitPrice: 10, Quantity: 1})
	require.NoError(t, err)

	changed := next()
	assert.Equal(t, services.EventInventoryChanged, changed.Event)
	require.Len(t, changed.Data.Products, 1)
	assert.Equal(t, "Mouse", changed.Data.Products[0]["name"])
}
