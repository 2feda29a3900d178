package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/storage/memory"
	"hannas-kitchen/internal/uploads"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := memory.New()
	svc := NewService(store, uploads.NewDisk(dir), logger.Discard())

	r := gin.New()
	NewHandler(svc, logger.Discard()).Register(r.Group("/api"))
	return r, store, dir
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "choco cake.png")
		if err != nil {
			t.Fatal(err)
		}
		part.Write(image)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestCreateItem_PersistsWithImage(t *testing.T) {
	r, store, dir := newTestRouter(t)

	body, ct := multipartBody(t, map[string]string{
		"name":     "Choco Cake",
		"price":    "450",
		"category": "Cake",
		"tags":     "spicy, veg , new",
	}, []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Item added!") {
		t.Errorf("body = %s", rec.Body.String())
	}

	items, _ := store.ListItems(req.Context())
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Price != 450 || item.Category != models.CategoryCake {
		t.Errorf("item = %+v", item)
	}
	if got := strings.Join(item.Tags, "|"); got != "spicy|veg|new" {
		t.Errorf("tags = %q", got)
	}
	if !strings.HasPrefix(item.ImageURL, uploads.PublicPrefix) || !strings.HasSuffix(item.ImageURL, "-choco_cake.png") {
		t.Errorf("imageUrl = %q", item.ImageURL)
	}
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(item.ImageURL, uploads.PublicPrefix)))
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("stored image = %q, %v", data, err)
	}
}

func TestCreateItem_WithoutImage(t *testing.T) {
	r, store, _ := newTestRouter(t)

	body, ct := multipartBody(t, map[string]string{"name": "Momos", "price": "120", "category": "Non-Veg"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	items, _ := store.ListItems(req.Context())
	if len(items) != 1 || items[0].ImageURL != "" || len(items[0].Tags) != 0 {
		t.Errorf("items = %+v", items)
	}
}

func TestCreateItem_Failures(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		fail   bool
	}{
		{"missing name", map[string]string{"price": "10", "category": "Cake"}, false},
		{"missing price", map[string]string{"name": "Tart", "category": "Cake"}, false},
		{"non numeric price", map[string]string{"name": "Tart", "price": "ten", "category": "Cake"}, false},
		{"unknown category", map[string]string{"name": "Tart", "price": "10", "category": "Dessert"}, false},
		{"store down", map[string]string{"name": "Tart", "price": "10", "category": "Cake"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := newTestRouter(t)
			if tt.fail {
				store.FailWith = errors.New("connection refused")
			}

			body, ct := multipartBody(t, tt.fields, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/items", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			var resp map[string]string
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["error"] != "Failed to add item" {
				t.Errorf("error = %q", resp["error"])
			}
		})
	}
}

func TestListItems(t *testing.T) {
	r, store, _ := newTestRouter(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	store.CreateItem(ctx, models.MenuItem{Name: "Paneer Roll", Category: models.CategoryVeg, Price: 90, Tags: []string{}})
	store.CreateItem(ctx, models.MenuItem{Name: "Brownie", Category: models.CategoryCake, Price: 80, Tags: []string{}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []models.MenuItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "Paneer Roll" || items[1].Name != "Brownie" {
		t.Errorf("items = %+v", items)
	}

	store.FailWith = errors.New("timeout")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Failed to fetch items") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

// nilCatalog returns nil slices the way a driver scanning zero rows can.
type nilCatalog struct{}

func (nilCatalog) ListItems(ctx context.Context) ([]models.MenuItem, error) { return nil, nil }

func (nilCatalog) CreateItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	return item, nil
}

func (nilCatalog) GetItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	return nil, nil
}

func TestListItems_EmptyCatalogIsEmptyArray(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
	}{
		{"memory", NewService(memory.New(), nil, logger.Discard())},
		{"nil slice from store", NewService(nilCatalog{}, nil, logger.Discard())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHandler(tt.svc, logger.Discard()).Register(r.Group("/api"))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
				t.Errorf("body = %s, want []", got)
			}
		})
	}
}
