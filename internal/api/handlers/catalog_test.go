package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/service"
)

func newCatalogRouter(t *testing.T) *gin.Engine {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	svc := service.NewCatalogService(c, logger)

	r := gin.New()
	r.GET("/api/catalog", HandleCatalogCounts(svc))
	r.GET("/api/catalog/resolve", HandleResolveVariant(svc, logger))
	r.GET("/api/catalog/search", HandleSearchProducts(svc))
	r.GET("/api/catalog/:category", HandleListProducts(svc, logger))
	r.GET("/api/catalog/:category/:model/options", HandleProductOptions(svc, logger))
	r.GET("/api/store", HandleGetStore("store1", logger))
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandleResolveVariant(t *testing.T) {
	r := newCatalogRouter(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantPrice  string
	}{
		{"iphone", "/api/catalog/resolve?category=iphone&model=iPhone+16&storage=128GB&finish=Black", http.StatusOK, "₹74,900"},
		{"watch by size and color", "/api/catalog/resolve?category=watch&model=Apple+Watch+Ultra+3&size=49mm&color=Natural", http.StatusOK, ""},
		{"incomplete selection", "/api/catalog/resolve?category=iphone&model=iPhone+16&finish=Black", http.StatusNotFound, ""},
		{"unknown category", "/api/catalog/resolve?category=toaster&model=x", http.StatusBadRequest, ""},
		{"missing model", "/api/catalog/resolve?category=iphone", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantPrice != "" {
				var quote catalog.Quote
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
				assert.Equal(t, tt.wantPrice, quote.FormattedPrice)
			}
		})
	}
}

func TestHandleListProducts(t *testing.T) {
	r := newCatalogRouter(t)

	w := get(r, "/api/catalog/watch")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/catalog/phones").Code)
}

func TestHandleProductOptions(t *testing.T) {
	r := newCatalogRouter(t)

	w := get(r, "/api/catalog/iphone/iPhone%2017%20Pro/options?storage=1TB")
	require.Equal(t, http.StatusOK, w.Code)

	var opts service.OptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"256GB", "512GB", "1TB"}, opts.Storage)
	assert.Equal(t, []string{"Natural Titanium", "Blue Titanium", "White Titanium", "Black Titanium"}, opts.Finishes)

	w = get(r, "/api/catalog/iphone/iPhone%2017%20Pro/options?storage=2TB")
	require.Equal(t, http.StatusOK, w.Code)
	opts = service.OptionsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Empty(t, opts.Finishes)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/catalog/watch/iPhone%2017/options").Code)
}

func TestHandleCatalogCountsAndSearch(t *testing.T) {
	r := newCatalogRouter(t)

	w := get(r, "/api/catalog")
	require.Equal(t, http.StatusOK, w.Code)
	var counts catalog.Counts
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 4, counts.Products["watch"])
	assert.Positive(t, counts.TotalVariants)

	w = get(r, "/api/catalog/search?q=airpods")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AirPods Max")
}

func TestHandleGetStore(t *testing.T) {
	r := newCatalogRouter(t)

	w := get(r, "/api/store")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "One Horizon Center")

	fallback := gin.New()
	fallback.GET("/api/store", HandleGetStore("store99", zaptest.NewLogger(t)))
	w = get(fallback, "/api/store")
	assert.Contains(t, w.Body.String(), `"id":"store1"`)
}
