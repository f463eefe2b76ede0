package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/config"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/service"
	"github.com/unicornstore/prebook/pkg/errors"
)

// CatalogReader is the read side of the product catalog
type CatalogReader interface {
	Counts() catalog.Counts
	Products(category string) ([]domain.Product, error)
	Options(category, model, storage, size string) (*service.OptionsResponse, error)
	Resolve(q service.ResolveQuery) (*catalog.Quote, error)
	Search(query string) []domain.Product
}

// HandleCatalogCounts handles GET /api/catalog
func HandleCatalogCounts(cat CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cat.Counts())
	}
}

// HandleListProducts handles GET /api/catalog/:category
func HandleListProducts(cat CatalogReader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := cat.Products(c.Param("category"))
		if err != nil {
			writeCatalogError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// HandleProductOptions handles GET /api/catalog/:category/:model/options
func HandleProductOptions(cat CatalogReader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, err := cat.Options(c.Param("category"), c.Param("model"), c.Query("storage"), c.Query("size"))
		if err != nil {
			writeCatalogError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, opts)
	}
}

// HandleResolveVariant handles GET /api/catalog/resolve
func HandleResolveVariant(cat CatalogReader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q service.ResolveQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
			return
		}

		quote, err := cat.Resolve(q)
		if err != nil {
			writeCatalogError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

// HandleSearchProducts handles GET /api/catalog/search?q=
func HandleSearchProducts(cat CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := cat.Search(c.Query("q"))
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// HandleGetStore handles GET /api/store
func HandleGetStore(storeID string, logger *zap.Logger) gin.HandlerFunc {
	store, ok := config.Store(storeID)
	if !ok {
		logger.Warn("Unknown store id, serving default store",
			zap.String("store_id", storeID),
			zap.String("default", config.DefaultStoreID),
		)
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store)
	}
}

func writeCatalogError(c *gin.Context, err error, logger *zap.Logger) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         e.Error(),
			"missingFields": e.Missing,
			"invalidFields": e.Invalid,
		})
	default:
		logger.Error("Catalog request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
