package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/pkg/errors"
)

type catalogService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(c *catalog.Catalog, logger *zap.Logger) *catalogService {
	return &catalogService{
		catalog: c,
		logger:  logger,
	}
}

// Counts returns the number of models and variants per category
func (s *catalogService) Counts() catalog.Counts {
	return s.catalog.Counts()
}

// Products lists the models of a category
func (s *catalogService) Products(category string) ([]domain.Product, error) {
	c, ok := domain.ParseCategory(category)
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "category", ID: category}
	}
	return s.catalog.Products(c), nil
}

// Options lists the attribute choices of a model. storage narrows the
// finishes and size narrows the colors.
func (s *catalogService) Options(category, model, storage, size string) (*OptionsResponse, error) {
	c, ok := domain.ParseCategory(category)
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "category", ID: category}
	}
	p, ok := s.catalog.ProductByModel(model)
	if !ok || p.Category != c {
		return nil, &errors.ErrNotFound{Resource: "model", ID: model}
	}

	resp := &OptionsResponse{Category: c, Model: p.Model}
	switch c.Dimension() {
	case domain.DimensionStorage:
		resp.Storage = s.catalog.StorageOptions(p.Model)
		resp.Finishes = s.catalog.FinishOptions(p.Model, storage)
	case domain.DimensionSize:
		resp.Sizes = s.catalog.SizeOptions(p.Model)
		resp.Colors = s.catalog.ColorOptions(p.Model, size)
	default:
		resp.Colors = s.catalog.ColorOptions(p.Model, "")
	}
	return resp, nil
}

// Resolve prices the variant matching q. Storage and finish apply to
// storage-keyed categories, size and color to the rest.
func (s *catalogService) Resolve(q ResolveQuery) (*catalog.Quote, error) {
	c, ok := domain.ParseCategory(q.Category)
	if !ok {
		return nil, &errors.ErrValidation{Invalid: []string{"category"}}
	}
	if strings.TrimSpace(q.Model) == "" {
		return nil, &errors.ErrValidation{Missing: []string{"model"}}
	}

	measure, finish := q.Storage, q.Finish
	if !c.UsesStorage() {
		measure, finish = q.Size, q.Color
	}

	v, ok := s.catalog.Resolve(c, q.Model, measure, finish)
	if !ok {
		s.logger.Debug("No variant for selection",
			zap.String("category", string(c)),
			zap.String("model", q.Model),
			zap.String("measure", measure),
			zap.String("finish", finish),
		)
		return nil, &errors.ErrNotFound{Resource: "variant", ID: strings.TrimSpace(q.Model + " " + measure + " " + finish)}
	}

	quote := catalog.QuoteFor(v)
	return &quote, nil
}

// Search finds models by name or product code
func (s *catalogService) Search(query string) []domain.Product {
	return s.catalog.Search(query)
}
