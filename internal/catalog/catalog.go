package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unicornstore/prebook/internal/domain"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog is the immutable set of products offered on the landing page.
// It is safe for concurrent use once loaded.
type Catalog struct {
	byCategory map[domain.Category][]domain.Product
	byModel    map[string]domain.Product
}

type document struct {
	Category string           `yaml:"category"`
	Products []domain.Product `yaml:"products"`
}

// Counts summarizes the catalog size per category
type Counts struct {
	Products      map[domain.Category]int `json:"products"`
	Variants      map[domain.Category]int `json:"variants"`
	TotalProducts int                     `json:"totalProducts"`
	TotalVariants int                     `json:"totalVariants"`
}

// Load reads the catalog bundled with the binary
func Load() (*Catalog, error) {
	return LoadFS(dataFS, "data")
}

// LoadFS reads every *.yaml document in dir. Each document holds the
// products of one category.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog dir: %w", err)
	}

	var products []domain.Product
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		var doc document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		category, ok := domain.ParseCategory(doc.Category)
		if !ok {
			return nil, fmt.Errorf("%s: unknown category %q", entry.Name(), doc.Category)
		}
		for _, p := range doc.Products {
			p.Category = category
			products = append(products, p)
		}
	}

	return New(products)
}

// New validates products and builds a catalog from them
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		byCategory: make(map[domain.Category][]domain.Product),
		byModel:    make(map[string]domain.Product),
	}

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		key := normalizeModel(p.Model)
		if _, dup := c.byModel[key]; dup {
			return nil, fmt.Errorf("duplicate model %q", p.Model)
		}
		c.byModel[key] = p
		c.byCategory[p.Category] = append(c.byCategory[p.Category], p)
	}

	return c, nil
}

func validateProduct(p domain.Product) error {
	if !p.Category.IsValid() {
		return fmt.Errorf("model %q: invalid category %q", p.Model, p.Category)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("%s product with empty model", p.Category)
	}
	if len(p.Variants) == 0 {
		return fmt.Errorf("model %q has no variants", p.Model)
	}

	seen := make(map[string]bool, len(p.Variants))
	for i, v := range p.Variants {
		if err := validateVariant(p.Category, v); err != nil {
			return fmt.Errorf("model %q variant %d: %w", p.Model, i, err)
		}
		key := variantKey(p.Category, v)
		if seen[key] {
			return fmt.Errorf("model %q: duplicate variant %q", p.Model, key)
		}
		seen[key] = true
	}
	return validateMenus(p)
}

// validateMenus checks that a model's storage and finish menus cover every
// priced variant, so each variant stays selectable.
func validateMenus(p domain.Product) error {
	if len(p.StorageMenu) == 0 && len(p.FinishMenu) == 0 {
		return nil
	}
	if !p.Category.UsesStorage() {
		return fmt.Errorf("model %q: %s products take no storage or finish menu", p.Model, p.Category)
	}
	if len(p.StorageMenu) == 0 || len(p.FinishMenu) == 0 {
		return fmt.Errorf("model %q: storage and finish menus go together", p.Model)
	}

	storages, err := menuSet(p.StorageMenu, NormalizeMeasure)
	if err != nil {
		return fmt.Errorf("model %q storage menu: %w", p.Model, err)
	}
	finishes, err := menuSet(p.FinishMenu, NormalizeColor)
	if err != nil {
		return fmt.Errorf("model %q finish menu: %w", p.Model, err)
	}
	for _, v := range p.Variants {
		if !storages[NormalizeMeasure(v.Storage)] {
			return fmt.Errorf("model %q: variant storage %q missing from menu", p.Model, v.Storage)
		}
		if !finishes[NormalizeColor(v.Color)] {
			return fmt.Errorf("model %q: variant finish %q missing from menu", p.Model, v.Color)
		}
	}
	return nil
}

func menuSet(menu []string, normalize func(string) string) (map[string]bool, error) {
	set := make(map[string]bool, len(menu))
	for _, item := range menu {
		key := normalize(item)
		if key == "" {
			return nil, fmt.Errorf("blank entry")
		}
		if set[key] {
			return nil, fmt.Errorf("duplicate entry %q", item)
		}
		set[key] = true
	}
	return set, nil
}

func validateVariant(category domain.Category, v domain.Variant) error {
	if strings.TrimSpace(v.Color) == "" {
		return fmt.Errorf("color is required")
	}
	if v.MRP <= 0 {
		return fmt.Errorf("mrp must be positive")
	}
	if v.Discount < 0 {
		return fmt.Errorf("discount must not be negative")
	}

	switch category.Dimension() {
	case domain.DimensionStorage:
		if v.Storage == "" || v.Size != "" {
			return fmt.Errorf("%s variants need storage and no size", category)
		}
	case domain.DimensionSize:
		if v.Size == "" || v.Storage != "" {
			return fmt.Errorf("%s variants need size and no storage", category)
		}
	default:
		if v.Size != "" || v.Storage != "" {
			return fmt.Errorf("%s variants take neither storage nor size", category)
		}
	}

	extras := map[domain.Category]bool{
		domain.CategoryIPhone:  v.Phone != nil,
		domain.CategoryIPad:    v.Tablet != nil,
		domain.CategoryWatch:   v.Watch != nil,
		domain.CategoryAirPods: v.Audio != nil,
	}
	for owner, set := range extras {
		if set && owner != category {
			return fmt.Errorf("%s extras on a %s variant", owner, category)
		}
	}
	return nil
}

// variantKey is the (storage|size, color) lookup key of a variant
func variantKey(category domain.Category, v domain.Variant) string {
	return measureOf(category, v) + "|" + NormalizeColor(v.Color)
}

func measureOf(category domain.Category, v domain.Variant) string {
	switch category.Dimension() {
	case domain.DimensionStorage:
		return NormalizeMeasure(v.Storage)
	case domain.DimensionSize:
		return NormalizeMeasure(v.Size)
	default:
		return ""
	}
}

// Products returns the models of a category in catalog order
func (c *Catalog) Products(category domain.Category) []domain.Product {
	products := c.byCategory[category]
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

// ProductByModel finds a model in any category, ignoring case and spacing
func (c *Catalog) ProductByModel(model string) (domain.Product, bool) {
	p, ok := c.byModel[normalizeModel(model)]
	return p, ok
}

func (c *Catalog) product(category domain.Category, model string) (domain.Product, bool) {
	p, ok := c.ProductByModel(model)
	if !ok || p.Category != category {
		return domain.Product{}, false
	}
	return p, true
}

// Search matches model names and product codes by substring
func (c *Catalog) Search(query string) []domain.Product {
	q := normalizeModel(query)
	if q == "" {
		return nil
	}

	var out []domain.Product
	for _, category := range domain.Categories {
		for _, p := range c.byCategory[category] {
			if strings.Contains(normalizeModel(p.Model), q) ||
				strings.Contains(normalizeModel(p.ProductCode), q) {
				out = append(out, p)
			}
		}
	}
	return out
}

// AllVariants flattens the variants of every model in a category
func (c *Catalog) AllVariants(category domain.Category) []domain.Variant {
	var out []domain.Variant
	for _, p := range c.byCategory[category] {
		out = append(out, p.Variants...)
	}
	return out
}

// Counts returns model and variant totals per category
func (c *Catalog) Counts() Counts {
	counts := Counts{
		Products: make(map[domain.Category]int, len(domain.Categories)),
		Variants: make(map[domain.Category]int, len(domain.Categories)),
	}
	for _, category := range domain.Categories {
		products := c.byCategory[category]
		counts.Products[category] = len(products)
		counts.TotalProducts += len(products)
		for _, p := range products {
			counts.Variants[category] += len(p.Variants)
			counts.TotalVariants += len(p.Variants)
		}
	}
	return counts
}

// Resolve finds the variant of model matching the selected storage or size
// and finish or color. The second return value is false when the selection
// is incomplete or nothing matches; that is not an error.
func (c *Catalog) Resolve(category domain.Category, model, storageOrSize, finishOrColor string) (domain.Variant, bool) {
	p, ok := c.product(category, model)
	if !ok {
		return domain.Variant{}, false
	}

	measure := NormalizeMeasure(storageOrSize)
	if category.Dimension() == domain.DimensionNone {
		measure = ""
	} else if measure == "" {
		return domain.Variant{}, false
	}

	finish := NormalizeColor(finishOrColor)
	if finish == "" {
		return domain.Variant{}, false
	}

	for _, v := range p.Variants {
		if measureOf(category, v) != measure {
			continue
		}
		if NormalizeColor(v.Color) == finish || NormalizeColor(v.ColorCode) == finish {
			return v, true
		}
	}
	return domain.Variant{}, false
}

// StorageOptions lists the storage capacities offered for a model. A model
// with a storage menu offers the menu as written; otherwise the capacities
// of its priced variants are listed.
func (c *Catalog) StorageOptions(model string) []string {
	p, ok := c.ProductByModel(model)
	if !ok || !p.Category.UsesStorage() {
		return nil
	}
	if len(p.StorageMenu) > 0 {
		return append([]string(nil), p.StorageMenu...)
	}
	return distinctMeasures(p.Variants, func(v domain.Variant) string { return v.Storage })
}

// FinishOptions lists the finishes offered for a model at a storage
// capacity. An empty storage lists every finish of the model. A finish menu
// is offered whole at every capacity on the menu.
func (c *Catalog) FinishOptions(model, storage string) []string {
	p, ok := c.ProductByModel(model)
	if !ok || !p.Category.UsesStorage() {
		return nil
	}
	want := NormalizeMeasure(storage)
	if len(p.FinishMenu) > 0 {
		if want != "" && !containsMeasure(p.StorageMenu, want) {
			return nil
		}
		return append([]string(nil), p.FinishMenu...)
	}
	return distinctColors(p.Variants, func(v domain.Variant) bool {
		return want == "" || NormalizeMeasure(v.Storage) == want
	})
}

func containsMeasure(menu []string, normalized string) bool {
	for _, m := range menu {
		if NormalizeMeasure(m) == normalized {
			return true
		}
	}
	return false
}

// SizeOptions lists the case sizes offered for a watch model
func (c *Catalog) SizeOptions(model string) []string {
	p, ok := c.ProductByModel(model)
	if !ok || !p.Category.UsesSize() {
		return nil
	}
	return distinctMeasures(p.Variants, func(v domain.Variant) string { return v.Size })
}

// ColorOptions lists the colors of a watch model at a size, or of an
// AirPods model. An empty size lists every color.
func (c *Catalog) ColorOptions(model, size string) []string {
	p, ok := c.ProductByModel(model)
	if !ok || p.Category.UsesStorage() {
		return nil
	}
	want := NormalizeMeasure(size)
	return distinctColors(p.Variants, func(v domain.Variant) bool {
		return want == "" || !p.Category.UsesSize() || NormalizeMeasure(v.Size) == want
	})
}

func distinctMeasures(variants []domain.Variant, get func(domain.Variant) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range variants {
		m := get(v)
		key := NormalizeMeasure(m)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return measureRank(out[i]) < measureRank(out[j])
	})
	return out
}

func distinctColors(variants []domain.Variant, keep func(domain.Variant) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range variants {
		if !keep(v) {
			continue
		}
		key := NormalizeColor(v.Color)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v.Color)
	}
	sort.Strings(out)
	return out
}

// measureRank orders capacities so 1 TB sorts after 512 GB
func measureRank(m string) float64 {
	parts := measureParts.FindStringSubmatch(strings.ReplaceAll(NormalizeMeasure(m), " ", ""))
	if parts == nil {
		return 0
	}
	var n float64
	fmt.Sscanf(parts[1], "%g", &n)
	if parts[2] == "TB" {
		n *= 1024
	}
	return n
}
