// Package catalog serves the product list: bundled fixtures for the
// storefront, overridden by the admin demo-data blob once the console has
// written one. All filtering, sorting and paging happens in memory.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
	"shopizen/pkg/idgen"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("product not found")

// Filter narrows, orders and pages a product listing.
type Filter struct {
	Query    string
	Category string
	Brand    string
	PriceMin float64
	PriceMax float64
	SortBy   string // one of id, name, price, rating, discount
	Order    string // asc or desc
	Page     int
	PerPage  int
}

type Provider struct {
	store kvstore.Store

	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
	brands     []domain.Brand
}

// Load reads the catalog fixtures and applies the admin override blob when
// one exists in the store.
func Load(fixtureDir string, store kvstore.Store) (*Provider, error) {
	p := &Provider{store: store}

	if err := readFixture(fixtureDir, "products.json", &p.products); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	// Optional fixtures degrade to empty lists.
	if err := readFixture(fixtureDir, "categories.json", &p.categories); err != nil {
		zap.L().Warn("catalog: categories fixture missing", zap.Error(err))
	}
	if err := readFixture(fixtureDir, "brands.json", &p.brands); err != nil {
		zap.L().Warn("catalog: brands fixture missing", zap.Error(err))
	}

	var override []domain.Product
	if found, err := store.Get(kvstore.KeyAdminProducts, &override); err == nil && found {
		p.products = override
		zap.L().Info("catalog: admin product override loaded", zap.Int("count", len(override)))
	}
	return p, nil
}

func readFixture(dir, name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// NewFromProducts builds a provider over an explicit product list, used by
// tests.
func NewFromProducts(store kvstore.Store, products []domain.Product) *Provider {
	return &Provider{store: store, products: products}
}

func (p *Provider) Get(id int64) (*domain.Product, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := range p.products {
		if p.products[i].ID == id {
			prod := p.products[i]
			return &prod, nil
		}
	}
	return nil, ErrNotFound
}

func (p *Provider) Categories() []domain.Category {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Category(nil), p.categories...)
}

func (p *Provider) Brands() []domain.Brand {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Brand(nil), p.brands...)
}

// Query applies filter, whitelist sort and pagination, returning the page
// and the total match count.
func (p *Provider) Query(f Filter) ([]domain.Product, int) {
	p.mu.RLock()
	matched := make([]domain.Product, 0, len(p.products))
	q := strings.ToLower(strings.TrimSpace(f.Query))
	for _, prod := range p.products {
		if q != "" && !strings.Contains(strings.ToLower(prod.Name), q) &&
			!strings.Contains(strings.ToLower(prod.Brand), q) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(prod.Category, f.Category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(prod.Brand, f.Brand) {
			continue
		}
		if f.PriceMin > 0 && prod.Price < f.PriceMin {
			continue
		}
		if f.PriceMax > 0 && prod.Price > f.PriceMax {
			continue
		}
		matched = append(matched, prod)
	}
	p.mu.RUnlock()

	sortProducts(matched, f.SortBy, f.Order)

	total := len(matched)
	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	start := (page - 1) * perPage
	if start >= total {
		return []domain.Product{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func sortProducts(list []domain.Product, by, order string) {
	desc := strings.EqualFold(order, "desc")
	var less func(a, b domain.Product) bool
	switch by {
	case "name":
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "price":
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case "rating":
		less = func(a, b domain.Product) bool { return a.Rating < b.Rating }
	case "discount":
		less = func(a, b domain.Product) bool { return a.Discount < b.Discount }
	default:
		less = func(a, b domain.Product) bool { return a.ID < b.ID }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// Create assigns a fresh unique id and persists the full list to the admin
// override blob.
func (p *Provider) Create(prod domain.Product) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prod.ID = idgen.NextID()
	p.products = append(p.products, prod)
	if err := p.persistLocked(); err != nil {
		return nil, err
	}
	return &prod, nil
}

func (p *Provider) Update(prod domain.Product) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.products {
		if p.products[i].ID == prod.ID {
			p.products[i] = prod
			if err := p.persistLocked(); err != nil {
				return nil, err
			}
			return &prod, nil
		}
	}
	return nil, ErrNotFound
}

func (p *Provider) Delete(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.products {
		if p.products[i].ID == id {
			p.products = append(p.products[:i], p.products[i+1:]...)
			return p.persistLocked()
		}
	}
	return ErrNotFound
}

func (p *Provider) persistLocked() error {
	return p.store.Put(kvstore.KeyAdminProducts, p.products)
}
