package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/copromote/henry-help/config"
)

// CatalogProduct is one product record fetched from a store, normalized
// across platforms.
type CatalogProduct struct {
	ExternalID string
	Title      string
	Price      float64
	Currency   string
	ImageURL   *string
	Vendor     *string
}

// CatalogPage is one page of a store's product listing
type CatalogPage struct {
	Products []CatalogProduct
	HasMore  bool
}

// CatalogService fetches a store's products page by page. Implementations
// exist per e-commerce platform; callers drive pagination until HasMore is
// false.
type CatalogService interface {
	FetchPage(ctx context.Context, storeURL, apiKey string, page int) (*CatalogPage, error)
	Platform() string
}

// NewCatalogService returns the client for the named platform.
func NewCatalogService(platform string, cfg config.CatalogConfig) (CatalogService, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}

	switch platform {
	case "shopify":
		return &shopifyClient{client: client, pageSize: cfg.PageSize}, nil
	case "woocommerce":
		return &wooCommerceClient{client: client, pageSize: cfg.PageSize}, nil
	default:
		return nil, fmt.Errorf("unsupported catalog platform: %s", platform)
	}
}

type shopifyClient struct {
	client   *http.Client
	pageSize int
}

func (c *shopifyClient) Platform() string { return "shopify" }

// FetchPage reads one page of /admin/api products. Shopify paginates with
// limit/page query params on this endpoint.
func (c *shopifyClient) FetchPage(ctx context.Context, storeURL, apiKey string, page int) (*CatalogPage, error) {
	limit := c.pageSize
	if limit <= 0 {
		limit = 50
	}

	endpoint, err := url.JoinPath(storeURL, "/admin/api/2024-01/products.json")
	if err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}
	endpoint += "?limit=" + strconv.Itoa(limit) + "&page=" + strconv.Itoa(page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shopify http status: %d", resp.StatusCode)
	}

	var out struct {
		Products []struct {
			ID       int64  `json:"id"`
			Title    string `json:"title"`
			Vendor   string `json:"vendor"`
			Image    *struct {
				Src string `json:"src"`
			} `json:"image"`
			Variants []struct {
				Price string `json:"price"`
			} `json:"variants"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode shopify response: %w", err)
	}

	result := &CatalogPage{HasMore: len(out.Products) == limit}
	for _, p := range out.Products {
		product := CatalogProduct{
			ExternalID: strconv.FormatInt(p.ID, 10),
			Title:      p.Title,
			Currency:   "USD",
		}
		if p.Vendor != "" {
			vendor := p.Vendor
			product.Vendor = &vendor
		}
		if p.Image != nil && p.Image.Src != "" {
			src := p.Image.Src
			product.ImageURL = &src
		}
		if len(p.Variants) > 0 {
			if price, err := strconv.ParseFloat(p.Variants[0].Price, 64); err == nil {
				product.Price = price
			}
		}
		result.Products = append(result.Products, product)
	}
	return result, nil
}

type wooCommerceClient struct {
	client   *http.Client
	pageSize int
}

func (c *wooCommerceClient) Platform() string { return "woocommerce" }

// FetchPage reads one page of /wp-json/wc/v3/products. WooCommerce paginates
// with per_page/page and reports the total page count in a response header.
func (c *wooCommerceClient) FetchPage(ctx context.Context, storeURL, apiKey string, page int) (*CatalogPage, error) {
	limit := c.pageSize
	if limit <= 0 {
		limit = 50
	}

	endpoint, err := url.JoinPath(storeURL, "/wp-json/wc/v3/products")
	if err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}
	endpoint += "?per_page=" + strconv.Itoa(limit) + "&page=" + strconv.Itoa(page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("woocommerce http status: %d", resp.StatusCode)
	}

	var out []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Price  string `json:"price"`
		Images []struct {
			Src string `json:"src"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode woocommerce response: %w", err)
	}

	result := &CatalogPage{}
	if totalPages, err := strconv.Atoi(resp.Header.Get("X-WP-TotalPages")); err == nil {
		result.HasMore = page < totalPages
	} else {
		result.HasMore = len(out) == limit
	}

	for _, p := range out {
		product := CatalogProduct{
			ExternalID: strconv.FormatInt(p.ID, 10),
			Title:      p.Name,
			Currency:   "USD",
		}
		if price, err := strconv.ParseFloat(p.Price, 64); err == nil {
			product.Price = price
		}
		if len(p.Images) > 0 && p.Images[0].Src != "" {
			src := p.Images[0].Src
			product.ImageURL = &src
		}
		result.Products = append(result.Products, product)
	}
	return result, nil
}

// MockCatalogService serves canned pages for tests
type MockCatalogService struct {
	Pages    []CatalogPage
	Err      error
	Failures int // number of leading calls that return Err
	fetches  int
}

func (m *MockCatalogService) Platform() string { return "mock" }

func (m *MockCatalogService) FetchPage(ctx context.Context, storeURL, apiKey string, page int) (*CatalogPage, error) {
	m.fetches++
	if m.Err != nil && (m.Failures == 0 || m.fetches <= m.Failures) {
		return nil, m.Err
	}
	idx := page - 1
	if idx < 0 || idx >= len(m.Pages) {
		return &CatalogPage{}, nil
	}
	p := m.Pages[idx]
	return &p, nil
}
