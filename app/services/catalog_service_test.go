package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copromote/henry-help/config"
)

func catalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		Timeout:  5 * time.Second,
		PageSize: 2,
	}
}

func TestNewCatalogServiceUnsupportedPlatform(t *testing.T) {
	_, err := NewCatalogService("etsy", catalogConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog platform")
}

func TestShopifyFetchPage(t *testing.T) {
	var gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[
			{"id":101,"title":"4K OLED TV","vendor":"Acme","image":{"src":"https://cdn.example.com/tv.jpg"},"variants":[{"price":"1299.99"}]},
			{"id":102,"title":"Soundbar","variants":[{"price":"349.00"}]}
		]}`))
	}))
	defer server.Close()

	svc, err := NewCatalogService("shopify", catalogConfig())
	require.NoError(t, err)
	assert.Equal(t, "shopify", svc.Platform())

	page, err := svc.FetchPage(context.Background(), server.URL, "shpat-test", 1)
	require.NoError(t, err)

	assert.Equal(t, "shpat-test", gotToken)
	assert.Equal(t, "limit=2&page=1", gotQuery)

	require.Len(t, page.Products, 2)
	assert.True(t, page.HasMore, "full page should signal more")

	first := page.Products[0]
	assert.Equal(t, "101", first.ExternalID)
	assert.Equal(t, "4K OLED TV", first.Title)
	assert.Equal(t, 1299.99, first.Price)
	require.NotNil(t, first.Vendor)
	assert.Equal(t, "Acme", *first.Vendor)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "https://cdn.example.com/tv.jpg", *first.ImageURL)

	second := page.Products[1]
	assert.Nil(t, second.Vendor)
	assert.Nil(t, second.ImageURL)
	assert.Equal(t, 349.00, second.Price)
}

func TestShopifyFetchPageLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":103,"title":"HDMI Cable","variants":[{"price":"12.50"}]}]}`))
	}))
	defer server.Close()

	svc, err := NewCatalogService("shopify", catalogConfig())
	require.NoError(t, err)

	page, err := svc.FetchPage(context.Background(), server.URL, "shpat-test", 3)
	require.NoError(t, err)
	assert.False(t, page.HasMore, "short page should end pagination")
}

func TestShopifyFetchPageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc, err := NewCatalogService("shopify", catalogConfig())
	require.NoError(t, err)

	_, err = svc.FetchPage(context.Background(), server.URL, "bad-key", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopify http status: 401")
}

func TestWooCommerceFetchPage(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("X-WP-TotalPages", "3")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":7,"name":"Washer","price":"899.00","images":[{"src":"https://cdn.example.com/washer.jpg"}]},
			{"id":8,"name":"Dryer","price":"799.00"}
		]`))
	}))
	defer server.Close()

	svc, err := NewCatalogService("woocommerce", catalogConfig())
	require.NoError(t, err)
	assert.Equal(t, "woocommerce", svc.Platform())

	page, err := svc.FetchPage(context.Background(), server.URL, "ck-test", 2)
	require.NoError(t, err)

	assert.Equal(t, "Bearer ck-test", gotAuth)

	require.Len(t, page.Products, 2)
	assert.True(t, page.HasMore, "page 2 of 3 should signal more")

	assert.Equal(t, "7", page.Products[0].ExternalID)
	assert.Equal(t, "Washer", page.Products[0].Title)
	assert.Equal(t, 899.00, page.Products[0].Price)
	require.NotNil(t, page.Products[0].ImageURL)
	assert.Nil(t, page.Products[1].ImageURL)
}

func TestWooCommerceFetchPageTotalPagesEndsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "2")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":9,"name":"Fridge","price":"1599.00"},{"id":10,"name":"Freezer","price":"999.00"}]`))
	}))
	defer server.Close()

	svc, err := NewCatalogService("woocommerce", catalogConfig())
	require.NoError(t, err)

	page, err := svc.FetchPage(context.Background(), server.URL, "ck-test", 2)
	require.NoError(t, err)
	assert.False(t, page.HasMore, "header total pages should win over page fill")
}

func TestMockCatalogServiceFailures(t *testing.T) {
	mock := &MockCatalogService{
		Pages:    []CatalogPage{{Products: []CatalogProduct{{ExternalID: "1", Title: "TV"}}}},
		Err:      assert.AnError,
		Failures: 1,
	}

	_, err := mock.FetchPage(context.Background(), "https://store.test", "key", 1)
	require.Error(t, err)

	page, err := mock.FetchPage(context.Background(), "https://store.test", "key", 1)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "TV", page.Products[0].Title)
}
