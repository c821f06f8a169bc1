package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/shopfront/internal/resilience"
)

// Client fetches raw product pages from the products service.
type Client struct {
	BaseURL string
	HTTP    resilience.Client
}

type productsPayload struct {
	Products []RawProduct `json:"products"`
}

// Fetch retrieves one page of products and maps each record.
func (c Client) Fetch(ctx context.Context, page, limit int) ([]Product, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("catalog: products service url not configured")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	endpoint, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + "/products")
	if err != nil {
		return nil, fmt.Errorf("catalog: parse products url: %w", err)
	}
	q := endpoint.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: products service returned %s", resp.Status)
	}

	var payload productsPayload
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	products := make([]Product, 0, len(payload.Products))
	for _, raw := range payload.Products {
		products = append(products, MapProduct(raw))
	}
	return products, nil
}
