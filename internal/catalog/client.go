// Package catalog talks to the upstream product catalog over REST and
// maps its wire shapes into domain values.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/storekit/storefront/pkg/errors"
	"github.com/storekit/storefront/pkg/httpclient"

	"github.com/storekit/storefront/internal/domain"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Provider is the read surface the rest of the app programs against.
// The caching layer wraps it transparently.
type Provider interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int) (domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// wireProduct is the upstream catalog's product shape. Prices arrive
// as float dollars and are converted to cents on the way in.
type wireProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (w wireProduct) toDomain() domain.Product {
	return domain.Product{
		ID:       w.ID,
		Title:    w.Title,
		Price:    int64(math.Round(w.Price * 100)),
		Category: w.Category,
		ImageURL: w.Image,
		Rating:   w.Rating.Rate,
	}
}

// Client is the REST catalog client.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
}

func NewClient(httpClient HTTPDoer, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.getJSON(ctx, "/products", &wire); err != nil {
		return nil, err
	}
	return toDomainSlice(wire), nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int) (domain.Product, error) {
	var wire wireProduct
	if err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), &wire); err != nil {
		return domain.Product{}, err
	}
	// The upstream answers an unknown id with an empty 200 body.
	if wire.ID == 0 {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return wire.toDomain(), nil
}

// Categories fetches the list of category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductsByCategory fetches all products in one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(category), &wire); err != nil {
		return nil, err
	}
	return toDomainSlice(wire), nil
}

// Login exchanges credentials for an upstream token. The token itself
// is discarded; a successful exchange proves the credentials.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized("invalid credentials")
	default:
		return httpclient.ParseResponseError(resp, "catalog")
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if loginResp.Token == "" {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

// Ping checks upstream reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/categories", nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("ping catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "catalog")
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "catalog")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func toDomainSlice(wire []wireProduct) []domain.Product {
	products := make([]domain.Product, len(wire))
	for i, w := range wire {
		products[i] = w.toDomain()
	}
	return products
}
