// Package sheetstore is the HTTP client of the remote store endpoint.
package sheetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/domain/models"
)

// Client exposes the remote store actions used by the sync coordinator.
type Client interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetSales(ctx context.Context) ([]models.Sale, error)
	AddSale(ctx context.Context, sale models.Sale) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// envelope mirrors the store's response wrapper; data stays raw until the
// typed wrapper decodes it.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// NewClient builds a remote store client using the provided configuration.
func NewClient(cfg config.RemoteConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

// request posts an action envelope and decodes the data field into out when
// out is non-nil. An unsuccessful envelope or HTTP status is an error.
func (c *APIClient) request(ctx context.Context, action string, payload map[string]any, out any) error {
	body := map[string]any{"action": action}
	for k, v := range payload {
		body[k] = v
	}

	result := new(envelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post("")
	if err != nil {
		return fmt.Errorf("remote store %s: %w", action, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("remote store %s: status=%d", action, resp.StatusCode())
	}

	if !result.Success {
		return fmt.Errorf("remote store %s: %s", action, result.Message)
	}

	if out != nil && len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("remote store %s: decode data: %w", action, err)
		}
	}

	return nil
}

func (c *APIClient) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.request(ctx, models.ActionGetProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *APIClient) AddProduct(ctx context.Context, product models.Product) error {
	return c.request(ctx, models.ActionAddProduct, map[string]any{"product": product}, nil)
}

func (c *APIClient) UpdateProduct(ctx context.Context, product models.Product) error {
	return c.request(ctx, models.ActionUpdateProduct, map[string]any{"product": product}, nil)
}

func (c *APIClient) DeleteProduct(ctx context.Context, id string) error {
	return c.request(ctx, models.ActionDeleteProduct, map[string]any{"id": id}, nil)
}

func (c *APIClient) GetSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	if err := c.request(ctx, models.ActionGetSales, nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *APIClient) AddSale(ctx context.Context, sale models.Sale) error {
	return c.request(ctx, models.ActionAddSale, map[string]any{"sale": sale}, nil)
}
