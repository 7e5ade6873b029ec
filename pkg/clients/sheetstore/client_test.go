package sheetstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.RemoteConfig{BaseURL: srv.URL})
}

func TestGetProductsDecodesEnvelopeData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "getProducts", body["action"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Productos obtenidos correctamente",
			"data": []map[string]any{
				{"id": "p1", "name": "Cable USB-C", "salePrice": 89.0, "stock": 12},
			},
		})
	})

	products, err := client.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 89.0, products[0].SalePrice)
}

func TestRequestFailsOnEnvelopeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Producto no encontrado",
		})
	})

	err := client.DeleteProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Producto no encontrado")
	assert.Contains(t, err.Error(), "deleteProduct")
}

func TestRequestFailsOnHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetSales(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestDeleteProductSendsIdentifier(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, client.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, "deleteProduct", got["action"])
	assert.Equal(t, "p1", got["id"])
}

func TestAddProductPostsProductPayload(t *testing.T) {
	var got map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	product := models.Product{ID: "p1", Name: "Cable", SalePrice: 89}
	require.NoError(t, client.AddProduct(context.Background(), product))

	var sent models.Product
	require.NoError(t, json.Unmarshal(got["product"], &sent))
	assert.Equal(t, product.ID, sent.ID)
	assert.Equal(t, product.Name, sent.Name)
}
