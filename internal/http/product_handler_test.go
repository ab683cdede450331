package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrutihere/product-catalog/internal/apperr"
	"github.com/shrutihere/product-catalog/internal/model"
	"github.com/shrutihere/product-catalog/internal/service"
	"github.com/shrutihere/product-catalog/pkg/validator"
)

type mockProductService struct {
	addProduct            func(ctx context.Context, params service.AddProductParams) (model.Product, error)
	getAllProducts        func(ctx context.Context) ([]model.Product, error)
	getProductByID        func(ctx context.Context, id int64) (model.Product, error)
	getProductsByName     func(ctx context.Context, name string) ([]model.Product, error)
	getTotalProductCount  func(ctx context.Context) (int64, error)
	updateProduct         func(ctx context.Context, params service.UpdateProductParams) (model.Product, error)
	sortProducts          func(ctx context.Context, criteria, order string) ([]model.Product, error)
	getProductsByCategory func(ctx context.Context, category string) ([]model.Product, error)
	deleteProduct         func(ctx context.Context, id int64) error
	deleteAllProducts     func(ctx context.Context) error
}

func (m *mockProductService) AddProduct(ctx context.Context, params service.AddProductParams) (model.Product, error) {
	return m.addProduct(ctx, params)
}

func (m *mockProductService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return m.getAllProducts(ctx)
}

func (m *mockProductService) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	return m.getProductByID(ctx, id)
}

func (m *mockProductService) GetProductsByName(ctx context.Context, name string) ([]model.Product, error) {
	return m.getProductsByName(ctx, name)
}

func (m *mockProductService) GetTotalProductCount(ctx context.Context) (int64, error) {
	return m.getTotalProductCount(ctx)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	return m.updateProduct(ctx, params)
}

func (m *mockProductService) SortProducts(ctx context.Context, criteria, order string) ([]model.Product, error) {
	return m.sortProducts(ctx, criteria, order)
}

func (m *mockProductService) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return m.getProductsByCategory(ctx, category)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.deleteProduct(ctx, id)
}

func (m *mockProductService) DeleteAllProducts(ctx context.Context) error {
	return m.deleteAllProducts(ctx)
}

func newTestRouter(t *testing.T, svc service.ProductService) chi.Router {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	s := &Service{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		productSvc: svc,
		validator:  v,
	}

	r := chi.NewRouter()
	s.RegisterHandlers(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

var testProduct = model.Product{
	ID:          42,
	Name:        "Mechanical Keyboard",
	Description: "Tenkeyless, brown switches",
	Price:       129.99,
	Category:    "peripherals",
	CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	UpdatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
}

func TestCreateProduct(t *testing.T) {
	validBody := ProductRequest{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       129.99,
		Category:    "peripherals",
	}

	t.Run("created", func(t *testing.T) {
		svc := &mockProductService{
			addProduct: func(_ context.Context, params service.AddProductParams) (model.Product, error) {
				assert.Equal(t, validBody.Name, params.Name)
				assert.Equal(t, validBody.Price, params.Price)
				return testProduct, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodPost, "/api/products", validBody)

		assert.Equal(t, http.StatusCreated, resp.Code)

		var got ProductResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, int64(42), got.ID)
		assert.Equal(t, "Mechanical Keyboard", got.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := &mockProductService{}
		r := newTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader([]byte("{not json")))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, apperr.ValidationErrorCode, decodeErrorCode(t, resp))
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc := &mockProductService{}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodPost, "/api/products", ProductRequest{
			Description: "no name or category",
			Price:       1,
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)

		var body struct {
			Code    string `json:"code"`
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "validationError", body.Code)
		assert.Len(t, body.Details, 2)
	})

	t.Run("negative price", func(t *testing.T) {
		body := validBody
		body.Price = -5
		resp := doRequest(t, newTestRouter(t, &mockProductService{}), http.MethodPost, "/api/products", body)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockProductService{
			addProduct: func(context.Context, service.AddProductParams) (model.Product, error) {
				return model.Product{}, errors.New("connection refused")
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodPost, "/api/products", validBody)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "internalServerError", decodeErrorCode(t, resp))
	})
}

func TestListProducts(t *testing.T) {
	t.Run("returns all products", func(t *testing.T) {
		svc := &mockProductService{
			getAllProducts: func(context.Context) ([]model.Product, error) {
				return []model.Product{testProduct}, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusOK, resp.Code)

		var got []ProductResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, testProduct.Name, got[0].Name)
	})

	t.Run("empty catalog is 200 with empty array", func(t *testing.T) {
		svc := &mockProductService{
			getAllProducts: func(context.Context) ([]model.Product, error) {
				return []model.Product{}, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockProductService{
			getAllProducts: func(context.Context) ([]model.Product, error) {
				return nil, errors.New("boom")
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockProductService{
			getProductByID: func(_ context.Context, id int64) (model.Product, error) {
				assert.Equal(t, int64(42), id)
				return testProduct, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/42", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockProductService{
			getProductByID: func(context.Context, int64) (model.Product, error) {
				return model.Product{}, apperr.ProductNotFoundErr
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/7", nil)

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, apperr.ProductNotFoundCode, decodeErrorCode(t, resp))
	})

	t.Run("non numeric id", func(t *testing.T) {
		resp := doRequest(t, newTestRouter(t, &mockProductService{}), http.MethodGet, "/api/products/abc", nil)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, apperr.InvalidProductIDCode, decodeErrorCode(t, resp))
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockProductService{
			getProductByID: func(context.Context, int64) (model.Product, error) {
				return model.Product{}, errors.New("boom")
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/1", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestSearchProducts(t *testing.T) {
	t.Run("matches", func(t *testing.T) {
		svc := &mockProductService{
			getProductsByName: func(_ context.Context, name string) ([]model.Product, error) {
				assert.Equal(t, "keyboard", name)
				return []model.Product{testProduct}, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/search?name=keyboard", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("no matches is 400", func(t *testing.T) {
		svc := &mockProductService{
			getProductsByName: func(context.Context, string) ([]model.Product, error) {
				return nil, apperr.NoProductsMatchName
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/search?name=nothing", nil)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, apperr.NoProductsMatchNameCode, decodeErrorCode(t, resp))
	})

	t.Run("missing name parameter", func(t *testing.T) {
		resp := doRequest(t, newTestRouter(t, &mockProductService{}), http.MethodGet, "/api/products/search", nil)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, apperr.NameQueryRequiredCode, decodeErrorCode(t, resp))
	})
}

func TestTotalCount(t *testing.T) {
	t.Run("returns count", func(t *testing.T) {
		svc := &mockProductService{
			getTotalProductCount: func(context.Context) (int64, error) {
				return 1234, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/total-count", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"count":1234}`, resp.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockProductService{
			getTotalProductCount: func(context.Context) (int64, error) {
				return 0, errors.New("boom")
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/total-count", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	validBody := ProductRequest{
		Name:     "Renamed",
		Price:    10,
		Category: "misc",
	}

	t.Run("updated", func(t *testing.T) {
		svc := &mockProductService{
			updateProduct: func(_ context.Context, params service.UpdateProductParams) (model.Product, error) {
				assert.Equal(t, int64(42), params.ID)
				assert.Equal(t, "Renamed", params.Name)
				return testProduct, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodPut, "/api/products/42", validBody)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockProductService{
			updateProduct: func(context.Context, service.UpdateProductParams) (model.Product, error) {
				return model.Product{}, apperr.ProductNotFoundErr
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodPut, "/api/products/42", validBody)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := doRequest(t, newTestRouter(t, &mockProductService{}), http.MethodPut, "/api/products/42", ProductRequest{})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestSortProducts(t *testing.T) {
	t.Run("sorted", func(t *testing.T) {
		svc := &mockProductService{
			sortProducts: func(_ context.Context, criteria, order string) ([]model.Product, error) {
				assert.Equal(t, "price", criteria)
				assert.Equal(t, "desc", order)
				return []model.Product{testProduct}, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/sort?criteria=price&order=desc", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("invalid criteria is 400", func(t *testing.T) {
		svc := &mockProductService{
			sortProducts: func(context.Context, string, string) ([]model.Product, error) {
				return nil, apperr.InvalidSortCriteria
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/sort?criteria=weight", nil)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, apperr.InvalidSortCriteriaCode, decodeErrorCode(t, resp))
	})
}

func TestListByCategory(t *testing.T) {
	t.Run("matches", func(t *testing.T) {
		svc := &mockProductService{
			getProductsByCategory: func(_ context.Context, category string) ([]model.Product, error) {
				assert.Equal(t, "peripherals", category)
				return []model.Product{testProduct}, nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/category/peripherals", nil)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("empty category is 404", func(t *testing.T) {
		svc := &mockProductService{
			getProductsByCategory: func(context.Context, string) ([]model.Product, error) {
				return nil, apperr.CategoryHasNoProducts
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodGet, "/api/products/category/ghosts", nil)

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, apperr.CategoryHasNoProductsCode, decodeErrorCode(t, resp))
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := &mockProductService{
			deleteProduct: func(_ context.Context, id int64) error {
				assert.Equal(t, int64(42), id)
				return nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodDelete, "/api/products/42", nil)

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Empty(t, resp.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockProductService{
			deleteProduct: func(context.Context, int64) error {
				return apperr.ProductNotFoundErr
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodDelete, "/api/products/42", nil)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestDeleteAllProducts(t *testing.T) {
	t.Run("purged", func(t *testing.T) {
		svc := &mockProductService{
			deleteAllProducts: func(context.Context) error {
				return nil
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodDelete, "/api/products", nil)

		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockProductService{
			deleteAllProducts: func(context.Context) error {
				return errors.New("boom")
			},
		}
		resp := doRequest(t, newTestRouter(t, svc), http.MethodDelete, "/api/products", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
