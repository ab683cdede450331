package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shrutihere/product-catalog/internal/apperr"
	"github.com/shrutihere/product-catalog/internal/model"
	"github.com/shrutihere/product-catalog/internal/service"
	"github.com/shrutihere/product-catalog/pkg/validator"
)

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
}

func newProductHandler(productSvc service.ProductService, validator validator.Validator) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  validator,
	}
}

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,notblank,max=255"`
}

type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TotalCountResponse struct {
	Count int64 `json:"count"`
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	req, err := h.decodeProductRequest(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.AddProduct(r.Context(), service.AddProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.GetAllProducts(r.Context())
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDFromRequest(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProductByID(r.Context(), id)
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) SearchProducts(w http.ResponseWriter, r *http.Request) error {
	name := r.URL.Query().Get("name")
	if name == "" {
		return apperr.NameQueryRequired
	}

	products, err := h.productSvc.GetProductsByName(r.Context(), name)
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) TotalCount(w http.ResponseWriter, r *http.Request) error {
	count, err := h.productSvc.GetTotalProductCount(r.Context())
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, TotalCountResponse{Count: count})
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDFromRequest(r)
	if err != nil {
		return err
	}

	req, err := h.decodeProductRequest(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) SortProducts(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	criteria := query.Get("criteria")
	order := query.Get("order")

	products, err := h.productSvc.SortProducts(r.Context(), criteria, order)
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) ListByCategory(w http.ResponseWriter, r *http.Request) error {
	category := chi.URLParam(r, "category")

	products, err := h.productSvc.GetProductsByCategory(r.Context(), category)
	if err != nil {
		return err
	}

	return respondJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDFromRequest(r)
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) DeleteAllProducts(w http.ResponseWriter, r *http.Request) error {
	if err := h.productSvc.DeleteAllProducts(r.Context()); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) decodeProductRequest(r *http.Request) (ProductRequest, error) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperr.ValidationErr.WrapParent(err)
	}

	if err := h.validator.Validate(req); err != nil {
		return req, err
	}

	return req, nil
}

func productIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.InvalidProductID.WrapParent(err)
	}

	return id, nil
}

func toProductResponse(product model.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductResponses(products []model.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}
	return items
}
