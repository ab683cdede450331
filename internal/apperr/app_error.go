package apperr

import "github.com/shrutihere/product-catalog/pkg/zerror"

const (
	ValidationErrorCode       = "VALIDATION_FAILED"
	ProductNotFoundCode       = "PRODUCT_NOT_FOUND"
	NoProductsMatchNameCode   = "NO_PRODUCTS_MATCH_NAME"
	CategoryHasNoProductsCode = "CATEGORY_HAS_NO_PRODUCTS"
	InvalidSortCriteriaCode   = "INVALID_SORT_CRITERIA"
	InvalidProductIDCode      = "INVALID_PRODUCT_ID"
	NameQueryRequiredCode     = "NAME_QUERY_REQUIRED"
)

var (
	ValidationErr         = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr    = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	NoProductsMatchName   = zerror.NewBadRequest(NoProductsMatchNameCode, "no products match the given name")
	CategoryHasNoProducts = zerror.NewNotFound(CategoryHasNoProductsCode, "no products in the given category")
	InvalidSortCriteria   = zerror.NewBadRequest(InvalidSortCriteriaCode, "invalid sort criteria or order")
	InvalidProductID      = zerror.NewBadRequest(InvalidProductIDCode, "product id must be an integer")
	NameQueryRequired     = zerror.NewBadRequest(NameQueryRequiredCode, "name query parameter is required")
)
