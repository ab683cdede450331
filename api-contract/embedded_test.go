package apicontract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/shrutihere/product-catalog/api-contract"
)

func TestLoadSpec(t *testing.T) {
	doc, err := apicontract.LoadSpec()
	require.NoError(t, err)

	paths := []string{
		"/api/products",
		"/api/products/search",
		"/api/products/total-count",
		"/api/products/sort",
		"/api/products/category/{category}",
		"/api/products/{productID}",
	}
	for _, p := range paths {
		assert.NotNil(t, doc.Paths.Find(p), p)
	}
}
