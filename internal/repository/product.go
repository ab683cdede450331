package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shrutihere/product-catalog/internal/apperr"
	"github.com/shrutihere/product-catalog/internal/model"
	"github.com/shrutihere/product-catalog/internal/storage/db"
)

// SortColumn is a whitelisted ORDER BY column. Values outside this set never
// reach the SQL text.
type SortColumn string

const (
	SortColumnName     SortColumn = "name"
	SortColumnCategory SortColumn = "category"
	SortColumnPrice    SortColumn = "price"
)

type ListProductsSortedParams struct {
	Column     SortColumn
	Descending bool
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) (int64, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, error)
	ListProductsByName(ctx context.Context, name string) ([]model.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	ListProductsSorted(ctx context.Context, params ListProductsSortedParams) ([]model.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, category, created_at, updated_at`

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (int64, error) {
	price, err := numericFromFloat(product.Price)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, created_at, updated_at)
		VALUES (@name, @description, @price, @category, @created_at, @updated_at)
		RETURNING id;
	`, pgx.NamedArgs{
		"name":        product.Name,
		"description": product.Description,
		"price":       price,
		"category":    product.Category,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}).Scan(&id); err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	return id, nil
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = @id;
	`, pgx.NamedArgs{"id": id})

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) ListProductsByName(ctx context.Context, name string) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE '%' || @name || '%'
		ORDER BY id;
	`, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("list products by name: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	price, err := numericFromFloat(product.Price)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name        = @name,
			description = @description,
			price       = @price,
			category    = @category,
			updated_at  = @updated_at
		WHERE id = @id;
	`, pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"price":       price,
		"category":    product.Category,
		"updated_at":  product.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) ListProductsSorted(ctx context.Context, params ListProductsSortedParams) ([]model.Product, error) {
	column, err := orderByColumn(params.Column)
	if err != nil {
		return nil, err
	}

	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY `+column+` `+direction+`, id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list products sorted: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) ListProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE category = @category
		ORDER BY id;
	`, pgx.NamedArgs{"category": category})
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM products WHERE id = @id;
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) DeleteAllProducts(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products;`)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}

	return tag.RowsAffected(), nil
}

// orderByColumn maps a SortColumn to the SQL identifier it stands for.
// Unknown values are rejected so no caller-controlled text is concatenated
// into the query.
func orderByColumn(c SortColumn) (string, error) {
	switch c {
	case SortColumnName:
		return "name", nil
	case SortColumnCategory:
		return "category", nil
	case SortColumnPrice:
		return "price", nil
	default:
		return "", fmt.Errorf("unknown sort column: %q", c)
	}
}

func numericFromFloat(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(fmt.Sprintf("%f", f)); err != nil {
		return n, fmt.Errorf("scan price: %w", err)
	}
	return n, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
	)
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&price,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	priceValue, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	product.Price = priceValue.Float64

	return product, nil
}
