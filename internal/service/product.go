package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shrutihere/product-catalog/internal/apperr"
	"github.com/shrutihere/product-catalog/internal/event"
	"github.com/shrutihere/product-catalog/internal/model"
	"github.com/shrutihere/product-catalog/internal/repository"
	"github.com/shrutihere/product-catalog/internal/storage/db"
	"github.com/shrutihere/product-catalog/pkg/outbox"
	"github.com/shrutihere/product-catalog/pkg/ptr"
)

type AddProductParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
}

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
}

// ProductService owns catalog business logic. Mutations write a transactional
// outbox row in the same transaction as the data change.
type ProductService interface {
	AddProduct(ctx context.Context, params AddProductParams) (model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (model.Product, error)
	GetProductsByName(ctx context.Context, name string) ([]model.Product, error)
	GetTotalProductCount(ctx context.Context) (int64, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	SortProducts(ctx context.Context, criteria, order string) ([]model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) error
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) AddProduct(ctx context.Context, params AddProductParams) (model.Product, error) {
	now := time.Now()
	product := model.Product{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Category:    params.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		id, err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}
		product.ID = id

		ev := event.ProductCreatedEvent{
			ProductID:   product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Category:    product.Category,
		}
		if err := s.createOutboxMsg(ctx, db, event.TopicProductCreated, ev, &product.ID); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	return product, nil
}

func (s *productService) GetProductsByName(ctx context.Context, name string) ([]model.Product, error) {
	products, err := s.productRepo.ListProductsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("product repository list products by name: %w", err)
	}

	if len(products) == 0 {
		return nil, apperr.NoProductsMatchName
	}

	return products, nil
}

func (s *productService) GetTotalProductCount(ctx context.Context) (int64, error) {
	count, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("product repository count products: %w", err)
	}

	return count, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	var product model.Product

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		existing, err := s.productRepo.
			WithDB(db).
			GetProductByID(ctx, params.ID)
		if err != nil {
			return err
		}

		product = existing
		product.Name = params.Name
		product.Description = params.Description
		product.Price = params.Price
		product.Category = params.Category
		product.UpdatedAt = time.Now()

		if err := s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		ev := event.ProductUpdatedEvent{
			ProductID:   product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Category:    product.Category,
		}
		if err := s.createOutboxMsg(ctx, db, event.TopicProductUpdated, ev, &product.ID); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.Product{}, err
	}

	return product, nil
}

func (s *productService) SortProducts(ctx context.Context, criteria, order string) ([]model.Product, error) {
	params, err := sortParams(criteria, order)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListProductsSorted(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("product repository list products sorted: %w", err)
	}

	return products, nil
}

func (s *productService) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	products, err := s.productRepo.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("product repository list products by category: %w", err)
	}

	if len(products) == 0 {
		return nil, apperr.CategoryHasNoProducts
	}

	return products, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, id); err != nil {
			return err
		}

		ev := event.ProductDeletedEvent{ProductID: ptr.New(id)}
		if err := s.createOutboxMsg(ctx, db, event.TopicProductDeleted, ev, &id); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return err
	}

	return nil
}

func (s *productService) DeleteAllProducts(ctx context.Context) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		removed, err := s.productRepo.
			WithDB(db).
			DeleteAllProducts(ctx)
		if err != nil {
			return fmt.Errorf("product repository delete all products: %w", err)
		}

		ev := event.ProductDeletedEvent{Purged: ptr.New(removed)}
		if err := s.createOutboxMsg(ctx, db, event.TopicProductDeleted, ev, nil); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (s *productService) createOutboxMsg(ctx context.Context, db db.DB, topic string, ev any, productID *int64) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var partitionKey *string
	if productID != nil {
		partitionKey = ptr.New(strconv.FormatInt(*productID, 10))
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: partitionKey,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func sortParams(criteria, order string) (repository.ListProductsSortedParams, error) {
	var params repository.ListProductsSortedParams

	switch criteria {
	case "name":
		params.Column = repository.SortColumnName
	case "category":
		params.Column = repository.SortColumnCategory
	case "price":
		params.Column = repository.SortColumnPrice
	default:
		return params, apperr.InvalidSortCriteria
	}

	switch order {
	case "", "asc":
	case "desc":
		params.Descending = true
	default:
		return params, apperr.InvalidSortCriteria
	}

	return params, nil
}
