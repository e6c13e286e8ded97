package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"productmanager/internal/models"
	"productmanager/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewProductService creates a new ProductService. A nil publisher disables
// product events.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID. found is false when
// no such product exists.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (models.Product, bool, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new product and sets its assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	created := *product
	s.publish(EventProductCreated, product.ID, &created)
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	updated := *product
	s.publish(EventProductUpdated, product.ID, &updated)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, id, nil)
	return nil
}

// ProductExists reports whether a product with the given ID exists.
func (s *ProductService) ProductExists(ctx context.Context, id int) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// publish sends a product event. Failures are logged and never fail the
// operation that already succeeded in the store.
func (s *ProductService) publish(eventType string, productID int, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to marshal product event", zap.String("event", eventType), zap.Int("product_id", productID), zap.Error(err))
		return
	}

	if err := s.publisher.Publish(eventType, body); err != nil {
		s.log.Warn("failed to publish product event", zap.String("event", eventType), zap.Int("product_id", productID), zap.Error(err))
		return
	}
	s.log.Debug("published product event", zap.String("event", eventType), zap.Int("product_id", productID))
}
