package repositories

import (
	"context"

	"productmanager/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// GetByID reports a missing product with found == false and a nil error.
// Update and Delete do nothing when the product does not exist; callers
// check existence first.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (product models.Product, found bool, err error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
}
