package handlers

import (
	"context"

	"productmanager/internal/models"
)

// ProductService is the product capability the handlers depend on.
// *services.ProductService satisfies it.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int) (models.Product, bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
	ProductExists(ctx context.Context, id int) (bool, error)
}
