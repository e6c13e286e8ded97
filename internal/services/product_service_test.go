package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"productmanager/internal/models"
	"productmanager/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (models.Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func sampleProduct(id int) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Product A",
		Description: "Description of product A",
		Price:       decimal.RequireFromString("10.00"),
		Quantity:    100,
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	expectedProducts := []models.Product{sampleProduct(1), sampleProduct(2)}
	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	expectedProduct := sampleProduct(1)

	// Test successful retrieval
	mockRepo.On("GetByID", ctx, 1).Return(expectedProduct, true, nil).Once()
	product, found, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedProduct, product)

	// Test product not found
	mockRepo.On("GetByID", ctx, 99).Return(models.Product{}, false, nil).Once()
	product, found, err = service.GetProductByID(ctx, 99)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, models.Product{}, product)

	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	newProduct := &models.Product{Name: "New Product", Description: "A brand new product", Price: decimal.NewFromInt(50), Quantity: 20}

	// Test successful creation
	mockRepo.On("Create", ctx, newProduct).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 3
	}).Return(nil).Once()
	err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)
	assert.Equal(t, 3, newProduct.ID)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", ctx, newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(ctx, newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	updatedProduct := sampleProduct(1)
	updatedProduct.Name = "Product A Updated"

	mockRepo.On("Update", ctx, &updatedProduct).Return(nil).Once()
	err := service.UpdateProduct(ctx, &updatedProduct)
	assert.NoError(t, err)

	mockRepo.On("Update", ctx, &updatedProduct).Return(fmt.Errorf("failed to update product 1: disk I/O error")).Once()
	err = service.UpdateProduct(ctx, &updatedProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update product")

	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Delete", ctx, 1).Return(nil).Once()
	err := service.DeleteProduct(ctx, 1)
	assert.NoError(t, err)

	mockRepo.On("Delete", ctx, 99).Return(fmt.Errorf("failed to delete product 99: database is locked")).Once()
	err = service.DeleteProduct(ctx, 99)
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}

func TestProductService_ProductExists(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Exists", ctx, 1).Return(true, nil).Once()
	mockRepo.On("Exists", ctx, 2).Return(false, nil).Once()

	exists, err := service.ProductExists(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.ProductExists(ctx, 2)
	assert.NoError(t, err)
	assert.False(t, exists)

	mockRepo.AssertExpectations(t)
}

func TestProductService_PublishesEvents(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	product := sampleProduct(0)
	mockRepo.On("Create", ctx, &product).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 7
	}).Return(nil).Once()
	mockRepo.On("Update", ctx, &product).Return(nil).Once()
	mockRepo.On("Delete", ctx, 7).Return(nil).Once()

	var published []services.ProductEvent
	publisher.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		var event services.ProductEvent
		require.NoError(t, json.Unmarshal(args.Get(1).([]byte), &event))
		assert.Equal(t, args.String(0), event.Type)
		published = append(published, event)
	}).Return(nil).Times(3)

	require.NoError(t, service.CreateProduct(ctx, &product))
	require.NoError(t, service.UpdateProduct(ctx, &product))
	require.NoError(t, service.DeleteProduct(ctx, 7))

	require.Len(t, published, 3)
	assert.Equal(t, services.EventProductCreated, published[0].Type)
	assert.Equal(t, 7, published[0].ProductID)
	require.NotNil(t, published[0].Product)
	assert.Equal(t, "Product A", published[0].Product.Name)
	assert.Equal(t, services.EventProductUpdated, published[1].Type)
	assert.Equal(t, services.EventProductDeleted, published[2].Type)
	assert.Nil(t, published[2].Product)
	assert.False(t, published[2].OccurredAt.IsZero())

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_PublishFailureDoesNotFailWrite(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Delete", ctx, 5).Return(nil).Once()
	publisher.On("Publish", services.EventProductDeleted, mock.Anything).Return(fmt.Errorf("channel closed")).Once()

	assert.NoError(t, service.DeleteProduct(ctx, 5))

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_NoEventWhenWriteFails(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Delete", ctx, 5).Return(fmt.Errorf("database is locked")).Once()

	assert.Error(t, service.DeleteProduct(ctx, 5))

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
