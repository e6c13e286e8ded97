package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"productmanager/internal/models"
	"productmanager/internal/validation"
)

// ProductAPIHandler handles JSON API requests for products.
type ProductAPIHandler struct {
	service  ProductService
	validate *validation.Validator
	log      *zap.Logger
}

// NewProductAPIHandler creates a new ProductAPIHandler.
func NewProductAPIHandler(service ProductService, log *zap.Logger) *ProductAPIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductAPIHandler{
		service:  service,
		validate: validation.New(),
		log:      log,
	}
}

// RegisterRoutes registers the product routes under router.
func (h *ProductAPIHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns every product.
func (h *ProductAPIHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.internalError(c, "Could not retrieve products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductAPIHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	product, found, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.internalError(c, "Could not retrieve product", err)
	}
	if !found {
		return notFound(c, id)
	}
	return c.JSON(product)
}

// HandleCreateProduct validates and stores a new product.
func (h *ProductAPIHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	trimText(&product)
	if errs := h.validate.Struct(product); errs != nil {
		return validationFailed(c, errs)
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return h.internalError(c, "Could not create product", err)
	}

	c.Location(fmt.Sprintf("/api/products/%d", product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductAPIHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if id != product.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "ID mismatch",
		})
	}

	trimText(&product)
	if errs := h.validate.Struct(product); errs != nil {
		return validationFailed(c, errs)
	}

	exists, err := h.service.ProductExists(c.UserContext(), id)
	if err != nil {
		return h.internalError(c, "Could not update product", err)
	}
	if !exists {
		return notFound(c, id)
	}

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return h.internalError(c, "Could not update product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteProduct removes an existing product.
func (h *ProductAPIHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	exists, err := h.service.ProductExists(c.UserContext(), id)
	if err != nil {
		return h.internalError(c, "Could not delete product", err)
	}
	if !exists {
		return notFound(c, id)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.internalError(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductAPIHandler) internalError(c *fiber.Ctx, message string, err error) error {
	h.log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// trimText strips surrounding whitespace from the text fields, as the HTML
// form does.
func trimText(p *models.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid product ID",
	})
}

func notFound(c *fiber.Ctx, id int) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %d not found", id),
	})
}

func validationFailed(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errs,
	})
}
