package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"productmanager/internal/models"
	"productmanager/internal/validation"
)

const layout = "layouts/main"

// CSRFContextKey is the fiber.Ctx locals key holding the anti-forgery token.
const CSRFContextKey = "csrf"

// productForm is the urlencoded form posted by the create and edit pages.
// Numbers stay strings so bad input can be echoed back to the user.
type productForm struct {
	ID          string `form:"id"`
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Quantity    string `form:"quantity"`
}

func formFromProduct(p models.Product) productForm {
	return productForm{
		ID:          strconv.Itoa(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Quantity:    strconv.Itoa(p.Quantity),
	}
}

// product converts the form into a Product, reporting fields that are not
// numbers.
func (f productForm) product() (models.Product, map[string]string) {
	errs := map[string]string{}
	p := models.Product{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
	}

	if id := strings.TrimSpace(f.ID); id != "" {
		n, err := strconv.Atoi(id)
		if err != nil {
			errs["id"] = "Invalid product ID"
		}
		p.ID = n
	}
	if price := strings.TrimSpace(f.Price); price != "" {
		d, err := decimal.NewFromString(price)
		if err != nil {
			errs["price"] = "Price must be a number"
		}
		p.Price = d
	}
	if qty := strings.TrimSpace(f.Quantity); qty != "" {
		n, err := strconv.Atoi(qty)
		if err != nil {
			errs["quantity"] = "Quantity must be a whole number"
		}
		p.Quantity = n
	}
	return p, errs
}

// ProductWebHandler renders the HTML pages for products.
type ProductWebHandler struct {
	service  ProductService
	validate *validation.Validator
	log      *zap.Logger
}

// NewProductWebHandler creates a new ProductWebHandler.
func NewProductWebHandler(service ProductService, log *zap.Logger) *ProductWebHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductWebHandler{
		service:  service,
		validate: validation.New(),
		log:      log,
	}
}

// RegisterRoutes registers the product pages under router.
func (h *ProductWebHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Index)
	router.Get("/details/:id", h.Details)
	router.Get("/create", h.CreateForm)
	router.Post("/create", h.Create)
	router.Get("/edit/:id", h.EditForm)
	router.Post("/edit/:id", h.Edit)
	router.Get("/delete/:id", h.DeleteForm)
	router.Post("/delete/:id", h.DeleteConfirmed)
}

// Index lists every product.
func (h *ProductWebHandler) Index(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.serverError(c, "Could not retrieve products", err)
	}
	return c.Render("products/index", fiber.Map{
		"Title":    "Products",
		"Products": products,
	}, layout)
}

// Details shows a single product.
func (h *ProductWebHandler) Details(c *fiber.Ctx) error {
	return h.renderProduct(c, "products/details", "Product details")
}

// CreateForm shows an empty product form.
func (h *ProductWebHandler) CreateForm(c *fiber.Ctx) error {
	return h.renderForm(c, "products/create", "New product", productForm{}, nil)
}

// Create stores the submitted product, or re-renders the form with errors.
func (h *ProductWebHandler) Create(c *fiber.Ctx) error {
	var form productForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}
	form.ID = ""

	product, errs := h.check(form)
	if len(errs) > 0 {
		return h.renderForm(c, "products/create", "New product", form, errs)
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return h.serverError(c, "Could not create product", err)
	}
	return c.Redirect("/products")
}

// EditForm shows the form for an existing product.
func (h *ProductWebHandler) EditForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}

	product, found, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.serverError(c, "Could not retrieve product", err)
	}
	if !found {
		return h.notFound(c)
	}
	return h.renderForm(c, "products/edit", "Edit product", formFromProduct(product), nil)
}

// Edit replaces an existing product, or re-renders the form with errors.
func (h *ProductWebHandler) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}

	var form productForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	product, errs := h.check(form)
	if product.ID != id {
		return h.notFound(c)
	}
	if len(errs) > 0 {
		return h.renderForm(c, "products/edit", "Edit product", form, errs)
	}

	exists, err := h.service.ProductExists(c.UserContext(), id)
	if err != nil {
		return h.serverError(c, "Could not update product", err)
	}
	if !exists {
		return h.notFound(c)
	}

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return h.serverError(c, "Could not update product", err)
	}
	return c.Redirect("/products")
}

// DeleteForm asks for confirmation before deleting a product.
func (h *ProductWebHandler) DeleteForm(c *fiber.Ctx) error {
	return h.renderProduct(c, "products/delete", "Delete product")
}

// DeleteConfirmed deletes the product. Deleting a missing product is a no-op.
func (h *ProductWebHandler) DeleteConfirmed(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}

	exists, err := h.service.ProductExists(c.UserContext(), id)
	if err != nil {
		return h.serverError(c, "Could not delete product", err)
	}
	if !exists {
		return c.Redirect("/products")
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.serverError(c, "Could not delete product", err)
	}
	return c.Redirect("/products")
}

// check converts and validates a submitted form.
func (h *ProductWebHandler) check(form productForm) (models.Product, map[string]string) {
	product, errs := form.product()
	for field, msg := range h.validate.Struct(product) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	return product, errs
}

func (h *ProductWebHandler) renderProduct(c *fiber.Ctx, view, title string) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}

	product, found, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.serverError(c, "Could not retrieve product", err)
	}
	if !found {
		return h.notFound(c)
	}
	return c.Render(view, fiber.Map{
		"Title":     title,
		"Product":   product,
		"CSRFToken": c.Locals(CSRFContextKey),
	}, layout)
}

func (h *ProductWebHandler) renderForm(c *fiber.Ctx, view, title string, form productForm, errs map[string]string) error {
	return c.Render(view, fiber.Map{
		"Title":     title,
		"Form":      form,
		"Errors":    errs,
		"CSRFToken": c.Locals(CSRFContextKey),
	}, layout)
}

func (h *ProductWebHandler) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title": "Not found",
	}, layout)
}

func (h *ProductWebHandler) serverError(c *fiber.Ctx, message string, err error) error {
	h.log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"Title":   "Error",
		"Message": message,
	}, layout)
}
