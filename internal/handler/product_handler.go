package handler

import (
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := h.catalog.CreateProduct(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := h.catalog.UpdateProduct(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
