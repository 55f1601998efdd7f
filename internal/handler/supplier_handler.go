package handler

import (
	"go-stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	catalog service.CatalogService
}

func NewSupplierHandler(catalog service.CatalogService) *SupplierHandler {
	return &SupplierHandler{catalog: catalog}
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.catalog.ListSuppliers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	supplier, err := h.catalog.GetSupplier(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	supplier, err := h.catalog.CreateSupplier(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	supplier, err := h.catalog.UpdateSupplier(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteSupplier(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
