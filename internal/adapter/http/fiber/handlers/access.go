package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/http/fiber/middleware"
	"github.com/portalenergy/chargehub/internal/ports"
)

type AccessHandler struct {
	service ports.AccessService
	log     *zap.Logger
}

func NewAccessHandler(service ports.AccessService, log *zap.Logger) *AccessHandler {
	return &AccessHandler{
		service: service,
		log:     log,
	}
}

type PartnerRequest struct {
	Identity string `json:"identity"`
}

// AddPartner allow-lists an identity for the calling owner's stations.
func (h *AccessHandler) AddPartner(c *fiber.Ctx) error {
	var req PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.AddPartner(c.Context(), middleware.Caller(c), req.Identity); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok"})
}

func (h *AccessHandler) DeletePartner(c *fiber.Ctx) error {
	if err := h.service.DeletePartner(c.Context(), middleware.Caller(c), c.Params("identity")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AccessHandler) CheckPartner(c *fiber.Ctx) error {
	allowed, err := h.service.PartnerCanCreateTransaction(c.Context(), c.Params("owner"), c.Params("identity"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"allowed": allowed})
}
