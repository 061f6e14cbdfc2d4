package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type TariffHandler struct {
	service ports.TariffService
	log     *zap.Logger
}

func NewTariffHandler(service ports.TariffService, log *zap.Logger) *TariffHandler {
	return &TariffHandler{
		service: service,
		log:     log,
	}
}

func (h *TariffHandler) Add(c *fiber.Ctx) error {
	var tariff domain.Tariff
	if err := c.BodyParser(&tariff); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	id, err := h.service.AddTariff(c.Context(), &tariff)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tariff_id": id})
}

func (h *TariffHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tariff id"})
	}

	tariff, err := h.service.GetTariff(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(tariff)
}

type ComputePriceRequest struct {
	ConsumptionWh int64 `json:"consumption_wh"`
	DurationSec   int64 `json:"duration_sec"`
	StartTs       int64 `json:"start_ts"`
}

func (h *TariffHandler) ComputePrice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tariff id"})
	}
	var req ComputePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	price, err := h.service.ComputePrice(c.Context(), id, req.ConsumptionWh, req.DurationSec, req.StartTs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"total_price": price})
}
