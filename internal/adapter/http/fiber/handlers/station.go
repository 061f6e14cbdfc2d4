package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/http/fiber/middleware"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

type StationHandler struct {
	service ports.StationService
	log     *zap.Logger
}

func NewStationHandler(service ports.StationService, log *zap.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		log:     log,
	}
}

func (h *StationHandler) Add(c *fiber.Ctx) error {
	var station domain.Station
	if err := c.BodyParser(&station); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	stored, err := h.service.AddStation(c.Context(), middleware.Caller(c), &station)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

func (h *StationHandler) List(c *fiber.Ctx) error {
	stations, err := h.service.GetStations(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stations)
}

func (h *StationHandler) Count(c *fiber.Ctx) error {
	count, err := h.service.GetStationsCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *StationHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid station id"})
	}

	station, err := h.service.GetStation(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(station)
}

func (h *StationHandler) GetByUrl(c *fiber.Ctx) error {
	station, err := h.service.GetStationByUrl(c.Context(), c.Params("url"))
	if err != nil {
		return err
	}
	return c.JSON(station)
}

type SetStateRequest struct {
	State bool `json:"state"`
}

func (h *StationHandler) SetState(c *fiber.Ctx) error {
	var req SetStateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.SetState(c.Context(), middleware.Caller(c), c.Params("url"), req.State); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *StationHandler) GetConnector(c *fiber.Ctx) error {
	stationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid station id"})
	}
	connectorID, err := strconv.Atoi(c.Params("connectorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid connector id"})
	}

	conn, err := h.service.GetConnector(c.Context(), stationID, connectorID)
	if err != nil {
		return err
	}
	return c.JSON(conn)
}

func (h *StationHandler) Reindex(c *fiber.Ctx) error {
	n, err := h.service.ReindexClientUrls(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"indexed": n})
}
