package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/ports"
)

// DeviceHandler is the north end of the device/protocol boundary: the
// translated charge-box messages arrive here, already authenticated by the
// excluded protocol layer. Every call validates identity existence before
// any state moves.
type DeviceHandler struct {
	stations     ports.StationService
	transactions ports.TransactionService
	log          *zap.Logger
}

func NewDeviceHandler(stations ports.StationService, transactions ports.TransactionService, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		stations:     stations,
		transactions: transactions,
		log:          log,
	}
}

func (h *DeviceHandler) BootNotification(c *fiber.Ctx) error {
	if err := h.stations.BootNotification(c.Context(), c.Params("url")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "Accepted"})
}

type HeartbeatRequest struct {
	Timestamp int64 `json:"timestamp"`
}

func (h *DeviceHandler) Heartbeat(c *fiber.Ctx) error {
	var req HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if err := h.stations.Heartbeat(c.Context(), c.Params("url"), req.Timestamp); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type StatusNotificationRequest struct {
	ConnectorID int    `json:"connector_id"`
	Status      string `json:"status"`
	ErrorCode   string `json:"error_code"`
}

func (h *DeviceHandler) StatusNotification(c *fiber.Ctx) error {
	var req StatusNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	err := h.stations.StatusNotification(c.Context(), c.Params("url"), req.ConnectorID, domain.ConnectorStatus(req.Status), req.ErrorCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type StartTransactionRequest struct {
	Idtag      string `json:"idtag"`
	Timestamp  int64  `json:"timestamp"`
	MeterStart int64  `json:"meter_start"`
}

func (h *DeviceHandler) StartTransaction(c *fiber.Ctx) error {
	var req StartTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	err := h.transactions.StartTransaction(c.Context(), c.Params("url"), req.Idtag, req.Timestamp, req.MeterStart)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type StopTransactionRequest struct {
	TransactionID uint64 `json:"transaction_id"`
	Timestamp     int64  `json:"timestamp"`
	MeterStop     int64  `json:"meter_stop"`
}

func (h *DeviceHandler) StopTransaction(c *fiber.Ctx) error {
	var req StopTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	err := h.transactions.StopTransaction(c.Context(), c.Params("url"), req.TransactionID, req.Timestamp, req.MeterStop)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type MeterValuesRequest struct {
	TransactionID                uint64 `json:"transaction_id"`
	ConnectorID                  int    `json:"connector_id"`
	EnergyActiveImportRegisterWh int64  `json:"energy_active_import_register_wh"`
	CurrentImportA               int    `json:"current_import_a"`
	CurrentOfferedA              int    `json:"current_offered_a"`
	PowerActiveImportW           int    `json:"power_active_import_w"`
	VoltageV                     int    `json:"voltage_v"`
	Percent                      int    `json:"percent"`
}

func (h *DeviceHandler) MeterValues(c *fiber.Ctx) error {
	var req MeterValuesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	mv := &domain.MeterValue{
		EnergyActiveImportRegisterWh: req.EnergyActiveImportRegisterWh,
		CurrentImportA:               req.CurrentImportA,
		CurrentOfferedA:              req.CurrentOfferedA,
		PowerActiveImportW:           req.PowerActiveImportW,
		VoltageV:                     req.VoltageV,
		Percent:                      req.Percent,
	}

	stored, err := h.transactions.MeterValues(c.Context(), c.Params("url"), req.ConnectorID, req.TransactionID, mv)
	if err != nil {
		return err
	}
	return c.JSON(stored)
}
