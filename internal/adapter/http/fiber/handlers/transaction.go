package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/http/fiber/middleware"
	"github.com/portalenergy/chargehub/internal/ports"
)

type TransactionHandler struct {
	service ports.TransactionService
	log     *zap.Logger
}

func NewTransactionHandler(service ports.TransactionService, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		log:     log,
	}
}

type RemoteStartRequest struct {
	ClientUrl   string `json:"client_url"`
	ConnectorID int    `json:"connector_id"`
	Idtag       string `json:"idtag"`
}

func (h *TransactionHandler) RemoteStart(c *fiber.Ctx) error {
	var req RemoteStartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	txID, err := h.service.RemoteStartTransaction(c.Context(), middleware.Caller(c), req.ClientUrl, req.ConnectorID, req.Idtag)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction_id": txID})
}

type RemoteStopRequest struct {
	ClientUrl string `json:"client_url"`
	Idtag     string `json:"idtag"`
}

func (h *TransactionHandler) RemoteStop(c *fiber.Ctx) error {
	var req RemoteStopRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.RemoteStopTransaction(c.Context(), req.ClientUrl, req.Idtag); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *TransactionHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	if err := h.service.RejectTransaction(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type CancelRequest struct {
	ClientUrl string `json:"client_url"`
}

func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.CancelTransaction(c.Context(), req.ClientUrl, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	txs, err := h.service.GetTransactions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(txs)
}

func (h *TransactionHandler) Count(c *fiber.Ctx) error {
	count, err := h.service.GetTransactionsCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	tx, err := h.service.GetTransaction(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) ListByStation(c *fiber.Ctx) error {
	stationID, err := strconv.ParseUint(c.Params("stationId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid station id"})
	}

	txs, err := h.service.GetTransactionsLocal(c.Context(), stationID)
	if err != nil {
		return err
	}
	return c.JSON(txs)
}

func (h *TransactionHandler) GetUserTransaction(c *fiber.Ctx) error {
	txID, err := h.service.GetUserTransaction(c.Context(), c.Params("idtag"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transaction_id": txID})
}

func (h *TransactionHandler) GetMeterValues(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	values, err := h.service.GetMeterValues(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(values)
}

func (h *TransactionHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice id"})
	}

	inv, err := h.service.GetInvoice(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}
