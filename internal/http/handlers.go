package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mariafchaparro/tma-test/internal/payment"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type Handler struct {
	svc *payment.Service
	log *zap.Logger
}

func NewHandler(svc *payment.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Transfer prepares USD₮ transfer for TON Connect.
// POST /api/v1/jetton/transfer
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req payment.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Destination == "" || req.Amount == "" || req.Sender == "" {
		return h.fail(c, fiber.StatusBadRequest, "destination, amount and sender are required")
	}

	res, err := h.svc.Transfer(req)
	if err != nil {
		if payment.IsUserError(err) {
			h.log.Debug("transfer rejected", zap.String("request_id", requestID(c)), zap.Error(err))
			return h.fail(c, fiber.StatusBadRequest, err.Error())
		}
		h.log.Error("failed to build transfer", zap.String("request_id", requestID(c)), zap.Error(err))
		return h.fail(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(res)
}

// Address validates address and returns its forms.
// GET /api/v1/address/:addr
func (h *Handler) Address(c *fiber.Ctx) error {
	info, err := h.svc.Address(c.Params("addr"))
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(info)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg, RequestID: requestID(c)})
}
