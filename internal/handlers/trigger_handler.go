package handlers

import (
	"context"
	"log/slog"
	"push-service/internal/event"
	"push-service/internal/models"
	"time"

	"github.com/gofiber/fiber/v3"
)

type TriggerHandler struct {
	handler event.ChangeHandler
	timeout time.Duration
}

func NewTriggerHandler(handler event.ChangeHandler, timeout time.Duration) *TriggerHandler {
	return &TriggerHandler{
		handler: handler,
		timeout: timeout,
	}
}

func (h *TriggerHandler) Register(app *fiber.App) {
	protectedGr := app.Group("/notification/protected/api/v2")
	triggerGr := protectedGr.Group("/triggers")

	triggerGr.Post("/:kind", h.Trigger)
}

type TriggerResponse struct {
	Dispatched bool                   `json:"dispatched"`
	Report     *models.DeliveryReport `json:"report,omitempty"`
}

// Trigger runs one change through the push pipeline. Once the change is
// valid the response is always 200, whatever happened to the deliveries.
func (h *TriggerHandler) Trigger(c fiber.Ctx) error {
	var msg event.ChangeMessage
	if err := c.Bind().Body(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid request body",
			"detail": err.Error(),
		})
	}
	msg.Kind = models.EventKind(c.Params("kind"))

	change, err := msg.ToChangeEvent()
	if err != nil {
		slog.Warn("Rejected change trigger", "kind", msg.Kind, "id", msg.ID, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid change event",
			"detail": err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	report := h.handler.Handle(ctx, change)
	return c.Status(fiber.StatusOK).JSON(TriggerResponse{
		Dispatched: report != nil,
		Report:     report,
	})
}
