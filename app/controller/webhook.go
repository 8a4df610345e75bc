package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-omise/app/events"
	"github.com/vibast-solutions/ms-go-omise/app/factory"
	"github.com/vibast-solutions/ms-go-omise/app/service"
	"github.com/vibast-solutions/ms-go-omise/app/types"
)

type WebhookController struct {
	registry *events.Registry
	logger   logrus.FieldLogger
}

func NewWebhookController(registry *events.Registry) *WebhookController {
	return &WebhookController{
		registry: registry,
		logger:   factory.NewModuleLogger("webhooks-controller"),
	}
}

// HandleWebhook validates the provider's event envelope and dispatches it.
// Events this gateway has no handler for, and events referencing orders it
// does not know, are acknowledged so the provider stops retrying them.
func (c *WebhookController) HandleWebhook(ctx echo.Context) error {
	event, err := types.NewWebhookEventFromContext(ctx)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrWrongContentType):
			return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: err.Error(), Code: "wrong_content_type"})
		case errors.Is(err, types.ErrWrongObjectType):
			return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: err.Error(), Code: "wrong_object_type"})
		default:
			return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: "invalid request body"})
		}
	}

	handler, err := c.registry.Get(event.Key)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithField("event", event.Key).Debug("Ignoring unhandled event")
		return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Event ignored"})
	}

	if err := handler.Handle(ctx.Request().Context(), event.Data); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			factory.LoggerWithContext(c.logger, ctx).WithField("event", event.Key).Warn("Event references an unknown order")
			return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Event ignored"})
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).WithField("event", event.Key).Error("Event handling failed")
		return ctx.JSON(http.StatusInternalServerError, &types.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Event processed"})
}
