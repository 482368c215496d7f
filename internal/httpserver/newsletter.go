package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/transport"
)

type NewsletterHTTP struct {
	Svc *service.NewsletterService
}

func (h *NewsletterHTTP) Subscribe(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "newsletter.subscribe")

	rec := &notify.Recorder{}
	ctx := notify.IntoContext(c.Request().Context(), rec)

	var req transport.NewsletterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("newsletter_subscribe_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}

	added, err := h.Svc.Subscribe(ctx, req.Email)
	if err != nil {
		return fail(c, l, "newsletter_subscribe_error", err, rec)
	}
	return c.JSON(http.StatusOK, transport.NewsletterResponse{
		Subscribed:    added,
		Notifications: rec.Messages(),
	})
}
