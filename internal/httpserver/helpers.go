package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/menu"
	"github.com/Skotchmaster/handi_point/internal/middleware/session"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/transport"
)

var errNoSession = errors.New("no session")

// begin returns the session id and a context whose notifications are recorded
// for the response.
func begin(c echo.Context) (string, context.Context, *notify.Recorder, error) {
	sid, ok := session.ID(c)
	if !ok {
		return "", nil, nil, errNoSession
	}
	rec := &notify.Recorder{}
	return sid, notify.IntoContext(c.Request().Context(), rec), rec, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSubmissionInProgress), errors.Is(err, service.ErrCheckoutNotOpen):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound), errors.Is(err, menu.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, errNoSession):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, l *slog.Logger, event string, err error, rec *notify.Recorder) error {
	status := statusFor(err)
	resp := transport.ErrorResponse{Error: err.Error()}
	if rec != nil {
		resp.Notifications = rec.Messages()
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
		resp.Error = "internal error"
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return c.JSON(status, resp)
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
