package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/transport"
	"github.com/Skotchmaster/handi_point/internal/util"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Summary(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.checkout")

	sid, ctx, _, err := begin(c)
	if err != nil {
		return fail(c, l, "get_checkout_error", err, nil)
	}
	return c.JSON(http.StatusOK, transport.CheckoutResponse{Summary: h.Svc.Summary(ctx, sid)})
}

func (h *CheckoutHTTP) Open(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "open.checkout")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "open_checkout_error", err, nil)
	}

	if err := h.Svc.Proceed(ctx, sid); err != nil {
		return fail(c, l, "open_checkout_error", err, rec)
	}
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Summary:       h.Svc.Summary(ctx, sid),
		Notifications: rec.Messages(),
	})
}

func (h *CheckoutHTTP) Cancel(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cancel.checkout")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "cancel_checkout_error", err, nil)
	}

	if err := h.Svc.Cancel(ctx, sid); err != nil {
		return fail(c, l, "cancel_checkout_error", err, rec)
	}
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Summary:       h.Svc.Summary(ctx, sid),
		Notifications: rec.Messages(),
	})
}

// Submit blocks until the order is placed or fails. A client that goes away
// early does not stop the submission.
func (h *CheckoutHTTP) Submit(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "submit.checkout")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "submit_checkout_error", err, nil)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_checkout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}

	done, err := h.Svc.Submit(ctx, sid, req.Form())
	if err != nil {
		return fail(c, l, "submit_checkout_error", err, rec)
	}

	select {
	case res := <-done:
		if res.Err != nil {
			return fail(c, l, "submit_checkout_error", res.Err, rec)
		}
		l.Info("order placed", "order_id", res.Confirmation.OrderID, "total", res.Confirmation.Total)
		return c.JSON(http.StatusCreated, transport.SubmitResponse{
			Confirmation:  res.Confirmation,
			Notifications: rec.Messages(),
		})
	case <-ctx.Done():
		l.Warn("submit_checkout_client_gone", "error", ctx.Err())
		return c.NoContent(http.StatusAccepted)
	}
}

func (h *CheckoutHTTP) Orders(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.orders")

	sid, ctx, _, err := begin(c)
	if err != nil {
		return fail(c, l, "get_orders_error", err, nil)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	page, size = util.Normalize(page, size)

	orders := h.Svc.Orders(ctx, sid)
	from, to := util.Window(len(orders), page, size)
	window := make([]models.OrderRecord, 0, to-from)
	window = append(window, orders[from:to]...)

	return c.JSON(http.StatusOK, transport.OrdersResponse{
		Orders: window,
		Page:   page,
		Size:   size,
		Total:  len(orders),
	})
}
