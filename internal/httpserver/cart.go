package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/menu"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/transport"
)

type CartHTTP struct {
	Svc  *service.CartService
	Menu *menu.Catalog
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.cart")

	sid, ctx, _, err := begin(c)
	if err != nil {
		return fail(c, l, "get_cart_error", err, nil)
	}

	return c.JSON(http.StatusOK, transport.NewCartResponse(h.Svc.GetCart(ctx, sid), nil))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "add.cart")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, nil)
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}

	item, err := h.Menu.Lookup(req.ID)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, rec)
	}

	cart, err := h.Svc.AddToCart(ctx, sid, item.CartItem(req.Quantity))
	if err != nil {
		return fail(c, l, "add_to_cart_error", err, rec)
	}

	l.Info("item added to cart", "id", item.ID)
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart, rec.Messages()))
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "update.cart.quantity")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "update_quantity_error", err, nil)
	}

	id, err := paramID(c)
	if err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: err.Error()})
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "quantity required"})
	}

	cart, err := h.Svc.UpdateQuantity(ctx, sid, id, *req.Quantity)
	if err != nil {
		return fail(c, l, "update_quantity_error", err, rec)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart, rec.Messages()))
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "remove.from.cart")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err, nil)
	}

	id, err := paramID(c)
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: err.Error()})
	}

	cart, err := h.Svc.RemoveFromCart(ctx, sid, id)
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err, rec)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart, rec.Messages()))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "clear.cart")

	sid, ctx, rec, err := begin(c)
	if err != nil {
		return fail(c, l, "clear_cart_error", err, nil)
	}

	cart, err := h.Svc.ClearCart(ctx, sid)
	if err != nil {
		return fail(c, l, "clear_cart_error", err, rec)
	}

	l.Info("cart cleared")
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart, rec.Messages()))
}
