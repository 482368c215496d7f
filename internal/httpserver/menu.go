package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/menu"
	"github.com/Skotchmaster/handi_point/internal/transport"
)

type MenuHTTP struct {
	Catalog *menu.Catalog
}

func (h *MenuHTTP) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.Items())
}

func (h *MenuHTTP) Get(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.menu.item")

	id, err := paramID(c)
	if err != nil {
		l.Warn("get_menu_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: err.Error()})
	}

	item, err := h.Catalog.Lookup(id)
	if err != nil {
		return fail(c, l, "get_menu_item_error", err, nil)
	}
	return c.JSON(http.StatusOK, item)
}
