package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/middleware/session"
)

type Deps struct {
	MenuHandler       *MenuHTTP
	CartHandler       *CartHTTP
	CheckoutHandler   *CheckoutHTTP
	NewsletterHandler *NewsletterHTTP
	Session           *session.Middleware
	// Ready reports whether storage is reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1")
	api.GET("/menu", d.MenuHandler.List)
	api.GET("/menu/:id", d.MenuHandler.Get)
	api.POST("/newsletter", d.NewsletterHandler.Subscribe)

	s := api.Group("", d.Session.Ensure)

	s.GET("/cart", d.CartHandler.GetCart)
	s.POST("/cart/items", d.CartHandler.AddToCart)
	s.PATCH("/cart/items/:id", d.CartHandler.UpdateQuantity)
	s.DELETE("/cart/items/:id", d.CartHandler.RemoveFromCart)
	s.DELETE("/cart", d.CartHandler.ClearCart)

	s.GET("/checkout", d.CheckoutHandler.Summary)
	s.POST("/checkout", d.CheckoutHandler.Open)
	s.DELETE("/checkout", d.CheckoutHandler.Cancel)
	s.POST("/checkout/submit", d.CheckoutHandler.Submit)

	s.GET("/orders", d.CheckoutHandler.Orders)
}
