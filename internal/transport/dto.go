package transport

import (
	"github.com/Skotchmaster/handi_point/internal/models"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/service"
)

type AddItemRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CartResponse struct {
	Items         models.Cart      `json:"items"`
	Total         int              `json:"total"`
	ItemCount     int              `json:"item_count"`
	BadgeVisible  bool             `json:"badge_visible"`
	Notifications []notify.Message `json:"notifications"`
}

func NewCartResponse(cart models.Cart, msgs []notify.Message) CartResponse {
	if cart == nil {
		cart = models.Cart{}
	}
	count := cart.ItemCount()
	return CartResponse{
		Items:         cart,
		Total:         cart.Total(),
		ItemCount:     count,
		BadgeVisible:  count > 0,
		Notifications: msgs,
	}
}

type CheckoutRequest struct {
	CustomerName        string `json:"customer_name"`
	CustomerPhone       string `json:"customer_phone"`
	CustomerAddress     string `json:"customer_address"`
	SpecialInstructions string `json:"special_instructions"`
}

func (r CheckoutRequest) Form() service.CheckoutForm {
	return service.CheckoutForm{
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerAddress:     r.CustomerAddress,
		SpecialInstructions: r.SpecialInstructions,
	}
}

type CheckoutResponse struct {
	service.Summary
	Notifications []notify.Message `json:"notifications"`
}

type SubmitResponse struct {
	Confirmation  *service.Confirmation `json:"confirmation"`
	Notifications []notify.Message      `json:"notifications"`
}

type OrdersResponse struct {
	Orders []models.OrderRecord `json:"orders"`
	Page   int                  `json:"page"`
	Size   int                  `json:"size"`
	Total  int                  `json:"total"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type NewsletterResponse struct {
	Subscribed    bool             `json:"subscribed"`
	Notifications []notify.Message `json:"notifications"`
}

type ErrorResponse struct {
	Error         string            `json:"error"`
	Fields        map[string]string `json:"fields,omitempty"`
	Notifications []notify.Message  `json:"notifications,omitempty"`
}
