package models

import (
	"time"
)

type CartItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Cart keeps items in insertion order with at most one entry per ID.
type Cart []CartItem

func (c Cart) Index(id int) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) Total() int {
	total := 0
	for _, it := range c {
		total += it.Price * it.Quantity
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

type OrderRecord struct {
	OrderID             string    `json:"orderId"`
	CustomerName        string    `json:"customerName"`
	CustomerPhone       string    `json:"customerPhone"`
	CustomerAddress     string    `json:"customerAddress"`
	SpecialInstructions string    `json:"specialInstructions"`
	Items               Cart      `json:"items"`
	Total               int       `json:"total"`
	OrderTime           time.Time `json:"orderTime"`
}

type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null"                    json:"value"`
	UpdatedAt time.Time `gorm:"not null"                             json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}
