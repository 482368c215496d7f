package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Skotchmaster/handi_point/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

var ErrUnknownItem = errors.New("menu item not found")

type Item struct {
	ID          int    `yaml:"id"          json:"id"`
	Name        string `yaml:"name"        json:"name"`
	Price       int    `yaml:"price"       json:"price"`
	Image       string `yaml:"image"       json:"image"`
	Description string `yaml:"description" json:"description"`
}

// CartItem turns the dish into a cart line with the given quantity.
func (i Item) CartItem(quantity int) models.CartItem {
	return models.CartItem{
		ID:          i.ID,
		Name:        i.Name,
		Price:       i.Price,
		Image:       i.Image,
		Description: i.Description,
		Quantity:    quantity,
	}
}

type Catalog struct {
	items []Item
	byID  map[int]int
}

func Default() *Catalog {
	c, err := Parse(defaultMenu)
	if err != nil {
		panic(fmt.Sprintf("embedded menu is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	c := &Catalog{items: doc.Items, byID: make(map[int]int, len(doc.Items))}
	for i, it := range doc.Items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("menu item %q: id must be positive", it.Name)
		}
		if it.Name == "" {
			return nil, fmt.Errorf("menu item %d: name required", it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("menu item %d: price must be >= 0", it.ID)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("menu item %d: duplicate id", it.ID)
		}
		if it.Description == "" {
			doc.Items[i].Description = "Delicious traditional dish"
		}
		c.byID[it.ID] = i
	}
	return c, nil
}

func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(id int) (Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("id %d: %w", id, ErrUnknownItem)
	}
	return c.items[i], nil
}
