package service

import (
	"fmt"
	"os"
	"storefront-checkout/internal/model"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          uint     `yaml:"id"`
	Title       string   `yaml:"title"`
	Price       int64    `yaml:"price"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Variants    []string `yaml:"variants"`
	Active      *bool    `yaml:"active"`
}

// LoadSeedFile reads the catalog seed. Products without an explicit
// active flag are active.
func LoadSeedFile(path string) ([]*model.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]*model.Product, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	products := make([]*model.Product, 0, len(file.Products))
	for i, p := range file.Products {
		if p.ID == 0 {
			return nil, fmt.Errorf("seed product #%d: id is required", i+1)
		}
		if p.Title == "" || p.Price <= 0 {
			return nil, fmt.Errorf("seed product %d: title and positive price are required", p.ID)
		}

		active := true
		if p.Active != nil {
			active = *p.Active
		}
		variants := p.Variants
		if variants == nil {
			variants = []string{}
		}

		products = append(products, &model.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
			ImageRef:    p.Image,
			Variants:    variants,
			Active:      active,
		})
	}

	return products, nil
}
