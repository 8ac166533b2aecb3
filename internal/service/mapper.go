package service

import (
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
)

func toCartItems(lines []model.CartLine) []dto.CartItem {
	items := make([]dto.CartItem, len(lines))
	for i, line := range lines {
		items[i] = dto.CartItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Variant:   line.Variant,
			Price:     line.Price,
			Qty:       line.Qty,
			Subtotal:  line.Subtotal(),
		}
	}
	return items
}

func ToProductDTO(p *model.Product) dto.Product {
	variants := p.Variants
	if variants == nil {
		variants = []string{}
	}
	return dto.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		ImageRef:    p.ImageRef,
		Variants:    variants,
		Active:      p.Active,
	}
}

func ToOrderDTO(o *model.Order, currency string) *dto.Order {
	items := make([]dto.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = dto.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Variant:   item.Variant,
			Price:     item.Price,
			Qty:       item.Qty,
		}
	}

	return &dto.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Username:      o.Username,
		FullName:      o.FullName,
		Phone:         o.Phone,
		City:          o.City,
		DeliveryType:  model.DeliveryType(o.DeliveryType).Label(),
		DeliveryPoint: o.DeliveryPoint,
		Payment:       model.PaymentMethod(o.Payment).Label(),
		Comment:       o.Comment,
		Total:         o.Total,
		Currency:      currency,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}
