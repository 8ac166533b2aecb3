package dto

import "time"

type CartItemRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Variant   string `json:"variant" validate:"max=64"`
}

type CartItem struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Variant   string `json:"variant,omitempty"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
	Subtotal  int64  `json:"subtotal"`
}

type CartView struct {
	Items    []CartItem `json:"items"`
	Total    int64      `json:"total"`
	Currency string     `json:"currency"`
	Notice   string     `json:"notice,omitempty"`
}

func (v *CartView) Empty() bool {
	return len(v.Items) == 0
}

type Product struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	ImageRef    string   `json:"image_ref"`
	Variants    []string `json:"variants"`
	Active      bool     `json:"active"`
}

type CatalogPage struct {
	Page     int       `json:"page"`
	Products []Product `json:"products"`
	HasNext  bool      `json:"has_next"`
}

type CreateProductRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Price       int64  `json:"price" validate:"gt=0"`
	Description string `json:"description" validate:"required"`
	ImageRef    string `json:"image_ref" validate:"required,max=255"`
	// free text as typed by the admin: "S, M; L", "-" or empty for none
	Variants string `json:"variants"`
}

type TextInputRequest struct {
	Text string `json:"text"`
}

type ChoiceRequest struct {
	Token string `json:"token" validate:"required"`
}

type Preview struct {
	Items         []CartItem `json:"items"`
	Total         int64      `json:"total"`
	Currency      string     `json:"currency"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone"`
	City          string     `json:"city"`
	DeliveryType  string     `json:"delivery_type"`
	DeliveryPoint string     `json:"delivery_point"`
	Payment       string     `json:"payment"`
	Comment       string     `json:"comment"`
}

type StepResponse struct {
	Step    string   `json:"step"`
	Outcome string   `json:"outcome"`
	Prompt  string   `json:"prompt,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Error   string   `json:"error,omitempty"`
	Preview *Preview `json:"preview,omitempty"`
	Order   *Order   `json:"order,omitempty"`
}

type OrderItem struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Variant   string `json:"variant,omitempty"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
}

type Order struct {
	ID            uint        `json:"id"`
	UserID        int64       `json:"user_id"`
	Username      string      `json:"username,omitempty"`
	FullName      string      `json:"full_name"`
	Phone         string      `json:"phone"`
	City          string      `json:"city"`
	DeliveryType  string      `json:"delivery_type"`
	DeliveryPoint string      `json:"delivery_point"`
	Payment       string      `json:"payment"`
	Comment       string      `json:"comment"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items"`
	// set on operator lookups only
	CustomerOrders int64 `json:"customer_orders,omitempty"`
}
