package handler

import (
	"context"
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type cartMutation func(ctx context.Context, key model.CartKey) (*dto.CartView, error)

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	view, err := h.cartService.View(ctx, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	return h.mutate(c, h.cartService.Add)
}

func (h *CartHandler) IncrementItem(c echo.Context) error {
	return h.mutate(c, h.cartService.Increment)
}

func (h *CartHandler) DecrementItem(c echo.Context) error {
	return h.mutate(c, h.cartService.Decrement)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	return h.mutate(c, h.cartService.Remove)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	view, err := h.cartService.Clear(ctx, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) mutate(c echo.Context, fn cartMutation) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	var req dto.CartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := fn(ctx, model.CartKey{
		UserID:    user.ID,
		ProductID: req.ProductID,
		Variant:   req.Variant,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, view)
}
