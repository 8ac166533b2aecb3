package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Start(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.checkoutService.Start(ctx, middleware.UserFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) Current(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.checkoutService.Current(ctx, middleware.UserFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Text carries free-text answers. Empty text is passed through; the current
// step decides whether it is acceptable.
func (h *CheckoutHandler) Text(c echo.Context) error {
	var req dto.TextInputRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.handle(c, model.TextInput(req.Text))
}

func (h *CheckoutHandler) Choice(c echo.Context) error {
	var req dto.ChoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.handle(c, model.ChoiceInput(req.Token))
}

func (h *CheckoutHandler) handle(c echo.Context, in model.Input) error {
	ctx := c.Request().Context()

	resp, err := h.checkoutService.Handle(ctx, middleware.UserFromContext(c), in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}
