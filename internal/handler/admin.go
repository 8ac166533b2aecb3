package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	catalogService service.CatalogService
	orderService   service.OrderService
	currency       string
}

func NewAdminHandler(catalogService service.CatalogService, orderService service.OrderService, currency string) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		orderService:   orderService,
		currency:       currency,
	}
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, service.ToProductDTO(product))
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	resp, err := h.catalogService.ListProducts(ctx, page)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ToggleProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	product, err := h.catalogService.ToggleActive(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, service.ToProductDTO(product))
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(ctx, id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return httpError(err)
	}

	count, err := h.orderService.CountUserOrders(ctx, order.UserID)
	if err != nil {
		return err
	}

	resp := service.ToOrderDTO(order, h.currency)
	resp.CustomerOrders = count
	return c.JSON(http.StatusOK, resp)
}
