package handler

import (
	"net/http"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageParam(c)
	if err != nil {
		return err
	}

	resp, err := h.catalogService.ListActive(ctx, page)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProduct(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, service.ToProductDTO(product))
}
