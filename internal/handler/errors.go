package handler

import (
	"errors"
	"net/http"
	"storefront-checkout/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

// httpError maps domain errors onto HTTP statuses. Anything unknown is left
// to echo's default handler and becomes a 500.
func httpError(err error) error {
	var variantErr *service.VariantRequiredError

	switch {
	case errors.As(err, &variantErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"message":  "choose a variant",
			"variants": variantErr.Variants,
		})
	case errors.Is(err, service.ErrUnknownVariant):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown variant")
	case errors.Is(err, service.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusConflict, "cart is empty")
	case errors.Is(err, service.ErrNoSession):
		return echo.NewHTTPError(http.StatusConflict, "no checkout in progress")
	case errors.Is(err, service.ErrInvalidPageNumber):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	return err
}

func pageParam(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	return page, nil
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
