package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/ascend-bim/gradebook/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.Ordering
}

// Bind reads `?ordering=name,-average`.
func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam))
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}
