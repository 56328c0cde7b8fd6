package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ascend-bim/gradebook/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc student.ServiceInterface, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/deliveries", api.queryDeliveries)
	g.GET("/stats", api.stats)

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.DELETE("", api.destroyMultiple)

	// detail endpoints
	dg := sg.Group("/:id", studentMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/feedback", api.feedback)

	eg := g.Group("/export")
	eg.GET("/csv", api.exportCSV)
	eg.GET("/xlsx", api.exportXLSX)
}

// Handlers

func (api *studentApi) queryDeliveries(ctx echo.Context) error {
	deliveries := make([]student.Delivery, 0, len(student.Deliveries))
	for _, d := range student.Deliveries {
		d.Weight = student.Weight(d.ID)
		deliveries = append(deliveries, d)
	}
	return ctx.JSON(http.StatusOK, deliveries)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	s, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, student.NewRow(s))
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Row{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rows, err := api.svc.Query(filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if rows == nil {
		rows = []student.Row{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student.NewRow(s))
}

func (api *studentApi) update(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	s, err = api.svc.Update(s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, student.NewRow(s))
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(s.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// feedback asks the AI mentor about the student and stores the answer on the record.
func (api *studentApi) feedback(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	s, err = api.svc.Feedback(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "generating feedback")
	}
	return ctx.JSON(http.StatusOK, student.NewRow(s))
}

func (api *studentApi) stats(ctx echo.Context) error {
	st, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) exportCSV(ctx echo.Context) error {
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="notas-bim.csv"`)
	resp.WriteHeader(http.StatusOK)
	return api.svc.ExportCSV(resp)
}

func (api *studentApi) exportXLSX(ctx echo.Context) error {
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="notas-bim.xlsx"`)
	resp.WriteHeader(http.StatusOK)
	return api.svc.ExportXLSX(resp)
}
