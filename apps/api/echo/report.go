package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ascend-bim/gradebook/core"
	"github.com/ascend-bim/gradebook/core/student"
)

type reportApi struct {
	svc               student.ServiceInterface
	validate          *validator.Validate
	defaultRecipients []string
}

func registerReportAPI(g *echo.Group, svc student.ServiceInterface, validate *validator.Validate, defaultRecipients []string) {
	api := reportApi{
		svc:               svc,
		validate:          validate,
		defaultRecipients: defaultRecipients,
	}

	rg := g.Group("/reports")
	rg.POST("/class", api.classReport)
	rg.POST("/class/email", api.mailClassReport)
}

type (
	ReportResponse struct {
		Report string `json:"report"`
	}

	MailReportRequest struct {
		To []string `json:"to" validate:"omitempty,dive,email"`
	}
)

func (mr *MailReportRequest) Validate(validate *validator.Validate, defaults []string) ([]mail.Address, error) {
	to := make([]string, 0, len(mr.To))
	for _, addr := range mr.To {
		if addr = core.CleanString(addr, true /* lower */); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		to = defaults
	}
	mr.To = to
	if err := validate.Struct(mr); err != nil {
		return nil, err
	}

	addrs := make([]mail.Address, 0, len(to))
	for _, a := range to {
		addr, err := mail.ParseAddress(a)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "to", Error: err.Error()})
		}
		addrs = append(addrs, *addr)
	}
	return addrs, nil
}

// classReport returns a transient AI report on the whole roster. Nothing is stored.
func (api *reportApi) classReport(ctx echo.Context) error {
	report, err := api.svc.ClassReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "generating class report")
	}
	return ctx.JSON(http.StatusOK, ReportResponse{Report: report})
}

func (api *reportApi) mailClassReport(ctx echo.Context) error {
	var data MailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MailReportRequest")
	}
	to, err := data.Validate(api.validate, api.defaultRecipients)
	if err != nil {
		return err
	}

	report, err := api.svc.MailClassReport(ctx.Request().Context(), to)
	if err != nil {
		return errors.Wrap(err, "mailing class report")
	}
	return ctx.JSON(http.StatusAccepted, ReportResponse{Report: report})
}
