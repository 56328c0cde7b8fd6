package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ascend-bim/gradebook/core/student"
)

type syncApi struct {
	svc student.ServiceInterface
}

func registerSyncAPI(g *echo.Group, svc student.ServiceInterface) {
	api := syncApi{svc: svc}

	sg := g.Group("/sync")
	sg.POST("/push", api.push)
	sg.POST("/pull", api.pull)
}

// syncStatus maps a SyncResult to an HTTP status: failures are reported as a bad gateway.
func syncStatus(res student.SyncResult) int {
	if res.OK() {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

func (api *syncApi) push(ctx echo.Context) error {
	res, err := api.svc.Push(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "pushing roster")
	}
	return ctx.JSON(syncStatus(res), res)
}

func (api *syncApi) pull(ctx echo.Context) error {
	res, err := api.svc.Pull(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "pulling roster")
	}
	return ctx.JSON(syncStatus(res), res)
}
