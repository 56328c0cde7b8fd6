package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ascend-bim/gradebook/core/student"
)

const objectKey = "object"

var errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")

// studentMiddleware loads the student named by the `:id` param into the context.
func studentMiddleware(svc student.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.GetByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set(objectKey, s)
			return next(ctx)
		}
	}
}

func getContextStudent(ctx echo.Context) (student.Student, error) {
	s, ok := ctx.Get(objectKey).(student.Student)
	if !ok {
		return student.Student{}, errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	return s, nil
}
