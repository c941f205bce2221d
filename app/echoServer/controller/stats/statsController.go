package statsctrl

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	statssvc "github.com/alfifrr/werent-backend-sub000/service/stats"
)

type Controller struct {
	svc statssvc.Service
}

func New(svc statssvc.Service) *Controller { return &Controller{svc: svc} }

// Admin godoc
//
//	@Summary	Platform-wide totals and weekly deltas, admin only
//	@Tags		statistics
//	@Security	BearerAuth
//	@Router		/statistics/admin [get]
func (h *Controller) Admin(c echo.Context) error {
	st, err := h.svc.AdminStats(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		if errors.Is(err, statssvc.ErrForbidden) {
			return response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		}
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
	return response.Success(c, http.StatusOK, "statistics", st)
}
