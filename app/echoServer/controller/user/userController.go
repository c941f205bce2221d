package userctrl

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	usersvc "github.com/alfifrr/werent-backend-sub000/service/user"
)

type Controller struct {
	svc usersvc.Service
}

func New(svc usersvc.Service) *Controller { return &Controller{svc: svc} }

func (h *Controller) Me(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, http.StatusOK, "profile", u)
}

func (h *Controller) UpdateMe(c echo.Context) error {
	var req model.UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), jwtx.UserID(c), req)
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, http.StatusOK, "profile updated", u)
}

// List is admin only; the service re-checks the role against the database.
func (h *Controller) List(c echo.Context) error {
	us, err := h.svc.List(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		return userError(c, err)
	}
	return response.Success(c, http.StatusOK, "users", us)
}

func userError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usersvc.ErrNotFound):
		return response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, usersvc.ErrForbidden):
		return response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
