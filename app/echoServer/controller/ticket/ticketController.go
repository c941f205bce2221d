package ticketctrl

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	ticketsvc "github.com/alfifrr/werent-backend-sub000/service/ticket"
)

type Controller struct {
	svc ticketsvc.Service
}

func New(svc ticketsvc.Service) *Controller { return &Controller{svc: svc} }

type createReq struct {
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type messageReq struct {
	Body string `json:"body" validate:"required"`
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

func (h *Controller) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	t, err := h.svc.Create(c.Request().Context(), jwtx.UserID(c), req.Subject, req.Description)
	if err != nil {
		return ticketError(c, err)
	}
	return response.Success(c, http.StatusCreated, "ticket created", t)
}

func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid ticket id")
	}
	t, err := h.svc.Get(c.Request().Context(), id, jwtx.UserID(c))
	if err != nil {
		return ticketError(c, err)
	}
	return response.Success(c, http.StatusOK, "ticket", t)
}

func (h *Controller) List(c echo.Context) error {
	ts, err := h.svc.ListFor(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		return ticketError(c, err)
	}
	return response.Success(c, http.StatusOK, "tickets", ts)
}

func (h *Controller) AddMessage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid ticket id")
	}
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	m, err := h.svc.AddMessage(c.Request().Context(), id, jwtx.UserID(c), req.Body)
	if err != nil {
		return ticketError(c, err)
	}
	return response.Success(c, http.StatusCreated, "message added", m)
}

// UpdateStatus is admin only.
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid ticket id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	t, err := h.svc.UpdateStatus(c.Request().Context(), id, jwtx.UserID(c), model.TicketStatus(req.Status))
	if err != nil {
		return ticketError(c, err)
	}
	return response.Success(c, http.StatusOK, "ticket updated", t)
}

func ticketError(c echo.Context, err error) error {
	code := ticketsvc.Code(err)
	switch code {
	case ticketsvc.ErrNotFound:
		return response.Error(c, http.StatusNotFound, string(code), err.Error())
	case ticketsvc.ErrForbidden:
		return response.Error(c, http.StatusForbidden, string(code), err.Error())
	case ticketsvc.ErrInvalidInput:
		return response.Error(c, http.StatusBadRequest, string(code), err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
