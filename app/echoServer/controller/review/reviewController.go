package reviewctrl

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	reviewsvc "github.com/alfifrr/werent-backend-sub000/service/review"
)

type Controller struct {
	svc reviewsvc.Service
}

func New(svc reviewsvc.Service) *Controller { return &Controller{svc: svc} }

type createReq struct {
	ItemID  int64  `json:"item_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *Controller) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	r, err := h.svc.Create(c.Request().Context(), jwtx.UserID(c), req.ItemID, req.Rating, req.Comment)
	if err != nil {
		return reviewError(c, err)
	}
	return response.Success(c, http.StatusCreated, "review created", r)
}

func (h *Controller) ListByItem(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid item id")
	}
	rs, err := h.svc.ListByItem(c.Request().Context(), itemID)
	if err != nil {
		return reviewError(c, err)
	}
	return response.Success(c, http.StatusOK, "reviews", rs)
}

func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid review id")
	}
	if err := h.svc.Delete(c.Request().Context(), id, jwtx.UserID(c)); err != nil {
		return reviewError(c, err)
	}
	return response.Success(c, http.StatusOK, "review deleted", nil)
}

func reviewError(c echo.Context, err error) error {
	code := reviewsvc.Code(err)
	switch code {
	case reviewsvc.ErrNotFound, reviewsvc.ErrItemNotFound:
		return response.Error(c, http.StatusNotFound, string(code), err.Error())
	case reviewsvc.ErrForbidden:
		return response.Error(c, http.StatusForbidden, string(code), err.Error())
	case reviewsvc.ErrInvalidInput:
		return response.Error(c, http.StatusBadRequest, string(code), err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
