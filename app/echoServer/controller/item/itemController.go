package itemctrl

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	itemsvc "github.com/alfifrr/werent-backend-sub000/service/item"
)

type Controller struct {
	svc itemsvc.Service
}

func New(svc itemsvc.Service) *Controller { return &Controller{svc: svc} }

type itemReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	PricePerDay float64 `json:"price_per_day" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
}

func (r itemReq) toModel() model.Item {
	return model.Item{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		PricePerDay: r.PricePerDay,
		Quantity:    r.Quantity,
	}
}

// Create godoc
//
//	@Summary	List a new rentable item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/items [post]
func (h *Controller) Create(c echo.Context) error {
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	it, err := h.svc.Create(c.Request().Context(), jwtx.UserID(c), req.toModel())
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, http.StatusCreated, "item created", it)
}

func (h *Controller) List(c echo.Context) error {
	its, err := h.svc.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, http.StatusOK, "items", its)
}

func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid item id")
	}
	it, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, http.StatusOK, "item", it)
}

func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid item id")
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	it, err := h.svc.Update(c.Request().Context(), jwtx.UserID(c), id, req.toModel())
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, http.StatusOK, "item updated", it)
}

func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid item id")
	}
	if err := h.svc.Delete(c.Request().Context(), jwtx.UserID(c), id); err != nil {
		return itemError(c, err)
	}
	return response.Success(c, http.StatusOK, "item deleted", nil)
}

func itemError(c echo.Context, err error) error {
	switch itemsvc.Code(err) {
	case itemsvc.ErrNotFound:
		return response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case itemsvc.ErrForbidden:
		return response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case itemsvc.ErrInvalidInput:
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
