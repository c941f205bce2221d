package paymentctrl

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	paymentsvc "github.com/alfifrr/werent-backend-sub000/service/payment"
)

type Controller struct {
	svc paymentsvc.Service
}

func New(svc paymentsvc.Service) *Controller { return &Controller{svc: svc} }

type createReq struct {
	BookingIDs []int64 `json:"booking_ids" validate:"required,min=1,dive,gt=0"`
	Method     string  `json:"payment_method" validate:"required,oneof=CC QRIS TRANSFER CASH"`
	Type       string  `json:"payment_type" validate:"required,oneof=RENT FINE"`
	TotalPrice float64 `json:"total_price" validate:"required,gt=0"`
}

// Create godoc
//
//	@Summary	Settle one or more bookings with a single payment
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/payments [post]
func (h *Controller) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	p, err := h.svc.Create(c.Request().Context(), jwtx.UserID(c), req.BookingIDs,
		model.PaymentMethod(req.Method), model.PaymentType(req.Type), req.TotalPrice)
	if err != nil {
		return paymentError(c, err)
	}
	return response.Success(c, http.StatusCreated, "payment recorded", p)
}

func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid payment id")
	}
	p, err := h.svc.Get(c.Request().Context(), id, jwtx.UserID(c))
	if err != nil {
		return paymentError(c, err)
	}
	return response.Success(c, http.StatusOK, "payment", p)
}

func (h *Controller) List(c echo.Context) error {
	ps, err := h.svc.ListFor(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		return paymentError(c, err)
	}
	return response.Success(c, http.StatusOK, "payments", ps)
}

func paymentError(c echo.Context, err error) error {
	code := paymentsvc.Code(err)
	switch code {
	case paymentsvc.ErrNotFound, paymentsvc.ErrBookingNotFound:
		return response.Error(c, http.StatusNotFound, string(code), err.Error())
	case paymentsvc.ErrForbidden, paymentsvc.ErrNotVerified:
		return response.Error(c, http.StatusForbidden, string(code), err.Error())
	case paymentsvc.ErrAmountMismatch, paymentsvc.ErrWrongStatus:
		return response.Error(c, http.StatusConflict, string(code), err.Error())
	case paymentsvc.ErrInvalidInput:
		return response.Error(c, http.StatusBadRequest, string(code), err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
