package bookingctrl

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/jwtx"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	bookingsvc "github.com/alfifrr/werent-backend-sub000/service/booking"
)

// maxCalendarDays caps the calendar range so one request cannot fan out into
// an unbounded number of per-day queries.
const maxCalendarDays = 90

const dateLayout = "2006-01-02"

type Controller struct {
	svc     bookingsvc.Service
	cleaner bookingsvc.Cleaner
}

func New(svc bookingsvc.Service, cleaner bookingsvc.Cleaner) *Controller {
	return &Controller{svc: svc, cleaner: cleaner}
}

type createReq struct {
	ItemID    int64  `json:"item_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=10"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// Availability godoc
//
//	@Summary	Check item availability over an inclusive date range
//	@Tags		bookings
//	@Produce	json
//	@Param		item_id		query	int		true	"item id"
//	@Param		start_date	query	string	true	"YYYY-MM-DD"
//	@Param		end_date	query	string	true	"YYYY-MM-DD"
//	@Param		quantity	query	int		false	"requested quantity, default 1"
//	@Success	200	{object}	model.Availability
//	@Router		/bookings/availability [get]
func (h *Controller) Availability(c echo.Context) error {
	itemID, start, end, err := availabilityParams(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	}
	quantity := 1
	if q := c.QueryParam("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "quantity must be an integer")
		}
	}
	if quantity < 1 || quantity > 10 {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "quantity must be between 1 and 10")
	}

	// Normalize stale holds before reading; the availability math does not
	// depend on it, so a sweep failure is ignored.
	_, _ = h.cleaner.ExpirePending(c.Request().Context())

	av := h.svc.CheckAvailability(c.Request().Context(), itemID, start, end, quantity)
	return response.Success(c, http.StatusOK, "availability", av)
}

// Calendar godoc
//
//	@Summary	Per-day availability, capped at 90 days
//	@Tags		bookings
//	@Produce	json
//	@Router		/bookings/availability/calendar [get]
func (h *Controller) Calendar(c echo.Context) error {
	itemID, start, end, err := availabilityParams(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	}
	if end.Sub(start) > time.Duration(maxCalendarDays-1)*24*time.Hour {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT",
			"calendar range may not exceed "+strconv.Itoa(maxCalendarDays)+" days")
	}

	_, _ = h.cleaner.ExpirePending(c.Request().Context())

	cal, err := h.svc.Calendar(c.Request().Context(), itemID, start, end)
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "calendar", cal)
}

// Create godoc
//
//	@Summary	Place a booking; holds inventory as PENDING for 30 minutes
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/bookings [post]
func (h *Controller) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "end_date must be YYYY-MM-DD")
	}

	b, err := h.svc.Create(c.Request().Context(), jwtx.UserID(c), req.ItemID, start, end, req.Quantity)
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusCreated, "booking created", b)
}

func (h *Controller) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid booking id")
	}
	b, err := h.svc.ByID(c.Request().Context(), id, jwtx.UserID(c))
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "booking", b)
}

// List returns the caller's bookings; admins may pass ?user_id= to read
// another user's.
func (h *Controller) List(c echo.Context) error {
	actor := jwtx.UserID(c)
	if uid := c.QueryParam("user_id"); uid != "" {
		target, err := strconv.ParseInt(uid, 10, 64)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "user_id must be an integer")
		}
		bs, err := h.svc.ListByUser(c.Request().Context(), target, actor)
		if err != nil {
			return bookingError(c, err)
		}
		return response.Success(c, http.StatusOK, "bookings", bs)
	}
	bs, err := h.svc.ListFor(c.Request().Context(), actor)
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "bookings", bs)
}

func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid booking id")
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	b, err := h.svc.UpdateStatus(c.Request().Context(), id, jwtx.UserID(c), model.BookingStatus(req.Status))
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "booking updated", b)
}

func (h *Controller) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid booking id")
	}
	b, err := h.svc.Cancel(c.Request().Context(), id, jwtx.UserID(c))
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "booking cancelled", b)
}

// ListForItem shows an item's bookings to its owner (or an admin).
func (h *Controller) ListForItem(c echo.Context) error {
	itemID, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid item id")
	}
	bs, err := h.svc.ListForItem(c.Request().Context(), itemID, jwtx.UserID(c))
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "bookings", bs)
}

// Revenue sums COMPLETED booking prices across the caller's items.
func (h *Controller) Revenue(c echo.Context) error {
	total, err := h.svc.Revenue(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "revenue", echo.Map{"total_revenue": total})
}

// Statistics godoc
//
//	@Summary	Booking counts and revenue, admin only
//	@Tags		bookings
//	@Security	BearerAuth
//	@Router		/bookings/statistics [get]
func (h *Controller) Statistics(c echo.Context) error {
	var from, to *time.Time
	if f := c.QueryParam("from"); f != "" {
		t, err := time.Parse(dateLayout, f)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "from must be YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "to must be YYYY-MM-DD")
		}
		// to is an inclusive calendar day; pass the next midnight as the
		// exclusive bound so bookings created later that day are counted.
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	st, err := h.svc.Statistics(c.Request().Context(), jwtx.UserID(c), from, to)
	if err != nil {
		return bookingError(c, err)
	}
	return response.Success(c, http.StatusOK, "statistics", st)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func availabilityParams(c echo.Context) (itemID int64, start, end time.Time, err error) {
	itemID, err = strconv.ParseInt(c.QueryParam("item_id"), 10, 64)
	if err != nil {
		return 0, time.Time{}, time.Time{}, errors.New("item_id must be an integer")
	}
	start, err = time.Parse(dateLayout, c.QueryParam("start_date"))
	if err != nil {
		return 0, time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err = time.Parse(dateLayout, c.QueryParam("end_date"))
	if err != nil {
		return 0, time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return 0, time.Time{}, time.Time{}, errors.New("end_date must not precede start_date")
	}
	return itemID, start, end, nil
}

func bookingError(c echo.Context, err error) error {
	switch bookingsvc.Code(err) {
	case bookingsvc.ErrNotFound, bookingsvc.ErrItemNotFound, bookingsvc.ErrUserNotFound:
		return response.Error(c, http.StatusNotFound, string(bookingsvc.Code(err)), err.Error())
	case bookingsvc.ErrNotVerified, bookingsvc.ErrForbidden:
		return response.Error(c, http.StatusForbidden, string(bookingsvc.Code(err)), err.Error())
	case bookingsvc.ErrUnavailable:
		return response.Error(c, http.StatusConflict, string(bookingsvc.ErrUnavailable), err.Error())
	case bookingsvc.ErrInvalidInput, bookingsvc.ErrInvalidTransition:
		return response.Error(c, http.StatusBadRequest, string(bookingsvc.Code(err)), err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
