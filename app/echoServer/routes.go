package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/auth"
	bookingctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/booking"
	itemctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/item"
	paymentctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/payment"
	reviewctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/review"
	statsctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/stats"
	ticketctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/ticket"
	userctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/user"
)

type C struct {
	Auth    *authctrl.Controller
	User    *userctrl.Controller
	Booking *bookingctrl.Controller
	Item    *itemctrl.Controller
	Payment *paymentctrl.Controller
	Review  *reviewctrl.Controller
	Ticket  *ticketctrl.Controller
	Stats   *statsctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public
	e.POST("/auth/register", c.Auth.Register)
	e.POST("/auth/login", c.Auth.Login)
	e.GET("/auth/verify", c.Auth.Verify)
	e.POST("/auth/resend-verification", c.Auth.Resend)

	// Availability endpoints are public so unauthenticated visitors can
	// browse the calendar.
	e.GET("/bookings/availability", c.Booking.Availability)
	e.GET("/bookings/availability/calendar", c.Booking.Calendar)

	e.GET("/items", c.Item.List)
	e.GET("/items/:id", c.Item.Detail)
	e.GET("/items/:id/reviews", c.Review.ListByItem)

	// Auth
	auth := e.Group("")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
	}))
	auth.Use(claims())

	auth.GET("/users/me", c.User.Me)
	auth.PUT("/users/me", c.User.UpdateMe)
	auth.GET("/users", c.User.List)

	auth.POST("/bookings", c.Booking.Create)
	auth.GET("/bookings", c.Booking.List)
	auth.GET("/bookings/statistics", c.Booking.Statistics)
	auth.GET("/bookings/:id", c.Booking.Detail)
	auth.PUT("/bookings/:id", c.Booking.UpdateStatus)
	auth.POST("/bookings/:id/cancel", c.Booking.Cancel)

	auth.POST("/items", c.Item.Create)
	auth.PUT("/items/:id", c.Item.Update)
	auth.DELETE("/items/:id", c.Item.Delete)
	auth.GET("/items/:id/bookings", c.Booking.ListForItem)

	auth.GET("/users/me/revenue", c.Booking.Revenue)

	auth.POST("/payments", c.Payment.Create)
	auth.GET("/payments", c.Payment.List)
	auth.GET("/payments/:id", c.Payment.Detail)

	auth.POST("/reviews", c.Review.Create)
	auth.DELETE("/reviews/:id", c.Review.Delete)

	auth.POST("/tickets", c.Ticket.Create)
	auth.GET("/tickets", c.Ticket.List)
	auth.GET("/tickets/:id", c.Ticket.Detail)
	auth.POST("/tickets/:id/messages", c.Ticket.AddMessage)
	auth.PUT("/tickets/:id/status", c.Ticket.UpdateStatus)

	auth.GET("/statistics/admin", c.Stats.Admin)
}

// claims copies sub and role out of the verified token so handlers read
// typed context values instead of raw claims.
func claims() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "error": "unauthorized", "error_code": "UNAUTHORIZED",
				})
			}
			mc, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "error": "unauthorized", "error_code": "UNAUTHORIZED",
				})
			}
			sub, ok := mc["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "error": "unauthorized", "error_code": "UNAUTHORIZED",
				})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := mc["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	}
}
