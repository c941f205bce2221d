// Package main WeRent API.
//
// @title           WeRent API
// @version         1.0
// @description     Outfit rental marketplace: items, availability, bookings, payments.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer"
	authctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/auth"
	bookingctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/booking"
	itemctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/item"
	paymentctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/payment"
	reviewctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/review"
	statsctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/stats"
	ticketctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/ticket"
	userctrl "github.com/alfifrr/werent-backend-sub000/app/echoServer/controller/user"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/config"
	bookingrepo "github.com/alfifrr/werent-backend-sub000/repository/booking"
	itemrepo "github.com/alfifrr/werent-backend-sub000/repository/item"
	"github.com/alfifrr/werent-backend-sub000/repository/mailer"
	paymentrepo "github.com/alfifrr/werent-backend-sub000/repository/payment"
	reviewrepo "github.com/alfifrr/werent-backend-sub000/repository/review"
	statsrepo "github.com/alfifrr/werent-backend-sub000/repository/stats"
	ticketrepo "github.com/alfifrr/werent-backend-sub000/repository/ticket"
	userrepo "github.com/alfifrr/werent-backend-sub000/repository/user"
	verifyrepo "github.com/alfifrr/werent-backend-sub000/repository/verify"
	authsvc "github.com/alfifrr/werent-backend-sub000/service/auth"
	bookingsvc "github.com/alfifrr/werent-backend-sub000/service/booking"
	itemsvc "github.com/alfifrr/werent-backend-sub000/service/item"
	paymentsvc "github.com/alfifrr/werent-backend-sub000/service/payment"
	reviewsvc "github.com/alfifrr/werent-backend-sub000/service/review"
	statssvc "github.com/alfifrr/werent-backend-sub000/service/stats"
	ticketsvc "github.com/alfifrr/werent-backend-sub000/service/ticket"
	usersvc "github.com/alfifrr/werent-backend-sub000/service/user"
	"github.com/alfifrr/werent-backend-sub000/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer rdb.Close()

	// repos
	ur := userrepo.New(db)
	ir := itemrepo.New(db)
	br := bookingrepo.New(db)
	pr := paymentrepo.New(db)
	rr := reviewrepo.New(db)
	tr := ticketrepo.New(db)
	sr := statsrepo.New(db)
	tokens := verifyrepo.New(rdb, 24*time.Hour)

	var mail mailer.Mailer
	if cfg.MailAPIURL != "" {
		mail = mailer.NewHTTP(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	} else {
		// No mail provider configured; log the verification links instead.
		mail = mailer.NewLog(log)
	}

	// services
	as := authsvc.New(ur, tokens, mail, cfg.JWTSecret, cfg.BaseURL)
	us := usersvc.New(ur)
	is := itemsvc.New(ir, ur)
	bs := bookingsvc.New(db, br, ir, ur)
	cleaner := bookingsvc.NewCleaner(br)
	ps := paymentsvc.New(db, pr, br, ur)
	rs := reviewsvc.New(rr, ir, ur)
	ts := ticketsvc.New(tr, ur)
	ss := statssvc.New(sr, ur)

	// controllers
	authC := authctrl.New(as)
	userC := userctrl.New(us)
	itemC := itemctrl.New(is)
	bookingC := bookingctrl.New(bs, cleaner)
	paymentC := paymentctrl.New(ps)
	reviewC := reviewctrl.New(rs)
	ticketC := ticketctrl.New(ts)
	statsC := statsctrl.New(ss)

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]any{
				"status":  "degraded",
				"message": "database unreachable",
			})
		}
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		User:    userC,
		Booking: bookingC,
		Item:    itemC,
		Payment: paymentC,
		Review:  reviewC,
		Ticket:  ticketC,
		Stats:   statsC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
