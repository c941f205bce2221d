package authctrl

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alfifrr/werent-backend-sub000/app/echoServer/response"
	"github.com/alfifrr/werent-backend-sub000/app/echoServer/validation"
	"github.com/alfifrr/werent-backend-sub000/model"
	authsvc "github.com/alfifrr/werent-backend-sub000/service/auth"
)

type Controller struct {
	svc authsvc.Service
}

func New(svc authsvc.Service) *Controller { return &Controller{svc: svc} }

type resendReq struct {
	Email string `json:"email" validate:"required,email"`
}

// Register godoc
//
//	@Summary	Create an account and send a verification mail
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Router		/auth/register [post]
func (h *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	u, token, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return authError(c, err)
	}
	return response.Success(c, http.StatusCreated, "registered", echo.Map{
		"user":  u,
		"token": token,
	})
}

// Login godoc
//
//	@Summary	Exchange credentials for a JWT
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Router		/auth/login [post]
func (h *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	u, token, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return authError(c, err)
	}
	return response.Success(c, http.StatusOK, "logged in", echo.Map{
		"user":  u,
		"token": token,
	})
}

// Verify consumes the emailed token. It is a GET so the mail link works
// without a client.
func (h *Controller) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "token is required")
	}
	if err := h.svc.Verify(c.Request().Context(), token); err != nil {
		return authError(c, err)
	}
	return response.Success(c, http.StatusOK, "email verified", nil)
}

func (h *Controller) Resend(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Validation(c, validation.Fields(err))
	}
	if err := h.svc.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return authError(c, err)
	}
	return response.Success(c, http.StatusOK, "verification mail sent", nil)
}

func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, authsvc.ErrEmailTaken):
		return response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, authsvc.ErrBadInput):
		return response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, authsvc.ErrInvalidCreds):
		return response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, authsvc.ErrTokenInvalid):
		return response.Error(c, http.StatusBadRequest, "TOKEN_INVALID", err.Error())
	case errors.Is(err, authsvc.ErrAlreadyVerified):
		return response.Error(c, http.StatusConflict, "ALREADY_VERIFIED", err.Error())
	case errors.Is(err, authsvc.ErrUserNotFound):
		return response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	default:
		return response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
