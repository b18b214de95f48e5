package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

const loginFailedMessage = "Invalid email or password. Please try again."

type AuthHandler struct {
	auth ports.Authenticator
	log  zerolog.Logger
}

func NewAuthHandler(auth ports.Authenticator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RememberMe bool   `json:"remember_me"`
}

type signupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,password_policy"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	UserType        string `json:"user_type" validate:"required,oneof=builder subcontractor"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginResponse struct {
	User     *domain.User `json:"user"`
	Token    string       `json:"token"`
	Redirect string       `json:"redirect"`
}

type sessionResponse struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// Login authenticates a user and starts a session for the calling browser.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      429   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	ctx := c.Request().Context()
	user, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBackendUnavailable):
			metrics.AuthLoginsTotal.WithLabelValues("unavailable").Inc()
			return c.JSON(http.StatusBadGateway, map[string]string{"error": domain.NetworkErrorMessage})
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrBackendRejected):
			metrics.AuthLoginsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.BackendMessage(err, loginFailedMessage)})
		}
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	token, err := middleware.MustAuth(c).Login(ctx, user, req.RememberMe)
	if err != nil {
		return err
	}
	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		User:     user,
		Token:    token,
		Redirect: domain.Landing(user.Role),
	})
}

// Signup creates an account on the backend. It does not sign the user in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      502   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.UserType)
	if err != nil {
		if errors.Is(err, domain.ErrBackendRejected) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.BackendMessage(err, "Signup failed")})
		}
		return err
	}
	if msg == "" {
		msg = "Account created successfully. Please log in."
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: msg, Redirect: domain.PathLogin})
}

// ForgotPassword accepts a reset request. No reset endpoint exists on the
// backend yet, so the request is only logged.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      422   {object}  map[string]any
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	h.log.Info().Str("client", middleware.ScopeFrom(c).Client).Msg("password reset requested")

	return c.JSON(http.StatusAccepted, messageResponse{
		Message: "If an account exists for that email, a password reset link has been sent.",
	})
}

// Logout ends the session of the calling browser.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	next := middleware.MustAuth(c).Logout(c.Request().Context())
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out", Redirect: next})
}

// Session reports who is signed in.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	st := middleware.MustAuth(c).State()
	return c.JSON(http.StatusOK, sessionResponse{User: st.User, IsAuthenticated: st.IsAuthenticated()})
}
