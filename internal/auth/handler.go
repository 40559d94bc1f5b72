package auth

import (
	"net/http"
	"time"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
	"github.com/redmonkez12/go-todo-api/internal/httputil"
	"github.com/redmonkez12/go-todo-api/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CredentialsRequest is the body of register and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GenerateRequest is the body of the token generation endpoint.
type GenerateRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterResponse carries the new user's id.
type RegisterResponse struct {
	ID int64 `json:"id"`
}

// SignInResponse carries the access token after a successful sign-in.
type SignInResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// TokenResponse carries a freshly generated token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse describes the bearer of a verified token.
type MeResponse struct {
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account from an email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Registration credentials"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.MessageResponse "Missing fields or invalid email"
// @Failure      409 {object} httputil.MessageResponse "User already exists"
// @Failure      500 {object} httputil.MessageResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondMessageError(logger, w, err, "registration failed", "Internal server error")
		return
	}

	httputil.RespondJSON(w, RegisterResponse{ID: newUser.ID}, http.StatusCreated)
}

// SignIn handles user sign-in
// @Summary      Sign in
// @Description  Check credentials and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Sign-in credentials"
// @Success      200 {object} SignInResponse
// @Failure      400 {object} httputil.MessageResponse "Password is required"
// @Failure      401 {object} httputil.MessageResponse "Invalid credentials"
// @Failure      404 {object} httputil.MessageResponse "User not found"
// @Failure      500 {object} httputil.MessageResponse "Internal server error"
// @Router       /auth/signin [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid sign-in request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondMessageError(logger, w, err, "sign-in failed", "Internal server error")
		return
	}

	logger.Info("user signed in")
	httputil.RespondJSON(w, SignInResponse{Message: "User signed in successfully", Token: token}, http.StatusOK)
}

// Generate issues a token for an email and display name
// @Summary      Generate a token
// @Description  Issue an access token carrying the given email and name
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body GenerateRequest true "Token subject"
// @Success      201 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Email and name are required"
// @Failure      500 {object} httputil.ErrorResponse "Error generating token"
// @Router       /auth/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid generate request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	token, err := h.service.GenerateToken(r.Context(), req.Email, req.Name)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == apperror.KindInternal {
			logger.Error("token generation failed", "error", err.Error())
		}
		httputil.RespondErrorWithCode(w,
			apperror.MessageOf(err, "Error generating token"),
			httputil.CodeFor(kind),
			apperror.HTTPStatus(kind),
		)
		return
	}

	httputil.RespondJSON(w, TokenResponse{Token: token}, http.StatusCreated)
}

// Me describes the caller's token
// @Summary      Current token
// @Description  Return the identity carried by the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MeResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, MeResponse{
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt,
	}, http.StatusOK)
}

// respondMessageError writes err as {"message", "code"}. Internal failures
// are logged and replaced by fallback.
func respondMessageError(logger *logging.Logger, w http.ResponseWriter, err error, action, fallback string) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logger.Error(action+": internal error", "error", err.Error())
	} else {
		logger.Warn(action, "reason", kind.String())
	}
	httputil.RespondMessage(w, apperror.MessageOf(err, fallback), httputil.CodeFor(kind), apperror.HTTPStatus(kind))
}
