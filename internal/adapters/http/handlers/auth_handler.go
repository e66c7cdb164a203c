package handlers

import (
	"errors"
	"strings"
	"time"

	"markethub/internal/adapters/http/middleware"
	"markethub/internal/config"
	"markethub/internal/core/domain"
	"markethub/internal/core/services"
	"markethub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// AdminStep1Request carries the admin password for step 1
type AdminStep1Request struct {
	Password string `json:"password"`
}

// AdminStep2Request carries the challenge token and admin id for step 2
type AdminStep2Request struct {
	ChallengeToken string `json:"challenge_token"`
	AdminID        string `json:"admin_id"`
}

// Register handles user registration. Registration does not log in;
// the client follows up with a login call.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Identity) == "" {
		return response.BadRequest(c, "Identity is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleCustomer
	}

	input := &services.RegisterInput{
		Identity: strings.TrimSpace(req.Identity),
		Password: req.Password,
		Role:     role,
		Email:    strings.TrimSpace(req.Email),
		Location: strings.TrimSpace(req.Location),
	}

	if err := h.authService.Register(c.Context(), input); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentity):
			return response.Conflict(c, "Identity already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid identity, password or role")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "Registration successful! Please login.", fiber.Map{
		"identity": input.Identity,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Identity == "" {
		return response.BadRequest(c, "Identity is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.Login(c.Context(), strings.TrimSpace(req.Identity), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLocked):
			return response.Locked(c, "Account is locked for 10 minutes due to too many failed attempts")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"principal":    result.Principal,
		"user":         result.User,
	})
}

// AdminStep1 handles the first step of the admin challenge
func (h *AuthHandler) AdminStep1(c *fiber.Ctx) error {
	var req AdminStep1Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Admin password is required")
	}

	challenge, err := h.authService.AdminLoginStep1(c.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLocked):
			return response.Locked(c, "Admin account is locked for 10 minutes due to too many failed attempts")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid admin credentials")
		default:
			return response.InternalServerError(c, "Failed to start admin login")
		}
	}

	return response.Success(c, "Proceed to step 2", fiber.Map{
		"challenge_token": challenge,
	})
}

// AdminStep2 completes the admin challenge
func (h *AuthHandler) AdminStep2(c *fiber.Ctx) error {
	var req AdminStep2Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ChallengeToken == "" || req.AdminID == "" {
		return response.BadRequest(c, "Challenge token and admin id are required")
	}

	result, err := h.authService.AdminLoginStep2(c.Context(), req.ChallengeToken, req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLocked):
			return response.Locked(c, "Admin account is locked for 10 minutes due to too many failed attempts")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid admin credentials")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Challenge expired, restart admin login")
		default:
			return response.InternalServerError(c, "Failed to complete admin login")
		}
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Admin login successful", fiber.Map{
		"access_token": result.AccessToken,
		"principal":    result.Principal,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context()); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	h.clearAuthCookie(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current principal and, for accounts, the user record
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if p.IsAdmin() {
		return response.Success(c, "Principal retrieved successfully", fiber.Map{
			"principal": p,
		})
	}

	user, err := h.authService.CurrentUser(p)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"principal": p,
		"user":      user,
	})
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60, // Convert minutes to seconds
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookie clears the access token cookie
func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
