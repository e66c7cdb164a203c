package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"markethub/internal/core/domain"
	"markethub/internal/core/services"
	"markethub/internal/pkg/pagination"
	"markethub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// SetCreditsRequest represents a credit adjustment. Credits stays raw
// because the panel sends a number and older clients send a string.
type SetCreditsRequest struct {
	Credits json.RawMessage `json:"credits"`
}

// parseCredits accepts a JSON number or numeric string; anything else
// defaults to 0, matching the panel's number-input behavior.
func parseCredits(raw json.RawMessage) int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	credits, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return credits
}

// WithdrawRequest represents an admin withdrawal
type WithdrawRequest struct {
	Amount int64 `json:"amount"`
}

// ListUsers returns every account for the admin panel
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users := h.adminService.ListUsers()
	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users": users,
	})
}

// SetCredits overwrites a user's balance
func (h *AdminHandler) SetCredits(c *fiber.Ctx) error {
	identity := c.Params("identity")

	var req SetCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	credits := parseCredits(req.Credits)

	if err := h.adminService.SetCredits(c.Context(), identity, credits); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to set credits")
	}

	return response.Success(c, "Credits updated successfully", nil)
}

// DeleteUser removes a user. The confirm-then-confirm gesture lives in
// the presentation layer; the API call is already the confirmation.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	identity := c.Params("identity")

	if err := h.adminService.DeleteUser(c.Context(), identity); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// Withdraw debits the admin balance
func (h *AdminHandler) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.adminService.Withdraw(c.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return response.BadRequest(c, "Invalid withdraw amount")
		}
		return response.InternalServerError(c, "Failed to withdraw")
	}

	return response.Success(c, "Withdrawal completed", fiber.Map{
		"log_entry": entry,
		"balance":   h.adminService.Balance(),
	})
}

// Balance returns the accumulated admin fee balance
func (h *AdminHandler) Balance(c *fiber.Ctx) error {
	return response.Success(c, "Balance retrieved successfully", fiber.Map{
		"balance": h.adminService.Balance(),
	})
}

// Logs returns the transaction log newest-first, paginated
func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	logs := h.adminService.Logs()
	start, end := params.Bounds(len(logs))

	return response.Success(c, "Transaction logs retrieved successfully", fiber.Map{
		"logs":       logs[start:end],
		"pagination": pagination.NewMeta(params, len(logs)),
	})
}
