package handlers

import (
	"errors"
	"strconv"
	"strings"

	"markethub/internal/adapters/http/middleware"
	"markethub/internal/core/domain"
	"markethub/internal/core/services"
	"markethub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MarketHandler handles storefront and settlement endpoints
type MarketHandler struct {
	marketService *services.MarketService
	ledgerService *services.LedgerService
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService *services.MarketService, ledgerService *services.LedgerService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		ledgerService: ledgerService,
	}
}

// AddProductRequest represents a new product
type AddProductRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// RequestPaymentRequest represents a vendor's payment request
type RequestPaymentRequest struct {
	Customer string `json:"customer"`
	Amount   int64  `json:"amount"`
}

// SettleRequest represents the payer's accept/decline decision
type SettleRequest struct {
	Accept bool `json:"accept"`
}

// ListVendors returns every vendor storefront
func (h *MarketHandler) ListVendors(c *fiber.Ctx) error {
	vendors := h.marketService.ListVendors()
	return response.Success(c, "Vendors retrieved successfully", fiber.Map{
		"vendors": vendors,
	})
}

// AddProduct adds a product to the calling vendor's catalogue
func (h *MarketHandler) AddProduct(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AddProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.marketService.AddProduct(c.Context(), p.Identity, strings.TrimSpace(req.Name), req.Price)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Product name is required")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Price must not be negative")
		case errors.Is(err, domain.ErrDuplicateProduct):
			return response.Conflict(c, "Product already exists")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to add product")
		}
	}

	return response.Created(c, "Product added successfully", nil)
}

// RemoveProduct removes a product from the calling vendor's catalogue
func (h *MarketHandler) RemoveProduct(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	name := c.Params("name")
	if name == "" {
		return response.BadRequest(c, "Product name is required")
	}

	err := h.marketService.RemoveProduct(c.Context(), p.Identity, name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Vendor not found")
		default:
			return response.InternalServerError(c, "Failed to remove product")
		}
	}

	return response.Success(c, "Product removed successfully", nil)
}

// RequestPayment creates a pending transaction on the customer's record
func (h *MarketHandler) RequestPayment(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RequestPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Customer) == "" {
		return response.BadRequest(c, "Customer is required")
	}

	tx, err := h.ledgerService.RequestPayment(c.Context(), p.Identity, strings.TrimSpace(req.Customer), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be a positive number")
		case errors.Is(err, domain.ErrUnknownOrWrongType):
			return response.UnprocessableEntity(c, "Recipient is not a customer")
		default:
			return response.InternalServerError(c, "Failed to request payment")
		}
	}

	return response.Created(c, "Payment requested", fiber.Map{
		"transaction": tx,
	})
}

// PendingPayments returns the calling customer's pending requests
func (h *MarketHandler) PendingPayments(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	pending, err := h.marketService.PendingPayments(p.Identity)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Pending payments retrieved successfully", fiber.Map{
		"pending_transactions": pending,
	})
}

// Settle resolves one of the calling customer's pending requests
func (h *MarketHandler) Settle(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	txID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction id")
	}

	var req SettleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.ledgerService.Settle(c.Context(), p.Identity, txID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, domain.ErrInsufficientFunds):
			return response.UnprocessableEntity(c, "Insufficient funds")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Payee no longer exists, request dropped")
		default:
			return response.InternalServerError(c, "Failed to settle transaction")
		}
	}

	return response.Success(c, "Transaction settled", fiber.Map{
		"log_entry": entry,
	})
}
