package handler

import (
	"digibank/internal/infrastructure/bankdirectory"
	"digibank/internal/service"
	"digibank/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler bundles the service dependencies behind the HTTP surface.
type Handler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	ledgerService  *service.LedgerService
	bankDirectory  *bankdirectory.Client
}

func NewHandler(
	authService *service.AuthService,
	accountService *service.AccountService,
	ledgerService *service.LedgerService,
	bankDir *bankdirectory.Client,
) *Handler {
	return &Handler{
		authService:    authService,
		accountService: accountService,
		ledgerService:  ledgerService,
		bankDirectory:  bankDir,
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// ============================================================
// Auth
// ============================================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	TaxID    string `json:"tax_id" binding:"required"`
	Role     string `json:"role"`
}

// Register creates a user.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		TaxID:    req.TaxID,
		Role:     req.Role,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login issues an access token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"access_token": token})
}

// ============================================================
// Accounts
// ============================================================

// CreateAccount opens the caller's account.
// POST /api/v1/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	account, err := h.accountService.CreateAccount(c.Request.Context(), callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, account)
}

// GetMyAccount returns the caller's account.
// GET /api/v1/accounts/me
func (h *Handler) GetMyAccount(c *gin.Context) {
	account, err := h.accountService.GetForUser(c.Request.Context(), callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, account)
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAccountStatus toggles ACTIVE/INACTIVE. Admin only.
// PATCH /api/v1/accounts/:id/status
func (h *Handler) UpdateAccountStatus(c *gin.Context) {
	var req UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	account, err := h.accountService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, account)
}

// ============================================================
// Ledger operations
// ============================================================

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Deposit credits the account.
// POST /api/v1/accounts/:id/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.ledgerService.Deposit(c.Request.Context(), c.Param("id"), req.Amount, callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, record)
}

// Withdraw debits the account.
// POST /api/v1/accounts/:id/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.ledgerService.Withdraw(c.Request.Context(), c.Param("id"), req.Amount, callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, record)
}

type TransferInternalRequest struct {
	OriginID      string          `json:"origin_id" binding:"required"`
	DestinationID string          `json:"destination_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// TransferInternal moves funds between two accounts of this ledger.
// POST /api/v1/transactions/transfer/internal
func (h *Handler) TransferInternal(c *gin.Context) {
	var req TransferInternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.ledgerService.TransferInternal(c.Request.Context(), req.OriginID, req.DestinationID, req.Amount, callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, record)
}

type TransferExternalRequest struct {
	OriginID       string          `json:"origin_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	BankCode       string          `json:"bank_code" binding:"required"`
	Branch         string          `json:"branch" binding:"required"`
	AccountNumber  string          `json:"account_number" binding:"required"`
	RecipientTaxID string          `json:"recipient_tax_id" binding:"required"`
}

// TransferExternal sends funds to an account at another institution.
// POST /api/v1/transactions/transfer/external
func (h *Handler) TransferExternal(c *gin.Context) {
	var req TransferExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.ledgerService.TransferExternal(c.Request.Context(), req.OriginID, req.Amount, service.ExternalTransferInput{
		BankCode:       req.BankCode,
		Branch:         req.Branch,
		AccountNumber:  req.AccountNumber,
		RecipientTaxID: req.RecipientTaxID,
	}, callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, record)
}

// GetHistory lists the account's ledger records, newest first.
// GET /api/v1/accounts/:id/transactions
func (h *Handler) GetHistory(c *gin.Context) {
	records, err := h.ledgerService.GetHistory(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, records)
}

// ============================================================
// Bank directory
// ============================================================

// ListBanks proxies the full bank directory.
// GET /api/v1/banks
func (h *Handler) ListBanks(c *gin.Context) {
	banks, err := h.bankDirectory.ListBanks(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, banks)
}
