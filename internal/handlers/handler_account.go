package handlers

import (
	"net/http"

	"log/slog"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService     portssvc.AccountSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, ts portssvc.TransactionSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:     as,
		transactionService: ts,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, transactionService portssvc.TransactionSvcFacade) {
	h := newAccountHandler(accountService, transactionService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/summary", h.balanceSummary)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.PUT("/:id/balance", h.updateBalance)
		accounts.DELETE("/:id", h.deactivateAccount)
		accounts.GET("/:id/transactions", h.listAccountTransactions)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account for the logged-in user
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account number already taken"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the user's accounts, optionally filtered by type or active status
// @Tags accounts
// @Produce json
// @Param type query string false "Account type filter"
// @Param active query bool false "Only active accounts"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var (
		accounts []domain.Account
		err      error
	)
	switch {
	case c.Query("type") != "":
		accounts, err = h.accountService.ListAccountsByType(c.Request.Context(), userID, domain.AccountType(c.Query("type")))
	case c.Query("active") == "true":
		accounts, err = h.accountService.ListActiveAccountsByUser(c.Request.Context(), userID)
	default:
		accounts, err = h.accountService.ListAccountsByUser(c.Request.Context(), userID)
	}
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// balanceSummary godoc
// @Summary Balance summary
// @Description Totals active-account balances per currency; currencies are never merged
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.BalanceSummaryResponse
// @Security BearerAuth
// @Router /accounts/summary [get]
func (h *accountHandler) balanceSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balances, err := h.accountService.GetBalanceSummary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build balance summary")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceSummaryResponse{Balances: balances})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateBalance godoc
// @Summary Correct an account balance
// @Description Overwrites the balance directly; regular money movement should use postings
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param balance body dto.UpdateBalanceRequest true "New balance"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Negative balance on non-credit account"
// @Security BearerAuth
// @Router /accounts/{id}/balance [put]
func (h *accountHandler) updateBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateBalance(c.Request.Context(), userID, c.Param("id"), req.Balance)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks a zero-balance account inactive; its history stays queryable
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204 "No content"
// @Failure 409 {object} map[string]string "Balance is not zero"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}

// listAccountTransactions godoc
// @Summary List an account's transactions
// @Description Pages through the account's transactions, newest first
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /accounts/{id}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listAccountTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.transactionService.ListTransactionsByAccount(c.Request.Context(), userID, c.Param("id"), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}
