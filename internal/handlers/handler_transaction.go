package handlers

import (
	"net/http"
	"strconv"

	"log/slog"

	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to postings.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listByDateRange)
		transactions.GET("/recent", h.listRecent)
		transactions.GET("/expenses/:categoryID", h.sumExpensesByCategory)
		transactions.GET("/:id", h.getTransaction)
	}
}

// createTransaction godoc
// @Summary Post a transaction
// @Description Validates and posts an INCOME, EXPENSE or TRANSFER draft
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Posting draft"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid draft"
// @Failure 409 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listByDateRange godoc
// @Summary List transactions in a date range
// @Tags transactions
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listByDateRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listByDateRange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.transactionService.ListTransactionsByDateRange(c.Request.Context(), userID, params.StartDate, params.EndDate)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// listRecent godoc
// @Summary List recent transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum rows" default(10)
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *transactionHandler) listRecent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	txns, err := h.transactionService.GetRecentTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list recent transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// sumExpensesByCategory godoc
// @Summary Total expenses for a category
// @Tags transactions
// @Produce json
// @Param categoryID path string true "Category ID"
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CategoryExpenseResponse
// @Security BearerAuth
// @Router /transactions/expenses/{categoryID} [get]
func (h *transactionHandler) sumExpensesByCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for sumExpensesByCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	categoryID := c.Param("categoryID")
	total, err := h.transactionService.SumExpensesByCategory(c.Request.Context(), userID, categoryID, params.StartDate, params.EndDate)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to sum expenses")
		return
	}

	c.JSON(http.StatusOK, dto.CategoryExpenseResponse{
		CategoryID: categoryID,
		Total:      total,
	})
}
