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

// recurringHandler handles HTTP requests related to recurring rules.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

// registerRecurringRoutes registers routes related to recurring rules.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	rules := rg.Group("/recurring-rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.GET("/:id", h.getRule)
		rules.PUT("/:id", h.updateRule)
		rules.DELETE("/:id", h.deactivateRule)
	}
}

// createRule godoc
// @Summary Create a recurring rule
// @Description Schedules an INCOME or EXPENSE posting to repeat at a fixed frequency
// @Tags recurring-rules
// @Accept json
// @Produce json
// @Param rule body dto.CreateRecurringRuleRequest true "Rule details"
// @Success 201 {object} dto.RecurringRuleResponse
// @Failure 400 {object} map[string]string "Invalid rule"
// @Security BearerAuth
// @Router /recurring-rules [post]
func (h *recurringHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.recurringService.CreateRule(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create recurring rule")
		return
	}

	logger.Info("Recurring rule created", slog.String("rule_id", rule.RuleID))
	c.JSON(http.StatusCreated, dto.ToRecurringRuleResponse(rule))
}

// listRules godoc
// @Summary List recurring rules
// @Tags recurring-rules
// @Produce json
// @Param active query bool false "Only active rules"
// @Success 200 {array} dto.RecurringRuleResponse
// @Security BearerAuth
// @Router /recurring-rules [get]
func (h *recurringHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var (
		rules []domain.RecurringRule
		err   error
	)
	if c.Query("active") == "true" {
		rules, err = h.recurringService.ListActiveRulesByUser(c.Request.Context(), userID)
	} else {
		rules, err = h.recurringService.ListRulesByUser(c.Request.Context(), userID)
	}
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list recurring rules")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringRuleResponses(rules))
}

// getRule godoc
// @Summary Get a recurring rule by ID
// @Tags recurring-rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} dto.RecurringRuleResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-rules/{id} [get]
func (h *recurringHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.recurringService.GetRuleByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get recurring rule")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringRuleResponse(rule))
}

// updateRule godoc
// @Summary Update a recurring rule
// @Description Edits the rule's future behavior; past postings are untouched
// @Tags recurring-rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body dto.UpdateRecurringRuleRequest true "Fields to update"
// @Success 200 {object} dto.RecurringRuleResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-rules/{id} [put]
func (h *recurringHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.recurringService.UpdateRule(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update recurring rule")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringRuleResponse(rule))
}

// deactivateRule godoc
// @Summary Deactivate a recurring rule
// @Tags recurring-rules
// @Param id path string true "Rule ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /recurring-rules/{id} [delete]
func (h *recurringHandler) deactivateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.DeactivateRule(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate recurring rule")
		return
	}

	c.Status(http.StatusNoContent)
}
