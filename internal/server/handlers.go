package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
)

// userScope extracts the requesting user from the X-User-ID header. An empty
// value means the system-wide scope; authentication proper sits in front of
// this service.
func userScope(c *fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleSuggestions runs the suggestion pipeline for one transaction
// description and returns the ranked suggestions.
func (s *Server) handleSuggestions(c *fiber.Ctx) error {
	var req suggestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	suggestions, err := s.orchestrator.Suggest(c.Context(), req.Description, req.Explanation, userScope(c))
	if err != nil {
		return s.mapPipelineError(c, err)
	}

	return c.JSON(toSuggestionResponses(suggestions))
}

// handleExplanations returns past transactions with similar descriptions so
// the user can reuse an explanation.
func (s *Server) handleExplanations(c *fiber.Ctx) error {
	var req suggestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	candidates, err := s.orchestrator.SimilarExplanations(c.Context(), req.Description, userScope(c))
	if err != nil {
		return s.mapPipelineError(c, err)
	}

	return c.JSON(toExplanationResponses(candidates))
}

// handleSaveExplanation records a user-confirmed explanation and account on a
// transaction. When the body names the rule whose suggestion the user
// accepted, its use count is bumped; a failed bump is logged but never fails
// the save.
func (s *Server) handleSaveExplanation(c *fiber.Ctx) error {
	var req explanationSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	transactionID := c.Params("id")
	if err := s.store.SaveExplanation(c.Context(), transactionID, req.Explanation, req.AccountID); err != nil {
		return s.mapPipelineError(c, err)
	}

	if req.RuleID > 0 {
		if err := s.store.IncrementRuleUseCount(c.Context(), req.RuleID); err != nil {
			s.logger.Warn("failed to bump rule use count",
				"rule_id", req.RuleID,
				"transaction_id", transactionID,
				"error", err)
		}
	}

	return c.JSON(fiber.Map{"status": "saved"})
}

// handleListAccounts returns the chart of accounts visible to the user.
func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	accounts, err := s.store.GetAccounts(c.Context(), userScope(c))
	if err != nil {
		return s.mapPipelineError(c, err)
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, accountResponse{
			ID:          account.ID,
			Code:        account.Code,
			Name:        account.Name,
			Category:    account.Category,
			SubCategory: account.SubCategory,
		})
	}
	return c.JSON(out)
}

// mapPipelineError turns pipeline errors into HTTP responses. Invalid input
// surfaces as a 400 with its message; anything else is a data-access failure,
// logged in full and returned as a generic 500.
func (s *Server) mapPipelineError(c *fiber.Ctx, err error) error {
	if errors.Is(err, common.ErrInvalidInput) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, common.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	s.logger.Error("request failed",
		"path", c.Path(),
		"error", err)
	return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
}
