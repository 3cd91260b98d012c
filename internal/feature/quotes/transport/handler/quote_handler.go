// Package handler provides the HTTP handlers of the quotes feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/transport/http/dto"
	"stock_etl/internal/feature/quotes/usecase"
)

// QuotesUsecase is defined on the consumer side.
type QuotesUsecase interface {
	GetLatest(ctx context.Context, symbol string) ([]entity.Quote, error)
}

// QuotesHandler serves stored quotes.
type QuotesHandler struct {
	uc QuotesUsecase
}

// NewQuotesHandler creates a QuotesHandler.
func NewQuotesHandler(uc QuotesUsecase) *QuotesHandler {
	return &QuotesHandler{uc: uc}
}

// GetQuotesHandler returns the newest rows for a symbol, newest first.
//
// Example:
// GET /quote?symbol=BHP
func (h *QuotesHandler) GetQuotesHandler(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", usecase.DefaultSymbol)

	quotes, err := h.uc.GetLatest(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: usecase.ErrQuoteNotFound.Error()})
			return
		}
		slog.Error("failed to load quotes", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.FromEntity(q))
	}
	c.JSON(http.StatusOK, out)
}
