package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_etl/internal/feature/symbollist/domain/entity"
	"stock_etl/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase is defined on the consumer (handler) side.
type SymbolUsecase interface {
	ListSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler serves the list of stored symbols.
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler creates a SymbolHandler.
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List handles GET /symbols.
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListSymbols(c.Request.Context())
	if err != nil {
		slog.Error("failed to list symbols", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{Code: s.Code, Records: s.Records})
	}
	c.JSON(http.StatusOK, out)
}
