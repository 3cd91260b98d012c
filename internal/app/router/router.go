package router

import (
	"github.com/gin-gonic/gin"

	quoteshandler "stock_etl/internal/feature/quotes/transport/handler"
	symbollisthandler "stock_etl/internal/feature/symbollist/transport/handler"
	"stock_etl/internal/platform/http/handler"
)

// NewRouter wires the read API. None of the routes require authentication.
func NewRouter(quotes *quoteshandler.QuotesHandler, symbols *symbollisthandler.SymbolHandler,
	pingers map[string]handler.Pinger) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	// 依存先（DB・Redis）の疎通確認
	r.GET("/readyz", handler.Ready(pingers))

	// 株価参照（認証不要）
	r.GET("/quote", quotes.GetQuotesHandler)
	r.GET("/symbols", symbols.List)

	return r
}
