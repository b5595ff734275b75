package api

import (
	"net/http"

	"yukid/internal/api/middleware"
	"yukid/internal/service"

	"github.com/charmbracelet/log"
)

type Server struct {
	services *service.Services
	log      *log.Logger
}

func NewServer(services *service.Services, logger *log.Logger) *Server {
	return &Server{
		services: services,
		log:      logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	stack := middleware.CreateStack(
		middleware.CORS(),
		middleware.Logging(s.log),
	)

	return stack(mux)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("POST /api/conversation/clear", s.handleClearConversation)

	mux.HandleFunc("GET /api/provider", s.handleGetProvider)
	mux.HandleFunc("PUT /api/provider", s.handleSetProvider)
	mux.HandleFunc("POST /api/provider/test", s.handleTestProvider)
	mux.HandleFunc("POST /api/provider/models", s.handleListModels)

	mux.HandleFunc("GET /api/ledger", s.handleListLedger)
	mux.HandleFunc("DELETE /api/ledger/{id}", s.handleDeleteLedger)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)

	mux.HandleFunc("POST /api/statements/parse", s.handleParseStatement)
	mux.HandleFunc("POST /api/receipts/parse", s.handleParseReceipt)
	mux.HandleFunc("POST /api/receipts/parse-text", s.handleParseReceiptText)
	mux.HandleFunc("POST /api/receipts/save", s.handleSaveReceipt)
	mux.HandleFunc("POST /api/documents/parse-text", s.handleParseDocumentText)
	mux.HandleFunc("POST /api/expenses/detect", s.handleDetectExpense)
}
