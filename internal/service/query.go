package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type QueryService interface {
	// Process answers a natural-language question against the ledger. The
	// caller supplies the conversation session the turn belongs to.
	Process(ctx context.Context, sessionID, question string) (types.ResponseData, error)
}

type querySvc struct {
	store     *db.DB
	log       *log.Logger
	convos    ConversationService
	newClient clientFactory
}

func newQuerySvc(store *db.DB, logger *log.Logger, convos ConversationService, factory clientFactory) QueryService {
	return &querySvc{store: store, log: logger, convos: convos, newClient: factory}
}

// ----- methods -----------------------------------------------------------------------------

// noDataBody is returned when a query legitimately matches nothing. It skips
// the formatting model call entirely.
const noDataBody = "I don't have any data matching that query yet. Try uploading some financial documents or receipts first, and then I can help you analyze your spending!"

func (s *querySvc) Process(ctx context.Context, sessionID, question string) (types.ResponseData, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return types.ResponseData{}, wrapErr("QueryService.Process", err)
	}

	history, err := s.convos.RecentHistory(ctx, sessionID)
	if err != nil {
		s.log.Warn("failed to load conversation history", "err", err)
		history = nil
	}
	preamble := ai.BuildContext(history)

	// The user turn is recorded before the model runs so failed turns still
	// show up in history.
	s.convos.RecordTurn(ctx, sessionID, "user", question)

	s.log.Info("analyzing question", "model", client.Name())
	raw, err := client.Complete(ctx, preamble+question, ai.AnalyzeSystemPrompt)
	if err != nil {
		return types.ResponseData{}, wrapErr("QueryService.Process", err)
	}
	analysis := ai.DecodeAnalysis(raw)
	s.log.Info("analysis verdict",
		"needs_data", analysis.NeedsData, "type", analysis.QueryType, "sql", analysis.SQLQuery)

	var response types.ResponseData
	if analysis.NeedsData {
		response, err = s.answerDataQuery(ctx, client, preamble, question, analysis.SQLQuery)
	} else {
		response, err = s.answerConversational(ctx, client, preamble, question)
	}
	if err != nil {
		return types.ResponseData{}, wrapErr("QueryService.Process", err)
	}

	if len(response.Cards) > 0 {
		s.convos.RecordTurn(ctx, sessionID, "assistant", response.Cards[0].Summary())
	}
	if err := s.store.InsertChatTurn(ctx, question, analysis.SQLQuery, firstCardBody(response), len(response.Cards)); err != nil {
		s.log.Warn("failed to archive chat turn", "err", err)
	}

	return response, nil
}

func (s *querySvc) answerDataQuery(ctx context.Context, client ai.Client, preamble, question, sqlQuery string) (types.ResponseData, error) {
	result, err := s.runSelect(ctx, sqlQuery)
	if err != nil {
		s.log.Error("data query failed", "sql", sqlQuery, "err", err)
		body := fmt.Sprintf("I couldn't retrieve that data. Error: %v in %s", err, sqlQuery)
		return types.ResponseData{Cards: []types.ResponseCard{types.NewTextCard(body, true)}}, nil
	}

	if result.RowCount == 0 {
		s.log.Info("query matched no rows, skipping formatting")
		return types.ResponseData{Cards: []types.ResponseCard{types.NewTextCard(noDataBody, false)}}, nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return types.ResponseData{}, fmt.Errorf("encode query result: %w", err)
	}

	s.log.Info("formatting query result", "rows", result.RowCount)
	prompt := fmt.Sprintf("%sUser question: %s\n\nQuery results:\n%s", preamble, question, data)
	raw, err := client.Complete(ctx, prompt, ai.FormatSystemPrompt)
	if err != nil {
		return types.ResponseData{}, err
	}
	return ai.DecodeCards(raw), nil
}

func (s *querySvc) answerConversational(ctx context.Context, client ai.Client, preamble, question string) (types.ResponseData, error) {
	raw, err := client.Complete(ctx, preamble+question, ai.ConversationalSystemPrompt)
	if err != nil {
		return types.ResponseData{}, err
	}
	return ai.DecodeCards(raw), nil
}

// runSelect gates generated SQL down to reads before touching the store. The
// check is a literal prefix test on the uppercased text, nothing smarter.
func (s *querySvc) runSelect(ctx context.Context, sqlQuery string) (types.QueryResult, error) {
	upper := strings.ToUpper(strings.TrimSpace(sqlQuery))
	if !strings.HasPrefix(upper, "SELECT") {
		return types.QueryResult{}, fmt.Errorf("only SELECT queries are allowed")
	}
	return s.store.Select(ctx, sqlQuery)
}

func firstCardBody(r types.ResponseData) string {
	if len(r.Cards) == 0 {
		return ""
	}
	return r.Cards[0].Summary()
}
