package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"deadpigeons/domain/apperror"
	"deadpigeons/domain/entities"
)

type boardResponse struct {
	ID         int64      `json:"id"`
	Year       int        `json:"year"`
	WeekNumber int        `json:"week_number"`
	IsOpen     bool       `json:"is_open"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

func toBoardResponse(board *entities.Board) boardResponse {
	return boardResponse{
		ID:         board.ID,
		Year:       board.Year,
		WeekNumber: board.WeekNumber,
		IsOpen:     board.IsOpen,
		CreatedAt:  board.CreatedAt,
		ClosedAt:   board.ClosedAt,
	}
}

func (s *Server) handleCurrentBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.boards.GetOrCreateCurrentBoard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

func (s *Server) handleBoardByWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeError(w, r, apperror.NewValidation("week must be an integer"))
		return
	}

	board, err := s.boards.GetBoardByWeek(r.Context(), week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

type placeEntryRequest struct {
	AccountID      int64   `json:"account_id"`
	WeekNumber     int     `json:"week_number"`
	GuessedNumbers []int64 `json:"guessed_numbers"`
	RepeatWeeks    int     `json:"repeat_weeks"`
}

type entryResponse struct {
	ID             int64     `json:"id"`
	BoardID        int64     `json:"board_id"`
	AccountID      int64     `json:"account_id"`
	GuessedNumbers []int64   `json:"guessed_numbers"`
	Price          int64     `json:"price"`
	RepeatWeeks    int       `json:"repeat_weeks"`
	PlayedAt       time.Time `json:"played_at"`
}

func (s *Server) handlePlaceEntry(w http.ResponseWriter, r *http.Request) {
	var req placeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperror.NewValidation("invalid request body: %v", err))
		return
	}

	entry, err := s.entries.PlaceEntry(r.Context(), req.AccountID, req.WeekNumber, req.GuessedNumbers, req.RepeatWeeks)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryResponse{
		ID:             entry.ID,
		BoardID:        entry.BoardID,
		AccountID:      entry.AccountID,
		GuessedNumbers: entry.GuessedNumbers,
		Price:          entry.Price,
		RepeatWeeks:    entry.RepeatWeeks,
		PlayedAt:       entry.PlayedAt,
	})
}

type declareDrawRequest struct {
	WeekNumber     int     `json:"week_number"`
	WinningNumbers []int64 `json:"winning_numbers"`
}

type settlementResponse struct {
	BoardID           int64   `json:"board_id"`
	Year              int     `json:"year"`
	WeekNumber        int     `json:"week_number"`
	WinningNumbers    []int64 `json:"winning_numbers"`
	TotalEntries      int     `json:"total_entries"`
	TotalWinners      int     `json:"total_winners"`
	WinningAccountIDs []int64 `json:"winning_account_ids"`
	AlreadySettled    bool    `json:"already_settled"`
}

func (s *Server) handleDeclareDraw(w http.ResponseWriter, r *http.Request) {
	var req declareDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperror.NewValidation("invalid request body: %v", err))
		return
	}

	summary, err := s.settlements.SettleBoard(r.Context(), req.WeekNumber, req.WinningNumbers)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if summary.AlreadySettled {
		status = http.StatusOK
	}
	writeJSON(w, status, settlementResponse{
		BoardID:           summary.BoardID,
		Year:              summary.Year,
		WeekNumber:        summary.WeekNumber,
		WinningNumbers:    summary.WinningNumbers,
		TotalEntries:      summary.TotalEntries,
		TotalWinners:      summary.TotalWinners,
		WinningAccountIDs: summary.WinningAccountIDs,
		AlreadySettled:    summary.AlreadySettled,
	})
}

type historyItemResponse struct {
	EntryID        int64      `json:"entry_id"`
	BoardID        int64      `json:"board_id"`
	Year           int        `json:"year"`
	WeekNumber     int        `json:"week_number"`
	GuessedNumbers []int64    `json:"guessed_numbers"`
	Price          int64      `json:"price"`
	PlayedAt       time.Time  `json:"played_at"`
	IsWinner       *bool      `json:"is_winner,omitempty"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	items, err := s.history.GetAccountHistory(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]historyItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, historyItemResponse{
			EntryID:        item.EntryID,
			BoardID:        item.BoardID,
			Year:           item.Year,
			WeekNumber:     item.WeekNumber,
			GuessedNumbers: item.GuessedNumbers,
			Price:          item.Price,
			PlayedAt:       item.PlayedAt,
			IsWinner:       item.IsWinner,
			SettledAt:      item.SettledAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type balanceResponse struct {
	AccountID  int64 `json:"account_id"`
	Balance    int64 `json:"balance"`
	LedgerSum  int64 `json:"ledger_sum"`
	Reconciled bool  `json:"reconciled"`
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	statement, err := s.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		AccountID:  statement.AccountID,
		Balance:    statement.Balance,
		LedgerSum:  statement.LedgerSum,
		Reconciled: statement.Reconciled,
	})
}

type ledgerEntryResponse struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"account_id"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	Amount        int64     `json:"amount"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) handleAccountLedger(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperror.NewValidation("limit must be an integer"))
			return
		}
		limit = parsed
	}

	entries, err := s.ledger.GetLedger(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ledgerEntryResponse{
			ID:            entry.ID,
			AccountID:     entry.AccountID,
			BalanceBefore: entry.BalanceBefore,
			BalanceAfter:  entry.BalanceAfter,
			Amount:        entry.Amount,
			Reason:        string(entry.Reason),
			Reference:     entry.Reference,
			CreatedAt:     entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type topupRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type topupResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

func (s *Server) handleTopup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromPath(w, r)
	if !ok {
		return
	}

	var req topupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperror.NewValidation("invalid request body: %v", err))
		return
	}

	account, err := s.ledger.Credit(r.Context(), accountID, req.Amount, req.Reference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topupResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func accountIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, apperror.NewValidation("account id must be an integer"))
		return 0, false
	}
	return id, true
}
