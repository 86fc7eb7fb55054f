package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fanta-auction/internal/domain/auction"
	"github.com/riskibarqy/fanta-auction/internal/domain/history"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
	"github.com/riskibarqy/fanta-auction/internal/usecase"
)

type Handler struct {
	auctionService *usecase.AuctionService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(auctionService *usecase.AuctionService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		auctionService: auctionService,
		logger:         logger,
		validator:      validator.New(),
	}
}

type startAuctionRequest struct {
	// TeamID is the caller's identity, resolved by the boundary in
	// front of this API; the engine validates it against the registry.
	TeamID string `json:"team_id" validate:"required"`
	Player string `json:"player" validate:"required"`
	// OpeningBid of zero means the engine default.
	OpeningBid int64 `json:"opening_bid" validate:"gte=0"`
}

type bidRequest struct {
	TeamID    string `json:"team_id" validate:"required"`
	Increment int64  `json:"increment" validate:"required,gt=0"`
}

type teamActionRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

type deleteHistoryRequest struct {
	TeamID string `json:"team_id" validate:"required"`
	ID     int64  `json:"id" validate:"required,gt=0"`
}

type auctionStatusDTO struct {
	Active               bool   `json:"active"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
	Player               string `json:"player,omitempty"`
	HighestBid           int64  `json:"highest_bid"`
	LeadingTeam          string `json:"leading_team,omitempty"`
	TimeLeft             int64  `json:"time_left"`
}

type historyEntryDTO struct {
	ID     int64  `json:"id"`
	Player string `json:"player"`
	Winner string `json:"winner"`
	Price  int64  `json:"price"`
	TS     int64  `json:"ts"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetAuctionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuctionStatus")
	defer span.End()

	snap := h.auctionService.Status(ctx)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

func (h *Handler) StartAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartAuction")
	defer span.End()

	var req startAuctionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.auctionService.Start(ctx, req.TeamID, req.Player, req.OpeningBid)
	if err != nil {
		h.logger.WarnContext(ctx, "start auction rejected", "team", req.TeamID, "player", req.Player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshotToDTO(snap))
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	var req bidRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.auctionService.Bid(ctx, req.TeamID, req.Increment)
	if err != nil {
		h.logger.WarnContext(ctx, "bid rejected", "team", req.TeamID, "increment", req.Increment, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

func (h *Handler) ConfirmSale(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmSale")
	defer span.End()

	var req teamActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.auctionService.Confirm(ctx, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm rejected", "team", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(entry))
}

func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelAuction")
	defer span.End()

	var req teamActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.auctionService.Cancel(ctx, req.TeamID); err != nil {
		h.logger.WarnContext(ctx, "cancel rejected", "team", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHistory")
	defer span.End()

	entries, err := h.auctionService.ListHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteHistory")
	defer span.End()

	var req deleteHistoryRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.auctionService.DeleteHistory(ctx, req.TeamID, req.ID); err != nil {
		h.logger.WarnContext(ctx, "delete history rejected", "team", req.TeamID, "entry_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailablePlayers")
	defer span.End()

	players, err := h.auctionService.ListAvailablePlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string][]string{"players": players})
}

func (h *Handler) ListRemainingBudgets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRemainingBudgets")
	defer span.End()

	budgets, err := h.auctionService.ListRemainingBudgets(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list budgets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]map[string]int64{"budgets": budgets})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func snapshotToDTO(snap auction.Snapshot) auctionStatusDTO {
	return auctionStatusDTO{
		Active:               snap.Active,
		AwaitingConfirmation: snap.AwaitingConfirmation,
		Player:               snap.Player,
		HighestBid:           snap.HighestBid,
		LeadingTeam:          snap.LeadingTeam,
		TimeLeft:             snap.TimeLeft,
	}
}

func entryToDTO(entry history.Entry) historyEntryDTO {
	return historyEntryDTO{
		ID:     entry.ID,
		Player: entry.Player,
		Winner: entry.WinnerTeam,
		Price:  entry.Price,
		TS:     entry.Timestamp,
	}
}
