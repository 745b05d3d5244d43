package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"nftmarket/internal/market"
	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/httputil"
	"nftmarket/pkg/requestcontext"
)

// Service defines the marketplace operations the transport layer needs.
type Service interface {
	ListItem(ctx context.Context, key domain.AssetKey, price decimal.Decimal, caller domain.Account) (market.Listing, error)
	BuyItem(ctx context.Context, key domain.AssetKey, buyer domain.Account, payment decimal.Decimal) (market.Listing, error)
	CancelListing(ctx context.Context, key domain.AssetKey, caller domain.Account) error
	UpdateListing(ctx context.Context, key domain.AssetKey, newPrice decimal.Decimal, caller domain.Account) (market.Listing, error)
	GetListing(ctx context.Context, key domain.AssetKey) (market.Listing, error)
	GetProceeds(ctx context.Context, seller domain.Account) (decimal.Decimal, error)
	WithdrawProceeds(ctx context.Context, caller domain.Account) (decimal.Decimal, error)
}

// Handler wires marketplace endpoints to the service. It stays thin: parsing,
// caller resolution, and error translation only.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated marketplace endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/listings", h.handleList)
	r.Patch("/listings/{collection}/{token}", h.handleUpdate)
	r.Delete("/listings/{collection}/{token}", h.handleCancel)
	r.Post("/listings/{collection}/{token}/buy", h.handleBuy)
	r.Get("/proceeds", h.handleGetProceeds)
	r.Post("/proceeds/withdraw", h.handleWithdraw)
}

// RegisterPublic mounts the read-only endpoints that need no caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/listings/{collection}/{token}", h.handleGetListing)
}

type listRequest struct {
	Collection string          `json:"collection"`
	Token      string          `json:"token"`
	Price      decimal.Decimal `json:"price"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type buyRequest struct {
	Payment decimal.Decimal `json:"payment"`
}

type withdrawalResponse struct {
	Seller domain.Account  `json:"seller"`
	Amount decimal.Decimal `json:"amount"`
}

func keyFromURL(r *http.Request) (domain.AssetKey, error) {
	key := domain.AssetKey{
		Collection: domain.CollectionID(chi.URLParam(r, "collection")),
		Token:      domain.TokenID(chi.URLParam(r, "token")),
	}
	if key.IsZero() {
		return domain.AssetKey{}, dErrors.New(dErrors.CodeBadRequest, "collection and token are required")
	}
	return key, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)
	start := time.Now()

	req, ok := httputil.Decode[listRequest](w, r)
	if !ok {
		return
	}
	key := domain.AssetKey{
		Collection: domain.CollectionID(req.Collection),
		Token:      domain.TokenID(req.Token),
	}
	if key.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "collection and token are required"))
		return
	}

	listing, err := h.service.ListItem(ctx, key, req.Price, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "list rejected",
			"request_id", requestcontext.RequestID(ctx),
			"key", key.String(),
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "item listed",
		"request_id", requestcontext.RequestID(ctx),
		"key", key.String(),
		"seller", caller,
		"price", req.Price,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, listing)
}

func (h *Handler) handleGetListing(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	listing, err := h.service.GetListing(r.Context(), key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	key, err := keyFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[priceRequest](w, r)
	if !ok {
		return
	}

	listing, err := h.service.UpdateListing(ctx, key, req.Price, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "listing updated",
		"request_id", requestcontext.RequestID(ctx),
		"key", key.String(),
		"seller", caller,
		"price", req.Price,
	)
	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	key, err := keyFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.CancelListing(ctx, key, caller); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "listing cancelled",
		"request_id", requestcontext.RequestID(ctx),
		"key", key.String(),
		"seller", caller,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)
	start := time.Now()

	key, err := keyFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[buyRequest](w, r)
	if !ok {
		return
	}

	listing, err := h.service.BuyItem(ctx, key, caller, req.Payment)
	if err != nil {
		h.logger.WarnContext(ctx, "buy rejected",
			"request_id", requestcontext.RequestID(ctx),
			"key", key.String(),
			"buyer", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "item bought",
		"request_id", requestcontext.RequestID(ctx),
		"key", key.String(),
		"buyer", caller,
		"seller", listing.Seller,
		"price", listing.Price,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleGetProceeds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	balance, err := h.service.GetProceeds(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, market.ProceedsEntry{Seller: caller, Balance: balance})
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	amount, err := h.service.WithdrawProceeds(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "proceeds withdrawn",
		"request_id", requestcontext.RequestID(ctx),
		"seller", caller,
		"amount", amount,
	)
	httputil.WriteJSON(w, http.StatusOK, withdrawalResponse{Seller: caller, Amount: amount})
}
