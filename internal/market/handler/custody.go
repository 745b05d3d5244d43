package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nftmarket/internal/market/custody"
	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/httputil"
	"nftmarket/pkg/requestcontext"
)

// CustodyHandler exposes mint/approve on the in-memory custodian for
// development and end-to-end exercising of the full list/buy/withdraw flow.
// It is mounted only when the process runs without an external custodian.
type CustodyHandler struct {
	custodian *custody.InMemoryCustodian
	operator  domain.Account
	logger    *slog.Logger
}

func NewCustodyHandler(custodian *custody.InMemoryCustodian, operator domain.Account, logger *slog.Logger) *CustodyHandler {
	return &CustodyHandler{custodian: custodian, operator: operator, logger: logger}
}

func (h *CustodyHandler) Register(r chi.Router) {
	r.Post("/custody/mint", h.handleMint)
	r.Post("/custody/approve", h.handleApprove)
}

type assetRequest struct {
	Collection string `json:"collection"`
	Token      string `json:"token"`
}

func (h *CustodyHandler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.Decode[assetRequest](w, r)
	if !ok {
		return
	}
	collection := domain.CollectionID(req.Collection)
	token := domain.TokenID(req.Token)
	if collection == "" || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "collection and token are required"))
		return
	}

	if err := h.custodian.Mint(collection, token, caller); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeConflict, "asset already minted"))
		return
	}

	h.logger.InfoContext(ctx, "asset minted", "collection", collection, "token", token, "owner", caller)
	w.WriteHeader(http.StatusCreated)
}

func (h *CustodyHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.Decode[assetRequest](w, r)
	if !ok {
		return
	}
	collection := domain.CollectionID(req.Collection)
	token := domain.TokenID(req.Token)
	if collection == "" || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "collection and token are required"))
		return
	}

	if err := h.custodian.Approve(collection, token, caller, h.operator); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeForbidden, "approval rejected"))
		return
	}

	h.logger.InfoContext(ctx, "marketplace approved for asset", "collection", collection, "token", token, "owner", caller)
	w.WriteHeader(http.StatusNoContent)
}
