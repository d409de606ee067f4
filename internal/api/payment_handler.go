package api

import (
	"log/slog"
	"net/http"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/service/payment"
)

// PaymentHandler provisions payment sessions for the upgrade flow.
type PaymentHandler struct {
	logger      *slog.Logger
	provisioner payment.Provisioner
}

// NewPaymentHandler creates a PaymentHandler. A nil provisioner disables the
// endpoint; it responds 502 so the front-end keeps the account gated.
func NewPaymentHandler(logger *slog.Logger, provisioner payment.Provisioner) *PaymentHandler {
	return &PaymentHandler{
		logger:      logger.With(slog.String("component", "payment_handler")),
		provisioner: provisioner,
	}
}

// CreateSession handles POST /api/payments/session.
func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	if h.provisioner == nil {
		HandleServiceError(w, r, payment.ErrNoCredential)
		return
	}

	secret, err := h.provisioner.CreateSession(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PaymentSessionResponse{ClientSecret: secret})
}
