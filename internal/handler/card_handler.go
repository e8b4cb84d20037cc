package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"cash-card/internal/domain"
	"cash-card/internal/errors"
	"cash-card/internal/service"
)

type CardHandler struct {
	cardService *service.CardService
}

func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

type OperationRequest struct {
	Pin    *int   `json:"pin"`
	Amount string `json:"amount"`
}

type BalanceRequest struct {
	Pin *int `json:"pin"`
}

type CardResultResponse struct {
	AccountID        int64  `json:"account_id"`
	Approved         bool   `json:"approved"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
	RemainingBalance string `json:"remaining_balance"`
}

var rejectionMessages = map[domain.RejectionReason]string{
	domain.IncorrectPin:        "incorrect PIN",
	domain.InsufficientBalance: "insufficient balance",
	domain.InvalidAmount:       "amount must not be negative",
}

func (h *CardHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]

	pin, amount, ok := decodeOperation(w, r)
	if !ok {
		return
	}

	result, err := h.cardService.Withdraw(accountID, pin, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, accountID, result)
}

func (h *CardHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]

	pin, amount, ok := decodeOperation(w, r)
	if !ok {
		return
	}

	result, err := h.cardService.TopUp(accountID, pin, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, accountID, result)
}

func (h *CardHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]

	var req BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}
	if req.Pin == nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "pin is required"))
		return
	}

	result, err := h.cardService.Balance(accountID, *req.Pin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, accountID, result)
}

func decodeOperation(w http.ResponseWriter, r *http.Request) (int, decimal.Decimal, bool) {
	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return 0, decimal.Zero, false
	}
	if req.Pin == nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "pin is required"))
		return 0, decimal.Zero, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return 0, decimal.Zero, false
	}

	return *req.Pin, amount, true
}

// writeResult always sends the result body. Rejections also carry the
// rejection code in the error field.
func writeResult(w http.ResponseWriter, accountID string, result domain.TransactionResult) {
	id, _ := strconv.ParseInt(accountID, 10, 64)

	response := Response{Data: CardResultResponse{
		AccountID:        id,
		Approved:         result.Approved(),
		RejectionReason:  string(result.RejectionReason()),
		RemainingBalance: result.RemainingBalance().String(),
	}}

	status := http.StatusOK
	switch result.RejectionReason() {
	case domain.IncorrectPin:
		status = http.StatusUnauthorized
	case domain.InsufficientBalance:
		status = http.StatusUnprocessableEntity
	case domain.InvalidAmount:
		status = http.StatusBadRequest
	}
	if !result.Approved() {
		response.Error = &Error{
			Code:    string(result.RejectionReason()),
			Message: rejectionMessages[result.RejectionReason()],
		}
	}

	writeResponse(w, status, response)
}
