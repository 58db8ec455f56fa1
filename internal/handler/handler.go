package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
	"github.com/tilakpeace/banking-system-audit/internal/dto"
	"github.com/tilakpeace/banking-system-audit/internal/ledger"
)

type Handler struct {
	ledger ledger.Service
	router *gin.Engine
	log    *zap.Logger
}

func NewHandler(ledgerService ledger.Service, log *zap.Logger) *Handler {
	h := &Handler{
		ledger: ledgerService,
		router: gin.Default(),
		log:    log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/accounts/open", h.openAccount)
	h.router.POST("/accounts/:id/deposit", h.deposit)
	h.router.POST("/accounts/:id/withdraw", h.withdraw)
	h.router.POST("/accounts/:id/transfer", h.transfer)
	h.router.POST("/accounts/:id/close", h.closeAccount)
	h.router.GET("/accounts/:id", h.getAccount)
	h.router.GET("/accounts", h.listAccounts)
	h.router.GET("/events", h.listEvents)
	h.router.POST("/replay", h.replay)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// openAccount handles POST /accounts/open
func (h *Handler) openAccount(c *gin.Context) {
	var req dto.OpenAccountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid open account request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	account, err := h.ledger.OpenAccount(req.CustomerName)
	if err != nil {
		h.renderError(c, err, "Failed to open account")
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

// deposit handles POST /accounts/:id/deposit
func (h *Handler) deposit(c *gin.Context) {
	accountID := c.Param("id")

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid deposit request",
			zap.Error(err),
			zap.String("account_id", accountID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	newBalance, err := h.ledger.Deposit(accountID, req.Amount, req.Description)
	if err != nil {
		h.renderError(c, err, "Failed to deposit")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:  accountID,
		NewBalance: newBalance,
	})
}

// withdraw handles POST /accounts/:id/withdraw
func (h *Handler) withdraw(c *gin.Context) {
	accountID := c.Param("id")

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid withdraw request",
			zap.Error(err),
			zap.String("account_id", accountID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	newBalance, err := h.ledger.Withdraw(accountID, req.Amount, req.Description)
	if err != nil {
		h.renderError(c, err, "Failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:  accountID,
		NewBalance: newBalance,
	})
}

// transfer handles POST /accounts/:id/transfer
func (h *Handler) transfer(c *gin.Context) {
	fromID := c.Param("id")

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid transfer request",
			zap.Error(err),
			zap.String("from_account_id", fromID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := h.ledger.Transfer(fromID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		h.renderError(c, err, "Failed to transfer")
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		TransferID:         result.TransferID,
		FromAccountID:      fromID,
		ToAccountID:        req.ToAccountID,
		Amount:             req.Amount,
		FromAccountBalance: result.FromBalance,
		ToAccountBalance:   result.ToBalance,
	})
}

// closeAccount handles POST /accounts/:id/close
func (h *Handler) closeAccount(c *gin.Context) {
	accountID := c.Param("id")

	var req dto.CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid close account request",
			zap.Error(err),
			zap.String("account_id", accountID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	finalBalance, err := h.ledger.CloseAccount(accountID, req.Reason)
	if err != nil {
		h.renderError(c, err, "Failed to close account")
		return
	}

	c.JSON(http.StatusOK, dto.CloseAccountResponse{
		AccountID:    accountID,
		FinalBalance: finalBalance,
		Status:       string(domain.StatusClosed),
	})
}

// getAccount handles GET /accounts/:id
func (h *Handler) getAccount(c *gin.Context) {
	accountID := c.Param("id")

	account, err := h.ledger.GetAccount(accountID)
	if err != nil {
		h.renderError(c, err, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

// listAccounts handles GET /accounts
func (h *Handler) listAccounts(c *gin.Context) {
	accounts := h.ledger.ListAccounts()

	response := dto.ListAccountsResponse{
		Accounts: make([]dto.AccountResponse, 0, len(accounts)),
		Count:    len(accounts),
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, toAccountResponse(account))
	}

	c.JSON(http.StatusOK, response)
}

// listEvents handles GET /events, the ordered audit export of the log
func (h *Handler) listEvents(c *gin.Context) {
	events := h.ledger.Events()

	response := dto.ListEventsResponse{
		Events: make([]dto.EventResponse, 0, len(events)),
		Count:  len(events),
	}
	for _, event := range events {
		response.Events = append(response.Events, toEventResponse(event))
	}

	c.JSON(http.StatusOK, response)
}

// replay handles POST /replay
func (h *Handler) replay(c *gin.Context) {
	result, err := h.ledger.Replay()
	if err != nil {
		h.renderError(c, err, "Replay failed")
		return
	}

	c.JSON(http.StatusOK, dto.ReplayResponse{
		AccountsRebuilt: result.AccountsRebuilt,
		EventsReplayed:  result.EventsReplayed,
		EventsChecksum:  result.EventsChecksum,
		StateChecksum:   result.StateChecksum,
	})
}

// renderError maps a ledger error kind to an HTTP status and the shared
// error envelope.
func (h *Handler) renderError(c *gin.Context, err error, logMessage string) {
	kind := ledger.KindOf(err)

	var status int
	var code string
	switch kind {
	case ledger.KindNotFound:
		status, code = http.StatusNotFound, "not_found"
	case ledger.KindInvalidState:
		status, code = http.StatusConflict, "invalid_state"
	case ledger.KindInvalidArgument:
		status, code = http.StatusBadRequest, "invalid_argument"
	case ledger.KindInsufficientFunds:
		status, code = http.StatusUnprocessableEntity, "insufficient_funds"
	case ledger.KindCorruptEvent:
		status, code = http.StatusInternalServerError, "corrupt_event"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(logMessage, zap.Error(err))
	} else {
		h.log.Warn(logMessage, zap.Error(err))
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func toAccountResponse(account domain.Account) dto.AccountResponse {
	transactions := make([]dto.TransactionResponse, 0, len(account.Transactions))
	for _, tx := range account.Transactions {
		transactions = append(transactions, dto.TransactionResponse{
			EventID:      tx.EventID,
			Kind:         string(tx.Kind),
			Amount:       tx.Amount,
			Description:  tx.Description,
			BalanceAfter: tx.BalanceAfter,
			Timestamp:    tx.Timestamp,
			TransferID:   tx.TransferID,
		})
	}

	return dto.AccountResponse{
		AccountID:        account.AccountID,
		CustomerName:     account.CustomerName,
		Balance:          account.Balance,
		Status:           string(account.Status),
		TransactionCount: len(account.Transactions),
		Transactions:     transactions,
		CreatedAt:        account.CreatedAt.Format(time.RFC3339),
	}
}

func toEventResponse(event domain.Event) dto.EventResponse {
	var payload map[string]any
	if event.Payload != nil {
		payload = event.Payload.Fields()
	}

	return dto.EventResponse{
		EventID:    event.EventID,
		EventType:  string(event.Type),
		AccountID:  event.AccountID,
		Payload:    payload,
		Timestamp:  event.Timestamp,
		TransferID: event.TransferID,
		RecordedAt: event.RecordedAt.Format(time.RFC3339),
	}
}
