package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"insufficient_funds"`
	Message string `json:"message,omitempty" example:"account has balance 50, requested 100"`
}

// AccountResponse represents one account snapshot
type AccountResponse struct {
	AccountID        string                `json:"account_id"`
	CustomerName     string                `json:"customer_name"`
	Balance          int64                 `json:"balance"`
	Status           string                `json:"status"`
	TransactionCount int                   `json:"transaction_count"`
	Transactions     []TransactionResponse `json:"transactions"`
	CreatedAt        string                `json:"created_at"`
}

// TransactionResponse represents one applied movement in an account history
type TransactionResponse struct {
	EventID      string `json:"event_id"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	Description  string `json:"description,omitempty"`
	BalanceAfter int64  `json:"balance_after"`
	Timestamp    int64  `json:"timestamp"`
	TransferID   string `json:"transfer_id,omitempty"`
}

// ListAccountsResponse represents the full account listing
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Count    int               `json:"count"`
}

// BalanceResponse represents the result of a deposit or withdrawal
type BalanceResponse struct {
	AccountID  string `json:"account_id"`
	NewBalance int64  `json:"new_balance"`
}

// TransferResponse represents the result of a transfer
type TransferResponse struct {
	TransferID         string `json:"transfer_id"`
	FromAccountID      string `json:"from_account_id"`
	ToAccountID        string `json:"to_account_id"`
	Amount             int64  `json:"amount"`
	FromAccountBalance int64  `json:"from_account_balance"`
	ToAccountBalance   int64  `json:"to_account_balance"`
}

// CloseAccountResponse represents the result of closing an account
type CloseAccountResponse struct {
	AccountID    string `json:"account_id"`
	FinalBalance int64  `json:"final_balance"`
	Status       string `json:"status"`
}

// EventResponse represents one event in the audit export
type EventResponse struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	AccountID  string         `json:"account_id"`
	Payload    map[string]any `json:"payload"`
	Timestamp  int64          `json:"timestamp"`
	TransferID string         `json:"transfer_id,omitempty"`
	RecordedAt string         `json:"recorded_at"`
}

// ListEventsResponse represents the full ordered audit export
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

// ReplayResponse represents the result of a full replay
type ReplayResponse struct {
	AccountsRebuilt int    `json:"accounts_rebuilt"`
	EventsReplayed  int    `json:"events_replayed"`
	EventsChecksum  string `json:"events_checksum"`
	StateChecksum   string `json:"state_checksum"`
}
