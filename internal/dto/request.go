package dto

// OpenAccountRequest represents an open account request
type OpenAccountRequest struct {
	CustomerName string `json:"customer_name" binding:"required" example:"John Doe"`
}

// DepositRequest represents a deposit request. Amount is in integer minor
// units.
type DepositRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0" example:"800"`
	Description string `json:"description" example:"payroll"`
}

// WithdrawRequest represents a withdrawal request. Amount is in integer
// minor units.
type WithdrawRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0" example:"200"`
	Description string `json:"description" example:"rent"`
}

// TransferRequest represents a transfer request from the account in the URL
// to the given destination account.
type TransferRequest struct {
	ToAccountID string `json:"to_account_id" binding:"required" example:"9f2c4d66-1d34-4e0b-a8a1-4f6a2c1d9b70"`
	Amount      int64  `json:"amount" binding:"required,gt=0" example:"150"`
	Description string `json:"description" example:"rent split"`
}

// CloseAccountRequest represents an account closure request
type CloseAccountRequest struct {
	Reason string `json:"reason" example:"customer request"`
}
