package dto

// TopUpRequest defines the expected JSON body for crediting a subordinate's wallet.
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// BalanceResponse reports an account's wallet balance.
type BalanceResponse struct {
	AccountID string `json:"accountID"`
	Wallet    int64  `json:"wallet"`
}
