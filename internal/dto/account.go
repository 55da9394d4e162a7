package dto

import (
	"time"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

// CreateAccountRequest defines the expected JSON body for creating an account.
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin master seller"`
	Wallet   int64  `json:"wallet" binding:"gte=0"` // initial credit balance
}

// AccountResponse defines the JSON representation of an account returned by the API.
type AccountResponse struct {
	AccountID string    `json:"accountID"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Wallet    int64     `json:"wallet"`
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToAccountResponse maps a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		Name:      a.Name,
		Username:  a.Username,
		Role:      string(a.Role),
		Wallet:    a.Wallet,
		IsActive:  a.IsActive,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

// ToAccountResponses maps a slice of domain accounts to API representations.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, ToAccountResponse(&accounts[i]))
	}
	return out
}
