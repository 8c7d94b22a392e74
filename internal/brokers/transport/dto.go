// Package transport defines the wire types of the brokers context.
package transport

import (
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/brokers/repository"
)

// CreateBrokerRequest creates a broker and its portal account. When no
// password is given a temporary one is generated and echoed back once.
type CreateBrokerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FullName    string `json:"fullName" binding:"required"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Territory   string `json:"territory"`
	Password    string `json:"password"`
}

// UpdateBrokerRequest patches broker profile fields.
type UpdateBrokerRequest struct {
	FullName    *string `json:"fullName"`
	CompanyName *string `json:"companyName"`
	Phone       *string `json:"phone"`
	Territory   *string `json:"territory"`
	IsActive    *bool   `json:"isActive"`
}

// BrokerDTO is a broker row as the admin dashboard consumes it.
type BrokerDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	CompanyName *string   `json:"company_name"`
	Phone       *string   `json:"phone"`
	Territory   *string   `json:"territory"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatedBrokerResponse is the creation response. TempPassword and Message
// are only present when the password was generated server side.
type CreatedBrokerResponse struct {
	BrokerDTO
	TempPassword string `json:"tempPassword,omitempty"`
	Message      string `json:"message,omitempty"`
}

func ToBrokerDTO(b repository.Broker) BrokerDTO {
	return BrokerDTO{
		ID:          b.ID,
		Email:       b.Email,
		FullName:    b.FullName,
		CompanyName: b.CompanyName,
		Phone:       b.Phone,
		Territory:   b.Territory,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToBrokerDTOs(brokers []repository.Broker) []BrokerDTO {
	out := make([]BrokerDTO, 0, len(brokers))
	for _, b := range brokers {
		out = append(out, ToBrokerDTO(b))
	}
	return out
}
