// Package transport defines the wire types of the clients context.
package transport

import (
	"time"

	"github.com/google/uuid"

	"vmr_backend/internal/clients/repository"
)

type CreateClientRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

type AssignToClientRequest struct {
	LeadID   string `json:"leadId"`
	ClientID string `json:"clientId"`
}

type ClientDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	CompanyName *string   `json:"company_name"`
	Phone       *string   `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignmentDTO struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"lead_id"`
	ClientID   uuid.UUID `json:"client_id"`
	AssignedBy *string   `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

func ToClientDTO(c repository.Client) ClientDTO {
	return ClientDTO{
		ID:          c.ID,
		Email:       c.Email,
		FullName:    c.FullName,
		CompanyName: c.CompanyName,
		Phone:       c.Phone,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToClientDTOs(clients []repository.Client) []ClientDTO {
	out := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToClientDTO(c))
	}
	return out
}

func ToAssignmentDTO(a repository.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:         a.ID,
		LeadID:     a.LeadID,
		ClientID:   a.ClientID,
		AssignedBy: a.AssignedBy,
		AssignedAt: a.AssignedAt,
	}
}
