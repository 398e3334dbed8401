package dto

import (
	"time"

	"phonestore/internal/domain"
)

type CreatePhoneRequest struct {
	MacAddress string `json:"mac_address"`
	Model      string `json:"model"`
}

// UpdatePhoneRequest carries the only mutable phone fields. Absent fields are
// left untouched; an empty string clears the assignment field.
type UpdatePhoneRequest struct {
	ID                string  `json:"id"`
	AssignedTo        *string `json:"assigned_to"`
	AssignedExtension *string `json:"assigned_extension"`
	Status            *string `json:"status"`
}

type PhoneUpdate struct {
	AssignedTo        *string
	AssignedExtension *string
	Status            *domain.PhoneStatus
}

type PhoneResponse struct {
	ID                string    `json:"id"`
	MacAddress        string    `json:"mac_address"`
	Model             string    `json:"model"`
	OrderID           *string   `json:"order_id"`
	AssignedTo        *string   `json:"assigned_to"`
	AssignedExtension *string   `json:"assigned_extension"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

func NewPhoneResponse(p domain.Phone) PhoneResponse {
	return PhoneResponse{
		ID:                p.ID,
		MacAddress:        p.MacAddress,
		Model:             p.Model,
		OrderID:           p.OrderID,
		AssignedTo:        p.AssignedTo,
		AssignedExtension: p.AssignedExtension,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func NewPhoneResponses(phones []domain.Phone) []PhoneResponse {
	out := make([]PhoneResponse, len(phones))
	for i, p := range phones {
		out[i] = NewPhoneResponse(p)
	}
	return out
}
