// Package transport defines the wire types of the providers module.
package transport

import (
	"time"

	"mudancer_backend/internal/providers/repository"
)

// CreateProviderRequest opens a provider account: the profile plus the
// password for the paired login user.
type CreateProviderRequest struct {
	Name        string  `json:"nombre" validate:"required"`
	RFC         *string `json:"rfc"`
	Address     *string `json:"direccion"`
	Phone       string  `json:"telefono" validate:"required,len=10,numeric"`
	Email       string  `json:"email" validate:"required,email"`
	Responsible *string `json:"responsable"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	Reputation  float64 `json:"reputacion" validate:"gte=0,lte=5"`
	Password    string  `json:"password" validate:"required,min=8"`
}

type UpdateProviderRequest struct {
	Name        string  `json:"nombre" validate:"required"`
	RFC         *string `json:"rfc"`
	Address     *string `json:"direccion"`
	Phone       string  `json:"telefono" validate:"required,len=10,numeric"`
	Email       string  `json:"email" validate:"required,email"`
	Responsible *string `json:"responsable"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	Reputation  float64 `json:"reputacion" validate:"gte=0,lte=5"`
}

type ProviderResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"nombre"`
	RFC            *string `json:"rfc"`
	Address        *string `json:"direccion"`
	Phone          string  `json:"telefono"`
	Email          string  `json:"email"`
	Responsible    *string `json:"responsable"`
	LogoURL        *string `json:"logo_url"`
	Reputation     float64 `json:"reputacion"`
	CompletedCount int     `json:"trabajos_concluidos"`
	CreatedAt      string  `json:"created_at"`
}

// ListResponse pages the provider directory.
type ListResponse struct {
	Providers []ProviderResponse `json:"proveedores"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PerPage   int                `json:"per_page"`
}

func ToProviderResponse(p repository.Provider, completedCount int) ProviderResponse {
	return ProviderResponse{
		ID:             p.ID,
		Name:           p.Name,
		RFC:            p.RFC,
		Address:        p.Address,
		Phone:          p.Phone,
		Email:          p.Email,
		Responsible:    p.Responsible,
		LogoURL:        p.LogoURL,
		Reputation:     p.Reputation,
		CompletedCount: completedCount,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
