package dto

// CreateMatterRequest opens a new matter for a client. VATRate uses the
// custom `vatrate` validator (0 or 20).
type CreateMatterRequest struct {
	ClientID        string `json:"clientID" binding:"required"`
	Label           string `json:"label" binding:"required"`
	BillingType     string `json:"billingType" binding:"required,oneof=time_based flat_fee"`
	HourlyRateCents *int64 `json:"hourlyRateCents"`
	FlatFeeCents    *int64 `json:"flatFeeCents"`
	VATRate         *int64 `json:"vatRate" binding:"omitempty,vatrate"` // defaults to the cabinet default
}

// UpdateMatterRequest mutates a matter. Changing the billing type is allowed
// and never touches already-issued invoices.
type UpdateMatterRequest struct {
	Label           *string `json:"label"`
	BillingType     *string `json:"billingType" binding:"omitempty,oneof=time_based flat_fee"`
	HourlyRateCents *int64  `json:"hourlyRateCents"`
	FlatFeeCents    *int64  `json:"flatFeeCents"`
	VATRate         *int64  `json:"vatRate" binding:"omitempty,vatrate"`
	IsArchived      *bool   `json:"isArchived"`
}

// CreateClientRequest registers a new client.
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// UpdateClientRequest mutates a client record.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// CreateProfileRequest registers a collaborator.
type CreateProfileRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	HourlyRateCents *int64 `json:"hourlyRateCents"`
}

// UpdateProfileRequest mutates a collaborator profile.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	HourlyRateCents *int64  `json:"hourlyRateCents"`
	ClearHourlyRate bool    `json:"clearHourlyRate"`
	IsActive        *bool   `json:"isActive"`
}

// UpdateSettingsRequest mutates the cabinet settings singleton. The numbering
// counters are deliberately absent: they only move through issuance.
type UpdateSettingsRequest struct {
	CabinetName      *string `json:"cabinetName"`
	Address          *string `json:"address"`
	SIRET            *string `json:"siret"`
	DefaultRateCents *int64  `json:"defaultRateCents" binding:"omitempty,gt=0"`
	DefaultVATRate   *int64  `json:"defaultVATRate" binding:"omitempty,vatrate"`
}

// LoginRequest authenticates a collaborator.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token     string `json:"token"`
	ProfileID string `json:"profileID"`
	Name      string `json:"name"`
}
