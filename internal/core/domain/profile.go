package domain

// Profile is a collaborator of the cabinet (lawyer, consultant, assistant).
// HourlyRateCents, when set, takes precedence over the matter's override rate
// and the cabinet default when resolving the billing rate for a timesheet
// entry (see rate resolution precedence in the billing service).
type Profile struct {
	ProfileID       string `json:"profileID"` // Primary Key (UUID)
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	HourlyRateCents *int64 `json:"hourlyRateCents,omitempty"` // personal rate, nil = unset
	IsActive        bool   `json:"isActive"`
	AuditFields
}
