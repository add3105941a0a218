package domain

// BillingType determines how a matter's invoices are computed.
type BillingType string

const (
	TimeBased BillingType = "time_based"
	FlatFee   BillingType = "flat_fee"
)

// Matter is a case or engagement for a client. Switching the billing type is
// allowed at any time but never retroactively affects issued invoices.
type Matter struct {
	MatterID        string      `json:"matterID"` // Primary Key (UUID)
	ClientID        string      `json:"clientID"` // FK -> Client
	Label           string      `json:"label"`
	BillingType     BillingType `json:"billingType"`
	HourlyRateCents *int64      `json:"hourlyRateCents,omitempty"` // matter override rate, nil = unset
	FlatFeeCents    *int64      `json:"flatFeeCents,omitempty"`    // required for flat_fee billing
	VATRate         int64       `json:"vatRate"`                   // 0 or 20
	IsArchived      bool        `json:"isArchived"`
	AuditFields
}
