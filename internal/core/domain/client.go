package domain

// Client is a party the cabinet bills. The engine only needs it for display
// data and KPI attribution; everything billable hangs off a Matter.
type Client struct {
	ClientID string `json:"clientID"` // Primary Key (UUID)
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	AuditFields
}
