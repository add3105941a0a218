package domain

import "time"

// TimesheetEntry is a block of recorded work. Minutes are stored already
// rounded up to the next quarter-hour. An entry is mutable until Locked is
// set, which happens exactly once, when an issued invoice consumes it; the
// only path back is voiding that invoice before any credit note exists.
type TimesheetEntry struct {
	EntryID        string    `json:"entryID"`        // Primary Key (UUID)
	CollaboratorID string    `json:"collaboratorID"` // FK -> Profile
	MatterID       string    `json:"matterID"`       // FK -> Matter
	EntryDate      time.Time `json:"entryDate"`
	Minutes        int64     `json:"minutes"` // multiple of 15
	IsBillable     bool      `json:"isBillable"`
	Locked         bool      `json:"locked"`
	Description    string    `json:"description"`
	AuditFields
}
