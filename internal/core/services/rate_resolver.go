package services

import "github.com/cabinetlib/practice_mgmt_app/internal/core/domain"

// ResolveHourlyRate determines the applicable hourly rate for a timesheet
// entry. Precedence, highest to lowest:
//
//  1. a per-entry manual override supplied at invoice-creation time
//  2. the collaborator's personal rate on their profile
//  3. the matter's override rate
//  4. the cabinet-wide default rate
//
// Exactly one source wins. The order of (2) and (3) matters: every invoice
// total changes if they swap.
func ResolveHourlyRate(override *int64, profile *domain.Profile, matter domain.Matter, settings domain.CabinetSettings) int64 {
	if override != nil {
		return *override
	}
	if profile != nil && profile.HourlyRateCents != nil {
		return *profile.HourlyRateCents
	}
	if matter.HourlyRateCents != nil {
		return *matter.HourlyRateCents
	}
	return settings.DefaultRateCents
}
