package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
)

func TestResolveHourlyRate(t *testing.T) {
	settings := domain.CabinetSettings{DefaultRateCents: 15000}
	matterWithRate := domain.Matter{HourlyRateCents: ptrInt64(18000)}
	profileWithRate := &domain.Profile{HourlyRateCents: ptrInt64(22000)}
	profileWithoutRate := &domain.Profile{}

	testCases := []struct {
		name     string
		override *int64
		profile  *domain.Profile
		matter   domain.Matter
		expected int64
	}{
		{"override beats everything", ptrInt64(30000), profileWithRate, matterWithRate, 30000},
		{"profile rate beats matter rate", nil, profileWithRate, matterWithRate, 22000},
		{"matter rate when profile has none", nil, profileWithoutRate, matterWithRate, 18000},
		{"matter rate when profile missing", nil, nil, matterWithRate, 18000},
		{"cabinet default as last resort", nil, profileWithoutRate, domain.Matter{}, 15000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.ResolveHourlyRate(tc.override, tc.profile, tc.matter, settings)
			assert.Equal(t, tc.expected, got)
		})
	}
}
