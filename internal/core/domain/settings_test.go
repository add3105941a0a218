package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

func TestNextSequence(t *testing.T) {
	testCases := []struct {
		name         string
		storedYear   int
		storedNext   int
		year         int
		expectedSeq  int
		expectedNext int
	}{
		{"same year continues", 2025, 13, 2025, 13, 14},
		{"first allocation of a year", 2025, 1, 2025, 1, 2},
		{"year rollover resets to one", 2024, 87, 2025, 1, 2},
		{"several years skipped still resets", 2022, 5, 2025, 1, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq, next := domain.NextSequence(tc.storedYear, tc.storedNext, tc.year)
			assert.Equal(t, tc.expectedSeq, seq)
			assert.Equal(t, tc.expectedNext, next)
		})
	}
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "2025-0001", domain.FormatInvoiceNumber(2025, 1))
	assert.Equal(t, "2025-0042", domain.FormatInvoiceNumber(2025, 42))
	assert.Equal(t, "2025-12345", domain.FormatInvoiceNumber(2025, 12345))
	assert.Equal(t, "AV-2025-0007", domain.FormatCreditNoteNumber(2025, 7))
}
