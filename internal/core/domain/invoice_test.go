package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

func TestConsumedRecords(t *testing.T) {
	expenseID := "x1"
	inv := domain.Invoice{
		Lines: []domain.InvoiceLine{
			{EntryIDs: []string{"e1", "e2"}},
			{EntryIDs: []string{"e2", "e3"}}, // e2 shared, must not duplicate
			{ExpenseID: &expenseID},
		},
	}

	entryIDs, expenseIDs, hasUntracked := inv.ConsumedRecords()

	assert.Equal(t, []string{"e1", "e2", "e3"}, entryIDs)
	assert.Equal(t, []string{"x1"}, expenseIDs)
	assert.False(t, hasUntracked)
}

func TestConsumedRecordsFlagsUntrackedLines(t *testing.T) {
	inv := domain.Invoice{
		Lines: []domain.InvoiceLine{
			{EntryIDs: []string{"e1"}},
			{Label: "Legacy line"},
		},
	}

	entryIDs, expenseIDs, hasUntracked := inv.ConsumedRecords()

	assert.Equal(t, []string{"e1"}, entryIDs)
	assert.Empty(t, expenseIDs)
	assert.True(t, hasUntracked)
}
