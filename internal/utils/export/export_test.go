package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/export"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.00", export.FormatCents(0))
	assert.Equal(t, "0.05", export.FormatCents(5))
	assert.Equal(t, "1234.56", export.FormatCents(123456))
	assert.Equal(t, "10.00", export.FormatCents(1000))
	assert.Equal(t, "-42.50", export.FormatCents(-4250))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0.00", export.FormatMinutes(0))
	assert.Equal(t, "2.25", export.FormatMinutes(135))
	assert.Equal(t, "1.00", export.FormatMinutes(60))
	assert.Equal(t, "0.75", export.FormatMinutes(45))
	assert.Equal(t, "-1.50", export.FormatMinutes(-90))
}

func TestWIPAgingTable(t *testing.T) {
	rows := []domain.WIPAgingRow{
		{
			CollaboratorName: "Alice",
			ClientName:       "Acme",
			MatterLabel:      "Dispute",
			BucketMinutes:    [domain.WIPBucketCount]int64{60, 0, 90, 0, 0},
			TotalMinutes:     150,
		},
	}

	table := export.WIPAgingTable(rows)

	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Header, 3+domain.WIPBucketCount+1)
	assert.Equal(t, []string{"Alice", "Acme", "Dispute", "1.00", "0.00", "1.50", "0.00", "0.00", "2.50"}, table.Rows[0])
}

func TestInvoiceAgingTableAppendsTotals(t *testing.T) {
	report := domain.InvoiceAgingReport{
		Rows: []domain.InvoiceAgingRow{
			{
				Number:          "2025-0001",
				ClientName:      "Acme",
				MatterLabel:     "Dispute",
				IssueDate:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				DaysOutstanding: 95,
				Bucket:          3,
				TTCCents:        120000,
			},
		},
		TotalTTC: 120000,
	}

	table := export.InvoiceAgingTable(report)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2025-0001", "Acme", "Dispute", "2025-02-01", "95", ">90d", "1200.00"}, table.Rows[0])
	assert.Equal(t, "Total", table.Rows[1][0])
	assert.Equal(t, "1200.00", table.Rows[1][len(table.Rows[1])-1])
}

func TestKPITable(t *testing.T) {
	rows := []domain.KPIRow{
		{
			ClientName:       "Acme",
			BillableMinutes:  120,
			BillableHTCents:  30000,
			InvoicedHTCents:  70000,
			CollectedHTCents: 50000,
		},
	}

	table := export.KPITable(rows)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"", "Acme", "", "2.00", "300.00", "700.00", "500.00"}, table.Rows[0])
}

func TestWriteCSV(t *testing.T) {
	table := export.Table{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1;x", "needs \"quoting\""}, {"2", "plain"}},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, table, ';'))

	got := buf.String()
	assert.Equal(t, "a;b\n\"1;x\";\"needs \"\"quoting\"\"\"\n2;plain\n", got)
}

func TestWriteCSVDefaultDelimiter(t *testing.T) {
	table := export.Table{
		Header: []string{"a", "b"},
		Rows:   [][]string{{"1", "2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, table, 0))

	assert.Equal(t, "a,b\n1,2\n", buf.String())
}
