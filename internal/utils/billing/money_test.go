package billing_test

import (
	"testing"

	"github.com/cabinetlib/practice_mgmt_app/internal/utils/billing"
	"github.com/stretchr/testify/assert"
)

func TestRoundMinutes(t *testing.T) {
	testCases := []struct {
		name     string
		input    int64
		expected int64
	}{
		{"zero rounds to minimum block", 0, 15},
		{"negative rounds to minimum block", -30, 15},
		{"one minute", 1, 15},
		{"exact quarter stays", 15, 15},
		{"sixteen rounds up", 16, 30},
		{"exact hour stays", 60, 60},
		{"just over an hour", 61, 75},
		{"ninety", 90, 90},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, billing.RoundMinutes(tc.input))
		})
	}
}

func TestRoundMinutesIsIdempotent(t *testing.T) {
	for m := int64(-10); m <= 300; m++ {
		once := billing.RoundMinutes(m)
		assert.Equal(t, once, billing.RoundMinutes(once), "minutes=%d", m)
	}
}

func TestVATFromHT(t *testing.T) {
	testCases := []struct {
		name     string
		ht, rate int64
		vat, ttc int64
	}{
		{"flat fee at 20 percent", 500000, 20, 100000, 600000},
		{"zero rate", 500000, 0, 0, 500000},
		{"rounds half up", 5, 20, 1, 6}, // 5*0.20 = 1.0
		{"odd cents", 999, 20, 200, 1199},
		{"exact division", 1250, 20, 250, 1500},
		{"forces rounding", 333, 20, 67, 400}, // 66.6 -> 67
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vat, ttc := billing.VATFromHT(tc.ht, tc.rate)
			assert.Equal(t, tc.vat, vat)
			assert.Equal(t, tc.ttc, ttc)
		})
	}
}

func TestSplitTTC(t *testing.T) {
	testCases := []struct {
		name      string
		ttc, rate int64
	}{
		{"round trip at 20 percent", 600000, 20},
		{"awkward amount", 1234567, 20},
		{"tiny amount", 1, 20},
		{"zero rate", 4200, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ht, vat := billing.SplitTTC(tc.ttc, tc.rate)
			// The split must reconstruct the TTC exactly, whatever the rounding.
			assert.Equal(t, tc.ttc, ht+vat)
			if tc.rate == 0 {
				assert.Equal(t, tc.ttc, ht)
				assert.Zero(t, vat)
			}
		})
	}

	t.Run("known value", func(t *testing.T) {
		ht, vat := billing.SplitTTC(600000, 20)
		assert.Equal(t, int64(500000), ht)
		assert.Equal(t, int64(100000), vat)
	})
}

func TestAmountForTime(t *testing.T) {
	// 135 minutes at 160.00/h -> 360.00
	assert.Equal(t, int64(36000), billing.AmountForTime(135, 16000))
	// 90 minutes at 180.00/h -> 270.00
	assert.Equal(t, int64(27000), billing.AmountForTime(90, 18000))
	// 15 minutes at 100.01/h -> round(2500.25) = 2500
	assert.Equal(t, int64(2500), billing.AmountForTime(15, 10001))
	// 45 minutes at 100.01/h -> round(7500.75) = 7501
	assert.Equal(t, int64(7501), billing.AmountForTime(45, 10001))
	assert.Zero(t, billing.AmountForTime(0, 16000))
}

func TestWeightedAverageRate(t *testing.T) {
	t.Run("weighted average known value", func(t *testing.T) {
		// 90 min @ 180.00 and 45 min @ 120.00 -> avg 160.00
		avg := billing.WeightedAverageRate([]int64{90, 45}, []int64{18000, 12000})
		assert.Equal(t, int64(16000), avg)
	})

	t.Run("single entry returns its rate", func(t *testing.T) {
		assert.Equal(t, int64(25000), billing.WeightedAverageRate([]int64{30}, []int64{25000}))
	})

	t.Run("no minutes", func(t *testing.T) {
		assert.Zero(t, billing.WeightedAverageRate(nil, nil))
	})
}

func TestApplyRatio(t *testing.T) {
	// partial credit: 100000 * 30000/120000 = 25000
	assert.Equal(t, int64(25000), billing.ApplyRatio(100000, 30000, 120000))
	assert.Equal(t, int64(5000), billing.ApplyRatio(20000, 30000, 120000))
	// rounding: 100 * 1/3 = 33.33 -> 33
	assert.Equal(t, int64(33), billing.ApplyRatio(100, 1, 3))
	// rounding up: 100 * 2/3 = 66.67 -> 67
	assert.Equal(t, int64(67), billing.ApplyRatio(100, 2, 3))
	assert.Zero(t, billing.ApplyRatio(100, 1, 0))
}
