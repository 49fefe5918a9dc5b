package mortgage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestCalculateStandardScenario(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	b, err := calc.Calculate(Inputs{
		HomePrice:          500_000,
		DownPaymentPercent: fp(20),
		LoanTermYears:      30,
		InterestRate:       6.5,
		IncludePMI:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, 100_000.0, b.DownPayment)
	assert.Equal(t, 400_000.0, b.LoanAmount)
	assert.InDelta(t, 2528.27, b.MonthlyPrincipalInterest, 0.005)
	assert.Zero(t, b.MonthlyPMI, "20%% down must not carry PMI")

	// Estimated tax and insurance from the default rates.
	assert.InDelta(t, 500_000*0.011/12, b.MonthlyPropertyTax, 1e-9)
	assert.InDelta(t, 500_000*0.0035/12, b.MonthlyInsurance, 1e-9)
}

func TestCalculateZeroInterestIsExact(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	b, err := calc.Calculate(Inputs{
		HomePrice:         120_000,
		DownPayment:       fp(0),
		LoanTermYears:     10,
		InterestRate:      0,
		AnnualPropertyTax: fp(0),
		AnnualInsurance:   fp(0),
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, b.MonthlyPrincipalInterest)
	assert.Zero(t, b.TotalInterest)
}

func TestTotalInterestIdentity(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	cases := []Inputs{
		{HomePrice: 350_000, DownPaymentPercent: fp(10), LoanTermYears: 15, InterestRate: 5.25, IncludePMI: true},
		{HomePrice: 750_000, DownPayment: fp(200_000), LoanTermYears: 30, InterestRate: 7.1},
		{HomePrice: 90_000, DownPaymentPercent: fp(0), LoanTermYears: 20, InterestRate: 0},
	}
	for _, in := range cases {
		b, err := calc.Calculate(in)
		require.NoError(t, err)
		months := float64(in.LoanTermYears) * 12
		assert.InDelta(t, b.MonthlyPrincipalInterest*months-b.LoanAmount, b.TotalInterest, 1e-6)
		assert.GreaterOrEqual(t, b.TotalInterest, -1e-9)
	}
}

func TestPMIThreshold(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	t.Run("below 20 percent carries PMI", func(t *testing.T) {
		b, err := calc.Calculate(Inputs{
			HomePrice:          400_000,
			DownPaymentPercent: fp(10),
			LoanTermYears:      30,
			InterestRate:       6.5,
			IncludePMI:         true,
		})
		require.NoError(t, err)
		assert.InDelta(t, 360_000*0.007/12, b.MonthlyPMI, 1e-9)
	})

	t.Run("toggle off zeroes PMI", func(t *testing.T) {
		b, err := calc.Calculate(Inputs{
			HomePrice:          400_000,
			DownPaymentPercent: fp(10),
			LoanTermYears:      30,
			InterestRate:       6.5,
			IncludePMI:         false,
		})
		require.NoError(t, err)
		assert.Zero(t, b.MonthlyPMI)
	})

	t.Run("cutoff uses resolved down payment", func(t *testing.T) {
		// Exactly at the boundary: 20% resolved ratio carries no PMI.
		b, err := calc.Calculate(Inputs{
			HomePrice:     500_000,
			DownPayment:   fp(100_000),
			LoanTermYears: 30,
			InterestRate:  6.5,
			IncludePMI:    true,
		})
		require.NoError(t, err)
		assert.Zero(t, b.MonthlyPMI)
	})
}

func TestDownPaymentResolution(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	t.Run("percent resolves to amount", func(t *testing.T) {
		b, err := calc.Calculate(Inputs{HomePrice: 500_000, DownPaymentPercent: fp(20), LoanTermYears: 30, InterestRate: 6.5})
		require.NoError(t, err)
		assert.Equal(t, 100_000.0, b.DownPayment)
		assert.Equal(t, 400_000.0, b.LoanAmount)
		assert.InDelta(t, 20.0, b.DownPaymentPercent, 1e-9)
	})

	t.Run("amount takes precedence over conflicting percent", func(t *testing.T) {
		b, err := calc.Calculate(Inputs{
			HomePrice:          500_000,
			DownPayment:        fp(50_000),
			DownPaymentPercent: fp(20), // disagrees; amount wins
			LoanTermYears:      30,
			InterestRate:       6.5,
		})
		require.NoError(t, err)
		assert.Equal(t, 50_000.0, b.DownPayment)
		assert.InDelta(t, 10.0, b.DownPaymentPercent, 1e-9)
	})

	t.Run("neither supplied defaults to 20 percent", func(t *testing.T) {
		b, err := calc.Calculate(Inputs{HomePrice: 500_000, LoanTermYears: 30, InterestRate: 6.5})
		require.NoError(t, err)
		assert.Equal(t, 100_000.0, b.DownPayment)
	})
}

func TestCalculateInvalidInputs(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	cases := map[string]Inputs{
		"zero home price":        {HomePrice: 0, LoanTermYears: 30, InterestRate: 6.5},
		"negative home price":    {HomePrice: -1, LoanTermYears: 30, InterestRate: 6.5},
		"zero term":              {HomePrice: 500_000, LoanTermYears: 0, InterestRate: 6.5},
		"negative rate":          {HomePrice: 500_000, LoanTermYears: 30, InterestRate: -0.5},
		"down payment too large": {HomePrice: 500_000, DownPayment: fp(600_000), LoanTermYears: 30, InterestRate: 6.5},
		"negative down payment":  {HomePrice: 500_000, DownPayment: fp(-1), LoanTermYears: 30, InterestRate: 6.5},
		"percent above 100":      {HomePrice: 500_000, DownPaymentPercent: fp(120), LoanTermYears: 30, InterestRate: 6.5},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := calc.Calculate(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestHOAFlowsIntoTotals(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	b, err := calc.Calculate(Inputs{
		HomePrice:          300_000,
		DownPaymentPercent: fp(20),
		LoanTermYears:      30,
		InterestRate:       6.0,
		MonthlyHOA:         250,
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, b.MonthlyHOA)

	months := float64(b.LoanTermYears) * 12
	extras := (b.MonthlyPropertyTax + b.MonthlyInsurance + b.MonthlyPMI + b.MonthlyHOA) * months
	assert.InDelta(t, b.HomePrice+b.TotalInterest+extras, b.TotalCost, 1e-6)
}

func TestRoundedOnlyAtPresentation(t *testing.T) {
	calc := NewCalculator(DefaultRates)

	b, err := calc.Calculate(Inputs{HomePrice: 500_000, DownPaymentPercent: fp(20), LoanTermYears: 30, InterestRate: 6.5})
	require.NoError(t, err)

	r := b.Rounded()
	assert.InDelta(t, 2528.27, r.MonthlyPrincipalInterest, 1e-9)
	// The raw breakdown keeps full precision.
	assert.NotEqual(t, r.MonthlyPrincipalInterest, b.MonthlyPrincipalInterest)
}
