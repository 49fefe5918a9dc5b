// Package mortgage computes amortized payment breakdowns. It is pure
// computation: no network, no I/O, no shared state.
package mortgage

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks caller mistakes: non-positive price or term, negative
// rate, or a down payment outside [0, home price]. Test with errors.Is.
var ErrInvalidInput = errors.New("mortgage: invalid input")

// Rates are the estimation rates applied when optional inputs are absent.
// They are provider/region-specific averages, kept configurable rather than
// hardcoded.
type Rates struct {
	PropertyTax float64 // annual, as a fraction of home price
	Insurance   float64 // annual, as a fraction of home price
	PMI         float64 // annual, as a fraction of loan amount
}

// DefaultRates are US-wide averages: 1.1% property tax, 0.35% insurance,
// 0.7% PMI.
var DefaultRates = Rates{
	PropertyTax: 0.011,
	Insurance:   0.0035,
	PMI:         0.007,
}

const pmiCutoffRatio = 0.20

// Inputs are the loan parameters. Nil optional fields take the documented
// defaults. When both DownPayment and DownPaymentPercent are supplied and
// disagree, the amount takes precedence and the percent is recomputed from
// it; this is deliberate policy, not a silent override.
type Inputs struct {
	HomePrice          float64
	DownPayment        *float64
	DownPaymentPercent *float64
	LoanTermYears      int     // defaulted to 30 by callers
	InterestRate       float64 // annual percent
	AnnualPropertyTax  *float64
	AnnualInsurance    *float64
	MonthlyHOA         float64
	IncludePMI         bool
}

// Breakdown is the full payment decomposition. Values keep full precision;
// round only at presentation via Rounded.
type Breakdown struct {
	HomePrice          float64 `json:"home_price"`
	DownPayment        float64 `json:"down_payment"`
	DownPaymentPercent float64 `json:"down_payment_percent"`
	LoanAmount         float64 `json:"loan_amount"`
	LoanTermYears      int     `json:"loan_term_years"`
	InterestRate       float64 `json:"interest_rate"`

	MonthlyPrincipalInterest float64 `json:"monthly_principal_interest"`
	MonthlyPropertyTax       float64 `json:"monthly_property_tax"`
	MonthlyInsurance         float64 `json:"monthly_homeowners_insurance"`
	MonthlyPMI               float64 `json:"monthly_pmi"`
	MonthlyHOA               float64 `json:"monthly_hoa"`
	MonthlyPayment           float64 `json:"monthly_payment"`

	TotalInterest float64 `json:"total_interest_paid"`
	TotalCost     float64 `json:"total_cost"`
}

// Rounded returns a presentation copy with every dollar figure rounded to
// currency precision and the percent to two decimals.
func (b Breakdown) Rounded() Breakdown {
	b.DownPaymentPercent = round2(b.DownPaymentPercent)
	b.MonthlyPrincipalInterest = round2(b.MonthlyPrincipalInterest)
	b.MonthlyPropertyTax = round2(b.MonthlyPropertyTax)
	b.MonthlyInsurance = round2(b.MonthlyInsurance)
	b.MonthlyPMI = round2(b.MonthlyPMI)
	b.MonthlyHOA = round2(b.MonthlyHOA)
	b.MonthlyPayment = round2(b.MonthlyPayment)
	b.TotalInterest = round2(b.TotalInterest)
	b.TotalCost = round2(b.TotalCost)
	return b
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Calculator applies one set of estimation rates. The zero value is not
// usable; construct with NewCalculator.
type Calculator struct {
	rates Rates
}

func NewCalculator(r Rates) *Calculator {
	if r.PropertyTax <= 0 {
		r.PropertyTax = DefaultRates.PropertyTax
	}
	if r.Insurance <= 0 {
		r.Insurance = DefaultRates.Insurance
	}
	if r.PMI <= 0 {
		r.PMI = DefaultRates.PMI
	}
	return &Calculator{rates: r}
}

// Calculate produces the full breakdown for one set of inputs.
func (c *Calculator) Calculate(in Inputs) (Breakdown, error) {
	if in.HomePrice <= 0 {
		return Breakdown{}, fmt.Errorf("%w: home price must be positive", ErrInvalidInput)
	}
	if in.LoanTermYears <= 0 {
		return Breakdown{}, fmt.Errorf("%w: loan term must be positive", ErrInvalidInput)
	}
	if in.InterestRate < 0 {
		return Breakdown{}, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}

	downPayment, err := resolveDownPayment(in)
	if err != nil {
		return Breakdown{}, err
	}
	downPercent := downPayment / in.HomePrice * 100

	loanAmount := in.HomePrice - downPayment
	months := float64(in.LoanTermYears) * 12
	monthlyRate := in.InterestRate / 100 / 12

	// Level-payment amortization; the zero-rate case is handled explicitly.
	var principalInterest float64
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, months)
		principalInterest = loanAmount * monthlyRate * factor / (factor - 1)
	} else {
		principalInterest = loanAmount / months
	}

	tax := c.rates.PropertyTax * in.HomePrice
	if in.AnnualPropertyTax != nil {
		tax = *in.AnnualPropertyTax
	}
	insurance := c.rates.Insurance * in.HomePrice
	if in.AnnualInsurance != nil {
		insurance = *in.AnnualInsurance
	}

	// The PMI cutoff uses the resolved down payment, not the raw input
	// percent, so rounding cannot misclassify a loan at the boundary.
	var pmi float64
	if in.IncludePMI && downPayment/in.HomePrice < pmiCutoffRatio {
		pmi = loanAmount * c.rates.PMI / 12
	}

	monthlyTax := tax / 12
	monthlyInsurance := insurance / 12
	monthlyPayment := principalInterest + monthlyTax + monthlyInsurance + pmi + in.MonthlyHOA

	totalInterest := principalInterest*months - loanAmount
	extras := (monthlyTax + monthlyInsurance + pmi + in.MonthlyHOA) * months

	return Breakdown{
		HomePrice:                in.HomePrice,
		DownPayment:              downPayment,
		DownPaymentPercent:       downPercent,
		LoanAmount:               loanAmount,
		LoanTermYears:            in.LoanTermYears,
		InterestRate:             in.InterestRate,
		MonthlyPrincipalInterest: principalInterest,
		MonthlyPropertyTax:       monthlyTax,
		MonthlyInsurance:         monthlyInsurance,
		MonthlyPMI:               pmi,
		MonthlyHOA:               in.MonthlyHOA,
		MonthlyPayment:           monthlyPayment,
		TotalInterest:            totalInterest,
		TotalCost:                in.HomePrice + totalInterest + extras,
	}, nil
}

// resolveDownPayment applies the precedence policy: an explicit amount wins,
// then an explicit percent, then the 20% default.
func resolveDownPayment(in Inputs) (float64, error) {
	var down float64
	switch {
	case in.DownPayment != nil:
		down = *in.DownPayment
	case in.DownPaymentPercent != nil:
		if *in.DownPaymentPercent < 0 || *in.DownPaymentPercent > 100 {
			return 0, fmt.Errorf("%w: down payment percent must be in [0, 100]", ErrInvalidInput)
		}
		down = math.Round(in.HomePrice * *in.DownPaymentPercent / 100)
	default:
		down = math.Round(in.HomePrice * pmiCutoffRatio)
	}
	if down < 0 || down > in.HomePrice {
		return 0, fmt.Errorf("%w: down payment must be in [0, home price]", ErrInvalidInput)
	}
	return down, nil
}
