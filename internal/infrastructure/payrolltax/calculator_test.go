package payrolltax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestCalculator() *Calculator {
	return NewCalculator(TaxYear2025())
}

// Reference case from published 2025/26 tables: £3,000/month, 1257L, category A.
func TestCalculateMonthlyReferenceCase(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:      money("3000"),
		Frequency:     FrequencyMonthly,
		TaxCode:       "1257L",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "390.5", b.IncomeTax.String())
	assert.Equal(t, "156.2", b.EmployeeNI.String())
	assert.Equal(t, "387.5", b.EmployerNI.String())
	assert.True(t, b.EmployeePension.IsZero())
	assert.True(t, b.StudentLoan.IsZero())
	assert.Equal(t, "2453.3", b.NetPay.String())
}

func TestCalculateWithPensionAndStudentLoan(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:        money("3000"),
		Frequency:       FrequencyMonthly,
		TaxCode:         "1257L",
		NICategory:      NICategoryA,
		StudentLoanPlan: StudentLoanPlan2,
	})
	require.NoError(t, err)

	// qualifying earnings band £520-£4189.17/month at scheme default rates
	assert.Equal(t, "124", b.EmployeePension.String())
	assert.Equal(t, "74.4", b.EmployerPension.String())
	// (3000 - 28470/12) * 9%, floored to whole pounds
	assert.Equal(t, "56", b.StudentLoan.String())

	expectedNet := money("3000").Sub(b.IncomeTax).Sub(b.EmployeeNI).Sub(money("124")).Sub(money("56"))
	assert.True(t, b.NetPay.Equal(expectedNet))
}

func TestCalculateHigherRate(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:      money("6000"),
		Frequency:     FrequencyMonthly,
		TaxCode:       "1257L",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "1352.66", b.IncomeTax.String())
	assert.Equal(t, "287.55", b.EmployeeNI.String())
	assert.Equal(t, "837.5", b.EmployerNI.String())
}

func TestCalculateAdditionalRateWithFullTaper(t *testing.T) {
	calc := newTestCalculator()

	// £144,000/year: the personal allowance tapers to zero
	b, err := calc.Calculate(Input{
		GrossPay:      money("12000"),
		Frequency:     FrequencyMonthly,
		TaxCode:       "1257L",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "4302.62", b.IncomeTax.String())
}

func TestCalculateFlatRateCodes(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		code string
		want string
	}{
		{"BR", "400"},
		{"D0", "800"},
		{"D1", "900"},
		{"NT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			b, err := calc.Calculate(Input{
				GrossPay:      money("2000"),
				Frequency:     FrequencyMonthly,
				TaxCode:       tt.code,
				NICategory:    NICategoryA,
				PensionOptOut: true,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.IncomeTax.String())
		})
	}
}

func TestCalculateKCode(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:      money("1000"),
		Frequency:     FrequencyMonthly,
		TaxCode:       "K475",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)
	// taxable = 1000 + 4750/12, all basic rate
	assert.Equal(t, "279.16", b.IncomeTax.String())
}

func TestCalculateKCodeOverridingLimit(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:      money("500"),
		Frequency:     FrequencyMonthly,
		TaxCode:       "K2000",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)
	// deduction capped at 50% of pay actually received
	assert.Equal(t, "250", b.IncomeTax.String())
}

func TestCalculateWeekly(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:      money("600"),
		Frequency:     FrequencyWeekly,
		TaxCode:       "1257L",
		NICategory:    NICategoryA,
		PensionOptOut: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "71.65", b.IncomeTax.String())
	assert.Equal(t, "28.66", b.EmployeeNI.String())
}

func TestNationalInsuranceCategories(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name         string
		category     NICategory
		gross        string
		wantEmployee string
		wantEmployer string
	}{
		{"standard", NICategoryA, "3000", "156.2", "387.5"},
		{"reduced rate", NICategoryB, "3000", "36.12", "387.5"},
		{"pension age exempt", NICategoryC, "3000", "0", "387.5"},
		{"deferred", NICategoryJ, "3000", "39.05", "387.5"},
		{"under 21 below UEL", NICategoryM, "3000", "156.2", "0"},
		{"apprentice above UEL", NICategoryH, "6000", "287.55", "271.63"},
		{"no contributions", NICategoryX, "3000", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.Calculate(Input{
				GrossPay:      money(tt.gross),
				Frequency:     FrequencyMonthly,
				TaxCode:       "1257L",
				NICategory:    tt.category,
				PensionOptOut: true,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmployee, b.EmployeeNI.String(), "employee NI")
			assert.Equal(t, tt.wantEmployer, b.EmployerNI.String(), "employer NI")
		})
	}
}

func TestPensionBelowLowerEarnings(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:   money("500"),
		Frequency:  FrequencyMonthly,
		TaxCode:    "1257L",
		NICategory: NICategoryA,
	})
	require.NoError(t, err)
	assert.True(t, b.EmployeePension.IsZero())
	assert.True(t, b.EmployerPension.IsZero())
}

func TestPensionCappedAtUpperEarnings(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:   money("6000"),
		Frequency:  FrequencyMonthly,
		TaxCode:    "1257L",
		NICategory: NICategoryA,
	})
	require.NoError(t, err)
	// contributions stop at the upper qualifying earnings limit
	assert.Equal(t, "183.46", b.EmployeePension.String())
	assert.Equal(t, "110.08", b.EmployerPension.String())
}

func TestCalculateZeroGross(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Calculate(Input{
		GrossPay:   decimal.Zero,
		Frequency:  FrequencyMonthly,
		TaxCode:    "1257L",
		NICategory: NICategoryA,
	})
	require.NoError(t, err)
	assert.True(t, b.IncomeTax.IsZero())
	assert.True(t, b.EmployeeNI.IsZero())
	assert.True(t, b.NetPay.IsZero())
}

func TestCalculateInvalidInput(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Calculate(Input{
		GrossPay:   money("-1"),
		Frequency:  FrequencyMonthly,
		TaxCode:    "1257L",
		NICategory: NICategoryA,
	})
	assert.ErrorIs(t, err, ErrNegativeGrossPay)

	_, err = calc.Calculate(Input{
		GrossPay:   money("100"),
		Frequency:  "fortnightly",
		TaxCode:    "1257L",
		NICategory: NICategoryA,
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = calc.Calculate(Input{
		GrossPay:   money("100"),
		Frequency:  FrequencyMonthly,
		TaxCode:    "1257L",
		NICategory: "Q",
	})
	assert.ErrorIs(t, err, ErrInvalidNICategory)

	_, err = calc.Calculate(Input{
		GrossPay:   money("100"),
		Frequency:  FrequencyMonthly,
		TaxCode:    "WHAT",
		NICategory: NICategoryA,
	})
	assert.ErrorIs(t, err, ErrInvalidTaxCode)

	_, err = calc.Calculate(Input{
		GrossPay:    money("100"),
		Frequency:   FrequencyMonthly,
		TaxCode:     "1257L",
		NICategory:  NICategoryA,
		PensionRate: money("1.5"),
	})
	assert.ErrorIs(t, err, ErrInvalidPensionRate)
}

func TestCalculateDeterministic(t *testing.T) {
	calc := newTestCalculator()
	in := Input{
		GrossPay:        money("2875.44"),
		Frequency:       FrequencyMonthly,
		TaxCode:         "1257L",
		NICategory:      NICategoryA,
		StudentLoanPlan: StudentLoanPlan1,
	}

	first, err := calc.Calculate(in)
	require.NoError(t, err)
	second, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first.GrossPay.Equal(first.NetPay.Add(first.TotalDeductions())))
}
