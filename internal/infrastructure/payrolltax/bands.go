package payrolltax

import "github.com/shopspring/decimal"

// PayFrequency determines how annual thresholds are periodised
type PayFrequency string

const (
	FrequencyMonthly PayFrequency = "monthly"
	FrequencyWeekly  PayFrequency = "weekly"
)

// PeriodsPerYear returns the number of pay periods in a tax year
func (f PayFrequency) PeriodsPerYear() decimal.Decimal {
	if f == FrequencyWeekly {
		return decimal.NewFromInt(52)
	}
	return decimal.NewFromInt(12)
}

// Valid reports whether the frequency is a supported value
func (f PayFrequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyWeekly
}

// NICategory is the HMRC National Insurance category letter
type NICategory string

const (
	NICategoryA NICategory = "A" // standard
	NICategoryB NICategory = "B" // married women's reduced rate
	NICategoryC NICategory = "C" // over state pension age (employee exempt)
	NICategoryH NICategory = "H" // apprentice under 25 (employer relief to UEL)
	NICategoryJ NICategory = "J" // deferred (employee 2% throughout)
	NICategoryM NICategory = "M" // under 21 (employer relief to UEL)
	NICategoryX NICategory = "X" // no contributions
)

// Valid reports whether the category letter is supported
func (c NICategory) Valid() bool {
	switch c {
	case NICategoryA, NICategoryB, NICategoryC, NICategoryH, NICategoryJ, NICategoryM, NICategoryX:
		return true
	}
	return false
}

// StudentLoanPlan identifies the repayment plan for student loan deductions
type StudentLoanPlan string

const (
	StudentLoanNone     StudentLoanPlan = ""
	StudentLoanPlan1    StudentLoanPlan = "plan1"
	StudentLoanPlan2    StudentLoanPlan = "plan2"
	StudentLoanPlan4    StudentLoanPlan = "plan4"
	StudentLoanPlan5    StudentLoanPlan = "plan5"
	StudentLoanPostgrad StudentLoanPlan = "postgrad"
)

// TaxYear holds the annual thresholds and rates published by HMRC for one
// tax year. All threshold amounts are annual figures in pounds.
type TaxYear struct {
	Name string

	// Income tax (rest of UK rates)
	PersonalAllowance decimal.Decimal // standard personal allowance
	BasicRateBand     decimal.Decimal // width of the basic rate band above the allowance
	HigherRateLimit   decimal.Decimal // top of the higher rate band
	TaperThreshold    decimal.Decimal // adjusted net income where allowance tapering starts
	BasicRate         decimal.Decimal
	HigherRate        decimal.Decimal
	AdditionalRate    decimal.Decimal

	// National Insurance
	PrimaryThreshold   decimal.Decimal // employee contributions start (PT)
	UpperEarningsLimit decimal.Decimal // employee main rate stops (UEL)
	SecondaryThreshold decimal.Decimal // employer contributions start (ST)
	EmployeeMainRate   decimal.Decimal
	EmployeeUpperRate  decimal.Decimal
	ReducedMainRate    decimal.Decimal // category B main rate
	EmployerRate       decimal.Decimal

	// Auto-enrolment pension qualifying earnings band
	PensionLowerEarnings decimal.Decimal
	PensionUpperEarnings decimal.Decimal

	// Student loan annual thresholds and rates
	StudentLoanThresholds map[StudentLoanPlan]decimal.Decimal
	StudentLoanRate       decimal.Decimal // plans 1/2/4/5
	PostgradLoanRate      decimal.Decimal
}

// TaxYear2025 returns the 2025/26 tables
func TaxYear2025() *TaxYear {
	return &TaxYear{
		Name: "2025/26",

		PersonalAllowance: decimal.NewFromInt(12570),
		BasicRateBand:     decimal.NewFromInt(37700),
		HigherRateLimit:   decimal.NewFromInt(125140),
		TaperThreshold:    decimal.NewFromInt(100000),
		BasicRate:         decimal.NewFromFloat(0.20),
		HigherRate:        decimal.NewFromFloat(0.40),
		AdditionalRate:    decimal.NewFromFloat(0.45),

		PrimaryThreshold:   decimal.NewFromInt(12570),
		UpperEarningsLimit: decimal.NewFromInt(50270),
		SecondaryThreshold: decimal.NewFromInt(5000),
		EmployeeMainRate:   decimal.NewFromFloat(0.08),
		EmployeeUpperRate:  decimal.NewFromFloat(0.02),
		ReducedMainRate:    decimal.NewFromFloat(0.0185),
		EmployerRate:       decimal.NewFromFloat(0.15),

		PensionLowerEarnings: decimal.NewFromInt(6240),
		PensionUpperEarnings: decimal.NewFromInt(50270),

		StudentLoanThresholds: map[StudentLoanPlan]decimal.Decimal{
			StudentLoanPlan1:    decimal.NewFromInt(26065),
			StudentLoanPlan2:    decimal.NewFromInt(28470),
			StudentLoanPlan4:    decimal.NewFromInt(32745),
			StudentLoanPlan5:    decimal.NewFromInt(25000),
			StudentLoanPostgrad: decimal.NewFromInt(21000),
		},
		StudentLoanRate:  decimal.NewFromFloat(0.09),
		PostgradLoanRate: decimal.NewFromFloat(0.06),
	}
}

// perPeriod converts an annual threshold to a per-period amount
func perPeriod(annual decimal.Decimal, freq PayFrequency) decimal.Decimal {
	return annual.Div(freq.PeriodsPerYear())
}
