package payrolltax

import (
	"github.com/shopspring/decimal"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// Validation errors returned by the calculator
var (
	ErrInvalidTaxCode     = shared.NewDomainError("INVALID_TAX_CODE", "Tax code is not a recognised HMRC code")
	ErrInvalidNICategory  = shared.NewDomainError("INVALID_NI_CATEGORY", "National Insurance category letter is not supported")
	ErrInvalidFrequency   = shared.NewDomainError("INVALID_PAY_FREQUENCY", "Pay frequency must be monthly or weekly")
	ErrNegativeGrossPay   = shared.NewDomainError("NEGATIVE_GROSS_PAY", "Gross pay cannot be negative")
	ErrInvalidPensionRate = shared.NewDomainError("INVALID_PENSION_RATE", "Pension contribution rate must be between 0 and 1")
	ErrUnknownLoanPlan    = shared.NewDomainError("UNKNOWN_LOAN_PLAN", "Student loan plan is not recognised")
)

// two is the rounding scale for pounds-and-pence amounts
const penceScale = 2

// Input describes one employee pay period for calculation
type Input struct {
	GrossPay            decimal.Decimal
	Frequency           PayFrequency
	TaxCode             string
	NICategory          NICategory
	PensionOptOut       bool
	PensionRate         decimal.Decimal // employee rate on qualifying earnings; zero means scheme default
	EmployerPensionRate decimal.Decimal // zero means scheme default
	StudentLoanPlan     StudentLoanPlan
}

// Breakdown is the full deduction breakdown for one pay period
type Breakdown struct {
	GrossPay        decimal.Decimal `json:"gross_pay"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	EmployeeNI      decimal.Decimal `json:"employee_ni"`
	EmployerNI      decimal.Decimal `json:"employer_ni"`
	EmployeePension decimal.Decimal `json:"employee_pension"`
	EmployerPension decimal.Decimal `json:"employer_pension"`
	StudentLoan     decimal.Decimal `json:"student_loan"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

// TotalDeductions returns the sum of all employee-side deductions
func (b Breakdown) TotalDeductions() decimal.Decimal {
	return b.IncomeTax.Add(b.EmployeeNI).Add(b.EmployeePension).Add(b.StudentLoan)
}

// Scheme default auto-enrolment contribution rates
var (
	defaultEmployeePensionRate = decimal.NewFromFloat(0.05)
	defaultEmployerPensionRate = decimal.NewFromFloat(0.03)
	one                        = decimal.NewFromInt(1)
	two                        = decimal.NewFromInt(2)
	half                       = decimal.NewFromFloat(0.5)
)

// Calculator computes statutory deductions for a single pay period.
// It is stateless; the same input always yields the same breakdown.
type Calculator struct {
	year *TaxYear
}

// NewCalculator creates a calculator for the given tax year tables
func NewCalculator(year *TaxYear) *Calculator {
	return &Calculator{year: year}
}

// Calculate computes the full deduction breakdown for one pay period
func (c *Calculator) Calculate(in Input) (Breakdown, error) {
	if in.GrossPay.IsNegative() {
		return Breakdown{}, ErrNegativeGrossPay
	}
	if !in.Frequency.Valid() {
		return Breakdown{}, ErrInvalidFrequency
	}
	if !in.NICategory.Valid() {
		return Breakdown{}, ErrInvalidNICategory
	}
	if in.PensionRate.IsNegative() || in.PensionRate.GreaterThan(one) ||
		in.EmployerPensionRate.IsNegative() || in.EmployerPensionRate.GreaterThan(one) {
		return Breakdown{}, ErrInvalidPensionRate
	}

	taxCode, err := ParseTaxCode(in.TaxCode)
	if err != nil {
		return Breakdown{}, err
	}

	tax := c.incomeTax(in.GrossPay, taxCode, in.Frequency)
	employeeNI, employerNI := c.nationalInsurance(in.GrossPay, in.NICategory, in.Frequency)

	var employeePension, employerPension decimal.Decimal
	if !in.PensionOptOut {
		employeePension, employerPension = c.pension(in.GrossPay, in.PensionRate, in.EmployerPensionRate, in.Frequency)
	}

	studentLoan, err := c.studentLoan(in.GrossPay, in.StudentLoanPlan, in.Frequency)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		GrossPay:        in.GrossPay.Round(penceScale),
		IncomeTax:       tax,
		EmployeeNI:      employeeNI,
		EmployerNI:      employerNI,
		EmployeePension: employeePension,
		EmployerPension: employerPension,
		StudentLoan:     studentLoan,
	}
	b.NetPay = b.GrossPay.Sub(b.TotalDeductions())
	return b, nil
}

// incomeTax applies the parsed tax code and the marginal rate bands to the
// period's pay. Flat-rate codes bypass the bands entirely.
func (c *Calculator) incomeTax(gross decimal.Decimal, code TaxCode, freq PayFrequency) decimal.Decimal {
	switch code.Kind {
	case TaxCodeNT:
		return decimal.Zero
	case TaxCodeBR:
		return gross.Mul(c.year.BasicRate).RoundDown(penceScale)
	case TaxCodeD0:
		return gross.Mul(c.year.HigherRate).RoundDown(penceScale)
	case TaxCodeD1:
		return gross.Mul(c.year.AdditionalRate).RoundDown(penceScale)
	}

	taxable := gross
	switch code.Kind {
	case TaxCodeStandard:
		allowance := c.periodAllowance(gross, code.Allowance, freq)
		taxable = gross.Sub(allowance)
	case TaxCodeK:
		// K codes add notional pay instead of granting an allowance
		taxable = gross.Add(perPeriod(code.Allowance, freq))
	case TaxCodeZeroT:
		// no allowance, bands apply from the first pound
	}

	if !taxable.IsPositive() {
		return decimal.Zero
	}

	tax := c.bandedTax(taxable, freq)

	// K codes carry an overriding limit: the deduction cannot exceed half of
	// the actual pay received in the period.
	if code.Kind == TaxCodeK {
		limit := gross.Mul(half).RoundDown(penceScale)
		if tax.GreaterThan(limit) {
			tax = limit
		}
	}
	return tax
}

// periodAllowance returns the per-period tax-free amount, applying the
// taper for annualised income above the taper threshold.
func (c *Calculator) periodAllowance(gross, annualAllowance decimal.Decimal, freq PayFrequency) decimal.Decimal {
	periods := freq.PeriodsPerYear()
	annualised := gross.Mul(periods)
	if annualised.GreaterThan(c.year.TaperThreshold) {
		// allowance shrinks by £1 for every £2 of income over the threshold
		reduction := annualised.Sub(c.year.TaperThreshold).Div(two)
		annualAllowance = annualAllowance.Sub(reduction)
		if annualAllowance.IsNegative() {
			annualAllowance = decimal.Zero
		}
	}
	return annualAllowance.Div(periods)
}

// bandedTax applies the three marginal rate bands to taxable pay
func (c *Calculator) bandedTax(taxable decimal.Decimal, freq PayFrequency) decimal.Decimal {
	basicBand := perPeriod(c.year.BasicRateBand, freq)
	// the higher band spans from the top of the basic band to the higher
	// rate limit less the standard allowance
	higherTop := perPeriod(c.year.HigherRateLimit.Sub(c.year.PersonalAllowance), freq)

	tax := decimal.Zero
	if taxable.GreaterThan(higherTop) {
		tax = tax.Add(taxable.Sub(higherTop).Mul(c.year.AdditionalRate))
		taxable = higherTop
	}
	if taxable.GreaterThan(basicBand) {
		tax = tax.Add(taxable.Sub(basicBand).Mul(c.year.HigherRate))
		taxable = basicBand
	}
	tax = tax.Add(taxable.Mul(c.year.BasicRate))
	return tax.RoundDown(penceScale)
}

// nationalInsurance computes employee and employer contributions for the
// period under the given category letter.
func (c *Calculator) nationalInsurance(gross decimal.Decimal, category NICategory, freq PayFrequency) (decimal.Decimal, decimal.Decimal) {
	if category == NICategoryX {
		return decimal.Zero, decimal.Zero
	}

	pt := perPeriod(c.year.PrimaryThreshold, freq)
	uel := perPeriod(c.year.UpperEarningsLimit, freq)
	st := perPeriod(c.year.SecondaryThreshold, freq)

	var employee decimal.Decimal
	mainRate := c.year.EmployeeMainRate
	upperRate := c.year.EmployeeUpperRate

	switch category {
	case NICategoryC:
		// over state pension age: no employee contributions
	case NICategoryB:
		employee = bandContribution(gross, pt, uel, c.year.ReducedMainRate, upperRate)
	case NICategoryJ:
		// deferred: upper rate on all earnings above the primary threshold
		if gross.GreaterThan(pt) {
			employee = gross.Sub(pt).Mul(upperRate)
		}
	default:
		employee = bandContribution(gross, pt, uel, mainRate, upperRate)
	}

	var employer decimal.Decimal
	switch category {
	case NICategoryH, NICategoryM:
		// employer relief up to the UEL for apprentices and under-21s
		if gross.GreaterThan(uel) {
			employer = gross.Sub(uel).Mul(c.year.EmployerRate)
		}
	default:
		if gross.GreaterThan(st) {
			employer = gross.Sub(st).Mul(c.year.EmployerRate)
		}
	}

	return employee.Round(penceScale), employer.Round(penceScale)
}

// bandContribution applies mainRate between lower and upper and upperRate
// above upper.
func bandContribution(gross, lower, upper, mainRate, upperRate decimal.Decimal) decimal.Decimal {
	if !gross.GreaterThan(lower) {
		return decimal.Zero
	}
	if gross.GreaterThan(upper) {
		main := upper.Sub(lower).Mul(mainRate)
		extra := gross.Sub(upper).Mul(upperRate)
		return main.Add(extra)
	}
	return gross.Sub(lower).Mul(mainRate)
}

// pension computes auto-enrolment contributions on the qualifying earnings band
func (c *Calculator) pension(gross, employeeRate, employerRate decimal.Decimal, freq PayFrequency) (decimal.Decimal, decimal.Decimal) {
	if employeeRate.IsZero() {
		employeeRate = defaultEmployeePensionRate
	}
	if employerRate.IsZero() {
		employerRate = defaultEmployerPensionRate
	}

	lower := perPeriod(c.year.PensionLowerEarnings, freq)
	upper := perPeriod(c.year.PensionUpperEarnings, freq)

	if !gross.GreaterThan(lower) {
		return decimal.Zero, decimal.Zero
	}
	qualifying := gross.Sub(lower)
	if gross.GreaterThan(upper) {
		qualifying = upper.Sub(lower)
	}

	return qualifying.Mul(employeeRate).Round(penceScale),
		qualifying.Mul(employerRate).Round(penceScale)
}

// studentLoan computes the flat-rate deduction above the plan threshold.
// HMRC rounds the deduction down to whole pounds.
func (c *Calculator) studentLoan(gross decimal.Decimal, plan StudentLoanPlan, freq PayFrequency) (decimal.Decimal, error) {
	if plan == StudentLoanNone {
		return decimal.Zero, nil
	}
	threshold, ok := c.year.StudentLoanThresholds[plan]
	if !ok {
		return decimal.Zero, ErrUnknownLoanPlan
	}

	periodThreshold := perPeriod(threshold, freq)
	if !gross.GreaterThan(periodThreshold) {
		return decimal.Zero, nil
	}

	rate := c.year.StudentLoanRate
	if plan == StudentLoanPostgrad {
		rate = c.year.PostgradLoanRate
	}
	return gross.Sub(periodThreshold).Mul(rate).RoundDown(0), nil
}
