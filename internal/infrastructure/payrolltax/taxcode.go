package payrolltax

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxCodeKind classifies how a tax code affects the calculation
type TaxCodeKind int

const (
	// TaxCodeStandard is a numeric code with a suffix letter (1257L, 985M, ...)
	TaxCodeStandard TaxCodeKind = iota
	// TaxCodeK is a K code: the numeric part is added to taxable pay
	TaxCodeK
	// TaxCodeBR taxes all pay at the basic rate
	TaxCodeBR
	// TaxCodeD0 taxes all pay at the higher rate
	TaxCodeD0
	// TaxCodeD1 taxes all pay at the additional rate
	TaxCodeD1
	// TaxCodeNT applies no tax
	TaxCodeNT
	// TaxCodeZeroT applies the bands with no personal allowance
	TaxCodeZeroT
)

// TaxCode is a parsed HMRC tax code
type TaxCode struct {
	Raw  string
	Kind TaxCodeKind
	// Allowance is the annual tax-free allowance for standard codes, or the
	// annual addition to taxable pay for K codes.
	Allowance decimal.Decimal
	// Week1Month1 indicates non-cumulative operation (suffix "W1", "M1" or "X")
	Week1Month1 bool
}

var standardCodePattern = regexp.MustCompile(`^(\d{1,4})([LMNT])$`)
var kCodePattern = regexp.MustCompile(`^K(\d{1,4})$`)

// ParseTaxCode parses an HMRC tax code string. Codes are case-insensitive and
// may carry a week-1/month-1 marker, e.g. "1257L X" or "1257L M1".
func ParseTaxCode(raw string) (TaxCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return TaxCode{}, ErrInvalidTaxCode
	}

	tc := TaxCode{Raw: code}
	for _, marker := range []string{" W1", " M1", " X", "W1", "M1"} {
		if strings.HasSuffix(code, marker) && len(code) > len(marker) {
			tc.Week1Month1 = true
			code = strings.TrimSpace(strings.TrimSuffix(code, marker))
			break
		}
	}

	switch code {
	case "BR":
		tc.Kind = TaxCodeBR
		return tc, nil
	case "D0":
		tc.Kind = TaxCodeD0
		return tc, nil
	case "D1":
		tc.Kind = TaxCodeD1
		return tc, nil
	case "NT":
		tc.Kind = TaxCodeNT
		return tc, nil
	case "0T":
		tc.Kind = TaxCodeZeroT
		return tc, nil
	}

	if m := kCodePattern.FindStringSubmatch(code); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return TaxCode{}, ErrInvalidTaxCode
		}
		tc.Kind = TaxCodeK
		tc.Allowance = decimal.NewFromInt(int64(n * 10))
		return tc, nil
	}

	if m := standardCodePattern.FindStringSubmatch(code); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return TaxCode{}, ErrInvalidTaxCode
		}
		tc.Kind = TaxCodeStandard
		tc.Allowance = decimal.NewFromInt(int64(n * 10))
		return tc, nil
	}

	return TaxCode{}, ErrInvalidTaxCode
}
