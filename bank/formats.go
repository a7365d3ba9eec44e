package bank

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The registry is a fixed, closed set: one entry per supported bank export
// layout. Each extractor decides its own debit/credit sign convention and
// which raw columns supply description, check number, and account number.
var registry = map[string]Format{
	"chase": {
		Name:      "Chase",
		HasHeader: true,
		Extract:   extractChase,
	},
	"pnc": {
		Name:      "PNC",
		HasHeader: true,
		Extract:   extractPNC,
	},
	"td": {
		Name:      "TD Bank",
		HasHeader: true,
		Extract:   extractTD,
	},
	"amex": {
		Name:      "American Express",
		HasHeader: true,
		Extract:   extractAmex,
	},
	"generic_pdf": {
		Name:      "Generic PDF statement",
		HasHeader: false,
		Extract:   extractPDFLine,
	},
}

// Lookup returns the format registered under a key.
func Lookup(key string) (Format, bool) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(key))]
	return f, ok
}

// FormatKeys lists the registry keys in stable order.
func FormatKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var signedAmount = regexp.MustCompile(`-?[\d,]*\.?\d+`)

// parseAmount parses a currency string into a decimal, tolerating currency
// symbols and thousands separators and preserving the sign.
func parseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, nil
	}
	negative := strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")")
	match := signedAmount.FindString(text)
	if match == "" {
		return decimal.Zero, fmt.Errorf("no amount in %q", text)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func isAmount(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	_, err := parseAmount(text)
	return err == nil && signedAmount.MatchString(text)
}

var dateLayouts = []string{"1/2/2006", "01/02/2006", "2006-01-02", "1/2/06"}

func parseRowDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", text)
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Chase activity export: Details, Posting Date, Description, Amount, Type,
// Balance, Check or Slip #. Single signed amount column.
func extractChase(row []string) (Fields, error) {
	date, err := parseRowDate(field(row, 1))
	if err != nil {
		return Fields{}, err
	}
	amount, err := parseAmount(field(row, 3))
	if err != nil {
		return Fields{}, err
	}
	return Fields{
		Date:        date,
		Description: field(row, 2),
		Amount:      amount,
		CheckNum:    field(row, 6),
	}, nil
}

// PNC export: Date, Description, Withdrawals, Deposits, Balance. A positive
// deposit wins; otherwise the amount is the negated withdrawal.
func extractPNC(row []string) (Fields, error) {
	date, err := parseRowDate(field(row, 0))
	if err != nil {
		return Fields{}, err
	}
	debit, err := parseAmount(field(row, 2))
	if err != nil {
		return Fields{}, err
	}
	credit, err := parseAmount(field(row, 3))
	if err != nil {
		return Fields{}, err
	}

	amount := credit
	if !credit.IsPositive() {
		amount = debit.Abs().Neg()
	}
	return Fields{
		Date:        date,
		Description: field(row, 1),
		Amount:      amount,
	}, nil
}

// TD export: Date, Description, Debit, Credit, Balance. Some exports carry a
// stray token that lands every value one column to the right of expected;
// a non-numeric debit field is the tell, and the whole tuple shifts.
func extractTD(row []string) (Fields, error) {
	debitIdx, creditIdx := 2, 3
	description := field(row, 1)

	if raw := field(row, debitIdx); raw != "" && !isAmount(raw) {
		debitIdx, creditIdx = 3, 4
		description = strings.TrimSpace(description + " " + field(row, 2))
	}

	date, err := parseRowDate(field(row, 0))
	if err != nil {
		return Fields{}, err
	}
	debit, err := parseAmount(field(row, debitIdx))
	if err != nil {
		return Fields{}, err
	}
	credit, err := parseAmount(field(row, creditIdx))
	if err != nil {
		return Fields{}, err
	}

	amount := credit
	if !credit.IsPositive() {
		amount = debit.Abs().Neg()
	}
	return Fields{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, nil
}

// Amex export: Date, Description, Amount, with charges reported positive.
// The sign is flipped so charges come out as debits.
func extractAmex(row []string) (Fields, error) {
	date, err := parseRowDate(field(row, 0))
	if err != nil {
		return Fields{}, err
	}
	amount, err := parseAmount(field(row, 2))
	if err != nil {
		return Fields{}, err
	}
	return Fields{
		Date:        date,
		Description: field(row, 1),
		Amount:      amount.Neg(),
	}, nil
}

var (
	pdfLine  = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(\(?-?\$?[\d,]+\.\d{2}\)?)$`)
	pdfCheck = regexp.MustCompile(`(?i)\bCHECK\s*#?\s*(\d+)`)
)

// PDF statements decode to one text cell per row; transaction lines follow a
// "date description amount" grammar and everything else is ignored.
func extractPDFLine(row []string) (Fields, error) {
	line := strings.TrimSpace(strings.Join(row, " "))
	match := pdfLine.FindStringSubmatch(line)
	if match == nil {
		return Fields{}, fmt.Errorf("not a transaction line: %q", line)
	}

	date, err := parseRowDate(match[1])
	if err != nil {
		return Fields{}, err
	}
	amount, err := parseAmount(match[3])
	if err != nil {
		return Fields{}, err
	}

	f := Fields{Date: date, Description: match[2], Amount: amount}
	if check := pdfCheck.FindStringSubmatch(match[2]); check != nil {
		f.CheckNum = check[1]
	}
	return f, nil
}
