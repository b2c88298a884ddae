package currency

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Currency is one entry of the fixed conversion table. Rate is relative to
// the reference currency, which always carries rate 1.0.
type Currency struct {
	Code   string  `yaml:"code" json:"code"`
	Symbol string  `yaml:"symbol" json:"symbol"`
	Rate   float64 `yaml:"rate" json:"rate"`
}

// Table holds the enumerated currencies in display order. The first entry is
// the reference currency and the default selection.
type Table struct {
	currencies []Currency
	byCode     map[string]Currency
}

// DefaultTable returns the built-in table. Catalog prices are stored in INR.
func DefaultTable() *Table {
	table, _ := NewTable([]Currency{
		{Code: "INR", Symbol: "₹", Rate: 1},
		{Code: "USD", Symbol: "$", Rate: 0.012},
		{Code: "EUR", Symbol: "€", Rate: 0.011},
		{Code: "GBP", Symbol: "£", Rate: 0.0095},
	})
	return table
}

func NewTable(currencies []Currency) (*Table, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("currency table is empty")
	}

	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		if c.Code == "" {
			return nil, fmt.Errorf("currency with empty code")
		}
		if c.Rate <= 0 {
			return nil, fmt.Errorf("currency %s has invalid rate %v", c.Code, c.Rate)
		}
		if _, dup := byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate currency code: %s", c.Code)
		}
		byCode[c.Code] = c
	}

	return &Table{currencies: currencies, byCode: byCode}, nil
}

// LoadFile reads a currency table override from a YAML file. The first
// listed currency becomes the reference.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currencies: %w", err)
	}

	var fileConfig struct {
		Currencies []Currency `yaml:"currencies"`
	}
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parse currencies: %w", err)
	}

	return NewTable(fileConfig.Currencies)
}

// Reference returns the code prices are stored in (the first entry).
func (t *Table) Reference() string {
	return t.currencies[0].Code
}

// Known reports whether the code is in the table.
func (t *Table) Known(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// Codes returns the enumerated codes in display order.
func (t *Table) Codes() []string {
	codes := make([]string, len(t.currencies))
	for i, c := range t.currencies {
		codes[i] = c.Code
	}
	return codes
}

// Convert maps a canonical price into the given currency. Unknown codes fall
// back to the reference currency rather than failing.
func (t *Table) Convert(amount int64, code string) float64 {
	c, ok := t.byCode[code]
	if !ok {
		c = t.currencies[0]
	}
	return float64(amount) * c.Rate
}

// Format renders a canonical price for display. The reference currency uses
// the site's K notation (₹45K); other currencies render the converted value
// with two decimals when requested, otherwise rounded and thousands-grouped.
func (t *Table) Format(amount int64, code string, showDecimals bool) string {
	c, ok := t.byCode[code]
	if !ok {
		c = t.currencies[0]
	}

	converted := float64(amount) * c.Rate
	if c.Code == t.Reference() {
		return fmt.Sprintf("%s%dK", c.Symbol, int64(math.Round(converted/1000)))
	}

	if showDecimals {
		return fmt.Sprintf("%s%.2f", c.Symbol, converted)
	}
	return c.Symbol + groupThousands(int64(math.Round(converted)))
}

// groupThousands inserts comma separators, matching the site's locale-grouped
// integer rendering.
func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
