package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts for display.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for a BCP 47 locale. An unparsable
// locale falls back to Russian.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Russian
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Amount formats d with the locale's digit grouping.
func (f *Formatter) Amount(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprint(number.Decimal(d.IntPart()))
	}
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(int(-d.Exponent()))))
}

// Synapses formats d as a price: "750 синапсов".
func (f *Formatter) Synapses(d decimal.Decimal) string {
	return f.Amount(d) + " синапсов"
}

// Charged formats the success message: "Списано 750 синапсов".
func (f *Formatter) Charged(d decimal.Decimal) string {
	return "Списано " + f.Synapses(d)
}

// Int formats a count.
func (f *Formatter) Int(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}
