package export

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a monetary amount the way the console displays it,
// e.g. 1234.5 becomes "R$ 1.234,50".
func FormatBRL(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}

// FormatAmount renders a plain localized amount without the currency sign.
func FormatAmount(v float64) string {
	return ptBR.Sprintf("%.2f", v)
}

// FormatDate renders dates in the dd/mm/yyyy convention used throughout
// the console.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
