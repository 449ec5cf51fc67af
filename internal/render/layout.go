package render

import (
	"fmt"
	"strings"

	"kassenbon/internal/model"
)

// The receipt body is laid out on a 38-column monospaced grid. Column
// alignment is a correctness requirement: the printed numbers must line up
// exactly as on a thermal point-of-sale receipt.
const columnWidth = 38

// Line is one row of receipt text with its presentation hints.
type Line struct {
	Text   string
	Bold   bool
	Center bool
}

// Static store identity block. This is boilerplate, not derived from the
// receipt record.
var storeHeader = []Line{
	{Text: "Reichenhainer Str. 55", Center: true},
	{Text: "09126 Chemnitz", Center: true},
	{Text: "Tel.: 0371-24088670", Center: true},
	{Text: "UID Nr.: DE812706034", Center: true},
}

// TaxCode maps a tax rate to its receipt letter. Any rate outside the
// supported set is a contract violation and panics; the renderer converts
// the panic into an error image at its outer boundary.
func TaxCode(rate int) string {
	switch rate {
	case model.ReducedTaxRate:
		return "B"
	case model.StandardTaxRate:
		return "A"
	default:
		panic(fmt.Sprintf("unsupported tax rate %d", rate))
	}
}

// ItemLine formats one cart line: name padded left, price right-aligned
// with its tax code letter.
func ItemLine(line model.CartLine) string {
	name := line.Name
	if len([]rune(name)) > 24 {
		name = string([]rune(name)[:24])
	}
	return fmt.Sprintf("%-24sEUR %6.2f %s *", name, line.Price, TaxCode(line.TaxRate))
}

// amountLine lays out a label with a right-aligned EUR amount.
func amountLine(label string, amount float64) string {
	return fmt.Sprintf("%-28sEUR %6.2f", label, amount)
}

// taxTableRow lays out one row of the tax table: label plus three
// right-aligned amount columns (net, tax, gross).
func taxTableRow(label string, b model.TaxBucket) string {
	return fmt.Sprintf("%-12s%8.2f %8.2f %8.2f", label, b.Net, b.Tax, b.Gross)
}

// TaxTable returns the per-rate tax table rows. Buckets with no
// contributing lines are suppressed; the final row restates the grand
// total across all buckets.
func TaxTable(rec model.ReceiptRecord) []Line {
	lines := []Line{
		{Text: fmt.Sprintf("%-12s%8s %8s %8s", "Steuer %", "Netto", "Steuer", "Brutto"), Bold: true},
	}

	if !rec.Taxes.Reduced.IsZero() {
		lines = append(lines, Line{Text: taxTableRow("B=  7,0%", rec.Taxes.Reduced)})
	}
	if !rec.Taxes.Standard.IsZero() {
		lines = append(lines, Line{Text: taxTableRow("A= 19,0%", rec.Taxes.Standard)})
	}

	grand := model.TaxBucket{
		Net:   rec.Taxes.Reduced.Net + rec.Taxes.Standard.Net,
		Tax:   rec.Taxes.Reduced.Tax + rec.Taxes.Standard.Tax,
		Gross: rec.Total,
	}
	lines = append(lines, Line{Text: taxTableRow("Gesamtbetrag", grand)})

	return lines
}

// Lines lays out the full receipt body, top to bottom, excluding the logo.
func Lines(rec model.ReceiptRecord) []Line {
	rule := Line{Text: strings.Repeat("=", columnWidth)}
	stars := Line{Text: strings.Repeat("*", columnWidth)}
	blank := Line{}

	lines := make([]Line, 0, 64)
	lines = append(lines, storeHeader...)
	lines = append(lines, blank)

	for _, item := range rec.Lines {
		lines = append(lines, Line{Text: ItemLine(item)})
	}

	lines = append(lines,
		rule,
		Line{Text: amountLine("SUMME", rec.Total)},
		rule,
		Line{Text: amountLine("Geg. Mastercard", rec.Total)},
		blank,
		Line{Text: "* * Kundenbeleg * *", Bold: true, Center: true},
		blank,
		Line{Text: fmt.Sprintf("%-12s%s", "Datum:", rec.Date.Format("02.01.2006"))},
		Line{Text: fmt.Sprintf("%-12s%s Uhr", "Uhrzeit:", rec.TransactionTime.Format("15:04:05"))},
		Line{Text: fmt.Sprintf("%-12s%s", "Beleg-Nr.", rec.ReceiptNumber)},
		Line{Text: fmt.Sprintf("%-12s%s", "Trace-Nr.", rec.TraceNumber)},
		blank,
		Line{Text: "Bezahlung", Center: true},
		Line{Text: "Kontaktlos", Center: true},
		Line{Text: "DEBIT MASTERCARD", Center: true},
		Line{Text: fmt.Sprintf("############%s 0001", rec.CardLast4), Center: true},
		Line{Text: "Nr."},
		Line{Text: fmt.Sprintf("%-20s%18s", "VU-Nr.", rec.IssuerNumber)},
		Line{Text: fmt.Sprintf("%-20s%18s", "Terminal-ID", rec.TerminalID)},
		Line{Text: fmt.Sprintf("%-20s%18s", "Pos-Info", "00 073 00")},
		Line{Text: fmt.Sprintf("AS-Zeit %s.%21s Uhr", rec.Date.Format("02.01"), rec.TransactionTime.Format("15:04"))},
		Line{Text: "AS-Proc-Code = 00 075 00"},
		Line{Text: "Capt.-Ref. = 0000"},
		Line{Text: "00 GENEHMIGT"},
		Line{Text: fmt.Sprintf("%-31s%7.2f", "Betrag EUR", rec.Total)},
		blank,
		Line{Text: "Zahlung erfolgt", Center: true},
		blank,
	)

	lines = append(lines, TaxTable(rec)...)

	lines = append(lines,
		blank,
		Line{Text: fmt.Sprintf("%s     %s      Bon-Nr.:%s",
			rec.Date.Format("02.01.2006"), rec.ReceiptTime.Format("15:04"), rec.BonNumber)},
		Line{Text: fmt.Sprintf("Markt:0112         Kasse:%s    Bed.:%s",
			rec.RegisterNumber, rec.OperatorNumber)},
		stars,
		Line{Text: "Jetzt mit PAYBACK Punkten bezahlen!"},
		Line{Text: "Einfach REWE Guthaben am Service-Punkt"},
		Line{Text: "aufladen.", Center: true},
		blank,
		Line{Text: "Für die mit * gekennzeichneten Produkte"},
		Line{Text: "erhalten Sie leider keine Rabatte"},
		Line{Text: "oder PAYBACK Punkte.", Center: true},
		stars,
		blank,
		Line{Text: "REWE Markt GmbH", Bold: true, Center: true},
		Line{Text: "Vielen Dank für Ihren Einkauf", Center: true},
		Line{Text: "Bitte beachten Sie unsere kunden-"},
		Line{Text: "freundlichen Öffnungszeiten am Markt"},
		blank,
		Line{Text: "Sie haben Fragen?", Center: true},
		Line{Text: "Antworten gibt es unter", Center: true},
		Line{Text: "www.rewe.de", Bold: true, Center: true},
	)

	return lines
}
