package model

import "time"

// Tax rates the generator understands. Rate 7 renders with tax code 'B',
// rate 19 with tax code 'A'.
const (
	ReducedTaxRate  = 7
	StandardTaxRate = 19
)

// CatalogItem represents a purchasable product in the catalogue.
type CatalogItem struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	TaxRate int     `json:"taxRate"`
}

// CartLine is a catalogue item copied into a shopping cart. Lines are copies,
// never references into the catalogue.
type CartLine struct {
	Name    string
	Price   float64
	TaxRate int
}

// TaxBucket aggregates net, tax and gross amounts for one tax rate.
type TaxBucket struct {
	Net   float64
	Tax   float64
	Gross float64
}

// IsZero reports whether no cart line contributed to the bucket.
// Zero buckets are suppressed from the rendered tax table.
func (b TaxBucket) IsZero() bool {
	return b.Gross == 0
}

// TaxSummary holds one bucket per supported tax rate.
type TaxSummary struct {
	Reduced  TaxBucket // 7%
	Standard TaxBucket // 19%
}

// ReceiptRecord is the complete, self-contained set of values needed to
// render one receipt image. A record is built for exactly one render call
// and discarded afterwards; it is never persisted.
//
// Identifier fields are stored pre-formatted (zero-padded to their fixed
// widths) so that rendering is a straight substitution.
type ReceiptRecord struct {
	Lines []CartLine
	Total float64
	Taxes TaxSummary

	Date            time.Time
	TransactionTime time.Time // 3-5 minutes before ReceiptTime
	ReceiptTime     time.Time

	ReceiptNumber  string // 4 digits, 1000-9999
	TraceNumber    string // 6 digits, 100000-999999
	BonNumber      string // plain integer, 5000-9999
	OperatorNumber string // 6 digits, 100000-999999
	RegisterNumber string // plain integer, 10-99
	IssuerNumber   string // 9 digits, 100000000-999999999
	TerminalID     string // 8 digits, 10000000-99999999
	CardLast4      string // 4 digits, 1000-9999
}
