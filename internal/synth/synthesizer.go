package synth

import (
	"fmt"
	"math/rand"
	"time"

	"kassenbon/internal/catalog"
	"kassenbon/internal/model"

	"github.com/rs/zerolog"
)

// Synthesizer produces internally-consistent synthetic receipts. It owns a
// random source, so a single Synthesizer must not be shared between
// goroutines; use a Factory to mint one per batch or request.
type Synthesizer interface {
	// BusinessDays returns the most recent count business days before ref,
	// oldest first. The walk starts at the day before ref.
	BusinessDays(count int, ref time.Time) ([]time.Time, error)

	// Cart draws items from the catalogue without replacement until the
	// running gross total reaches the configured minimum or the catalogue
	// is exhausted. The cart is never empty.
	Cart() []model.CartLine

	// TaxSummary aggregates the cart into per-rate net/tax/gross buckets.
	TaxSummary(lines []model.CartLine) model.TaxSummary

	// Receipt composes a complete receipt record for the given date.
	Receipt(target time.Time) model.ReceiptRecord
}

// Factory holds everything a Synthesizer needs except its random source.
// It is safe for concurrent use.
type Factory struct {
	catalog  catalog.Catalog
	policy   WeekdayPolicy
	minTotal float64
	logger   zerolog.Logger
}

// NewFactory validates the configuration and returns a synthesizer factory.
func NewFactory(cat catalog.Catalog, policy WeekdayPolicy, minTotal float64, logger zerolog.Logger) (*Factory, error) {
	if cat.Len() == 0 {
		return nil, model.ErrEmptyCatalog
	}
	if _, err := ParseWeekdayPolicy(string(policy)); err != nil {
		return nil, err
	}
	if minTotal <= 0 {
		return nil, fmt.Errorf("minimum cart total must be positive, got %.2f", minTotal)
	}

	logger = logger.With().Str("component", "synthesizer").Logger()
	logger.Info().
		Int("catalog_items", cat.Len()).
		Str("weekday_policy", string(policy)).
		Float64("min_cart_total", minTotal).
		Msg("synthesizer factory initialised")

	return &Factory{
		catalog:  cat,
		policy:   policy,
		minTotal: minTotal,
		logger:   logger,
	}, nil
}

// Synthesizer mints a synthesizer bound to the given random source. Passing
// a seeded source makes the produced records reproducible.
func (f *Factory) Synthesizer(rng *rand.Rand) Synthesizer {
	return &synthesizer{
		catalog:  f.catalog,
		policy:   f.policy,
		minTotal: f.minTotal,
		rng:      rng,
		logger:   f.logger,
	}
}

// Policy returns the configured weekday policy.
func (f *Factory) Policy() WeekdayPolicy {
	return f.policy
}

type synthesizer struct {
	catalog  catalog.Catalog
	policy   WeekdayPolicy
	minTotal float64
	rng      *rand.Rand
	logger   zerolog.Logger
}

func (s *synthesizer) BusinessDays(count int, ref time.Time) ([]time.Time, error) {
	if count < 1 {
		return nil, model.ErrInvalidDayCount
	}

	days := make([]time.Time, 0, count)
	day := ref.AddDate(0, 0, -1)
	for len(days) < count {
		if s.policy.Includes(day.Weekday()) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, -1)
	}

	// Collected newest-first; the caller wants chronological order.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	return days, nil
}

func (s *synthesizer) Cart() []model.CartLine {
	available := s.catalog.Items()
	cart := make([]model.CartLine, 0, 8)

	var total float64
	for (len(cart) == 0 || total < s.minTotal) && len(available) > 0 {
		i := s.rng.Intn(len(available))
		item := available[i]
		cart = append(cart, model.CartLine{
			Name:    item.Name,
			Price:   item.Price,
			TaxRate: item.TaxRate,
		})
		total += item.Price
		available = append(available[:i], available[i+1:]...)
	}

	return cart
}

func (s *synthesizer) TaxSummary(lines []model.CartLine) model.TaxSummary {
	var sum model.TaxSummary
	for _, line := range lines {
		net := line.Price / (1 + float64(line.TaxRate)/100)
		tax := line.Price - net

		switch line.TaxRate {
		case model.ReducedTaxRate:
			sum.Reduced.Net += net
			sum.Reduced.Tax += tax
			sum.Reduced.Gross += line.Price
		case model.StandardTaxRate:
			sum.Standard.Net += net
			sum.Standard.Tax += tax
			sum.Standard.Gross += line.Price
		}
	}
	return sum
}

func (s *synthesizer) Receipt(target time.Time) model.ReceiptRecord {
	lines := s.Cart()

	var total float64
	for _, line := range lines {
		total += line.Price
	}

	taxes := s.TaxSummary(lines)

	receiptTime := time.Date(
		target.Year(), target.Month(), target.Day(),
		8+s.rng.Intn(10), s.rng.Intn(60), s.rng.Intn(60),
		0, target.Location(),
	)
	transactionTime := receiptTime.Add(-time.Duration(3+s.rng.Intn(3)) * time.Minute)

	rec := model.ReceiptRecord{
		Lines:           lines,
		Total:           total,
		Taxes:           taxes,
		Date:            target,
		TransactionTime: transactionTime,
		ReceiptTime:     receiptTime,
		ReceiptNumber:   s.digits(1000, 9999, 4),
		TraceNumber:     s.digits(100000, 999999, 6),
		BonNumber:       s.digits(5000, 9999, 0),
		OperatorNumber:  s.digits(100000, 999999, 6),
		RegisterNumber:  s.digits(10, 99, 0),
		IssuerNumber:    s.digits(100000000, 999999999, 9),
		TerminalID:      s.digits(10000000, 99999999, 8),
		CardLast4:       s.digits(1000, 9999, 4),
	}

	s.logger.Debug().
		Str("date", target.Format("02.01.2006")).
		Int("items", len(lines)).
		Float64("total", total).
		Msg("synthesized receipt")

	return rec
}

// digits draws a uniform integer in [lo, hi] and formats it zero-padded to
// the given width. Width 0 formats the plain integer.
func (s *synthesizer) digits(lo, hi, width int) string {
	n := lo + s.rng.Intn(hi-lo+1)
	if width == 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%0*d", width, n)
}
