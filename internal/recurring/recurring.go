// Package recurring detects recurring-charge patterns (subscriptions,
// repeating bills) in a normalized transaction set.
package recurring

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tallied-dev/tallied/internal/model"
)

// Config holds detection tolerances. The defaults are reasonable rather
// than empirically tuned; adjust per deployment.
type Config struct {
	AmountTolerance   decimal.Decimal // relative band, 0.02 = 2%
	IntervalDays      int             // nominal monthly interval
	IntervalTolerance int             // +/- days around the interval
	MinOccurrences    int
}

// DefaultConfig returns the standard tolerances: 2% amount band, 30 +/- 3
// day interval, 3 occurrences minimum.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:   decimal.NewFromFloat(0.02),
		IntervalDays:      30,
		IntervalTolerance: 3,
		MinOccurrences:    3,
	}
}

// Candidate is a detected recurring charge. Derived data: recomputed in
// full from the current transaction set, never mutated in place.
type Candidate struct {
	Merchant     string // display name (from the most recent occurrence)
	Signature    string // normalized merchant signature
	Monthly      decimal.Decimal
	Occurrences  int
	FirstDate    time.Time
	LastDate     time.Time
	NextExpected time.Time
	Transactions []model.Transaction
}

// Detector finds recurring charges.
type Detector struct {
	cfg Config
}

// New creates a Detector.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect scans expenses for recurring patterns. The result is independent
// of input ordering: grouping keys and the internal date sort fully
// determine it. Candidates come back sorted by merchant signature.
func (d *Detector) Detect(txns []model.Transaction) []Candidate {
	groups := make(map[string][]model.Transaction)
	for _, t := range txns {
		if t.Kind != model.KindExpense {
			continue
		}
		sig := Signature(t.Description)
		if sig == "" {
			continue
		}
		groups[sig] = append(groups[sig], t)
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	var out []Candidate
	for _, sig := range sigs {
		for _, band := range d.amountBands(groups[sig]) {
			if c, ok := d.testBand(sig, band); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// Signature normalizes a merchant description for grouping: case-folded,
// punctuation and digits stripped, whitespace collapsed. Digits go because
// processors append store and reference numbers ("NETFLIX 0231").
func Signature(description string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(description) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// amountBands splits a merchant group into clusters of near-equal amounts.
// Sorted by amount, a transaction joins the current band while it stays
// within the relative tolerance of the band's smallest member.
func (d *Detector) amountBands(txns []model.Transaction) [][]model.Transaction {
	sorted := append([]model.Transaction(nil), txns...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Amount.Equal(sorted[j].Amount) {
			return sorted[i].Amount.LessThan(sorted[j].Amount)
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var bands [][]model.Transaction
	var cur []model.Transaction
	var base decimal.Decimal
	for _, t := range sorted {
		if len(cur) == 0 {
			cur = []model.Transaction{t}
			base = t.Amount
			continue
		}
		limit := base.Mul(decimal.NewFromInt(1).Add(d.cfg.AmountTolerance))
		if t.Amount.LessThanOrEqual(limit) {
			cur = append(cur, t)
			continue
		}
		bands = append(bands, cur)
		cur = []model.Transaction{t}
		base = t.Amount
	}
	if len(cur) > 0 {
		bands = append(bands, cur)
	}
	return bands
}

// testBand checks one amount band for a consistent monthly cadence and
// builds the candidate if it passes.
func (d *Detector) testBand(sig string, band []model.Transaction) (Candidate, bool) {
	if len(band) < d.cfg.MinOccurrences {
		return Candidate{}, false
	}

	sort.Slice(band, func(i, j int) bool { return band[i].Date.Before(band[j].Date) })

	lo := d.cfg.IntervalDays - d.cfg.IntervalTolerance
	hi := d.cfg.IntervalDays + 1 + d.cfg.IntervalTolerance // 30/31-day months

	// Longest run of consecutive occurrences whose gaps stay in the window.
	best := []model.Transaction{band[0]}
	run := []model.Transaction{band[0]}
	for i := 1; i < len(band); i++ {
		gap := int(band[i].Date.Sub(band[i-1].Date).Hours() / 24)
		if gap >= lo && gap <= hi {
			run = append(run, band[i])
		} else {
			run = []model.Transaction{band[i]}
		}
		if len(run) > len(best) {
			best = run
		}
	}
	if len(best) < d.cfg.MinOccurrences {
		return Candidate{}, false
	}

	last := best[len(best)-1]
	return Candidate{
		Merchant:     last.Description,
		Signature:    sig,
		Monthly:      medianAmount(best),
		Occurrences:  len(best),
		FirstDate:    best[0].Date,
		LastDate:     last.Date,
		NextExpected: last.Date.AddDate(0, 0, d.cfg.IntervalDays),
		Transactions: best,
	}, true
}

func medianAmount(txns []model.Transaction) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(txns))
	for i, t := range txns {
		amounts[i] = t.Amount
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	n := len(amounts)
	if n%2 == 1 {
		return amounts[n/2]
	}
	return amounts[n/2-1].Add(amounts[n/2]).Div(decimal.NewFromInt(2))
}
