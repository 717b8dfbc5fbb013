package core

import "time"

// Period selects transactions by sale month, optionally restricted to a year.
type Period struct {
	Year     int
	Month    int // 1-12
	AllYears bool
}

// ForMonth matches the given month in every year.
func ForMonth(month int) Period {
	return Period{Month: month, AllYears: true}
}

// ForYearMonth matches the given month of a single year.
func ForYearMonth(year, month int) Period {
	return Period{Year: year, Month: month}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Matches reports whether t falls inside the period.
func (p Period) Matches(t time.Time) bool {
	if int(t.Month()) != p.Month {
		return false
	}
	return p.AllYears || t.Year() == p.Year
}

// Filter returns the transactions sold within the period, preserving order.
func (p Period) Filter(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if p.Matches(tx.SoldAt) {
			out = append(out, tx)
		}
	}
	return out
}
