package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// RawTransaction is a sales record as delivered by a record source.
	RawTransaction struct {
		ID         int64   `json:"id,omitempty"`
		Title      string  `json:"title,omitempty"`
		DateOfSale string  `json:"dateOfSale"`
		Price      float64 `json:"price"`
		Sold       bool    `json:"sold"`
		Category   string  `json:"category"`
	}

	// Transaction is a normalized sales record ready for aggregation.
	Transaction struct {
		SoldAt   time.Time
		Price    float64
		Sold     bool
		Category string
	}

	// Rejection describes a raw record dropped during normalization.
	Rejection struct {
		Index  int
		Reason error
	}
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidDate   = errors.New("invalid date of sale")
	ErrNegativePrice = errors.New("negative price")
)

// dateLayouts lists the accepted dateOfSale formats, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateOfSale parses a dateOfSale string. The returned time keeps the
// offset written in the string, so Month and Year reflect the calendar date
// as recorded.
func ParseDateOfSale(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Validate checks that the raw record can be turned into a Transaction.
func (r RawTransaction) Validate() error {
	if _, err := ParseDateOfSale(r.DateOfSale); err != nil {
		return err
	}
	if r.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Normalize converts raw records into transactions. Records with an
// unparseable date or a negative price are skipped and reported.
func Normalize(raws []RawTransaction) ([]Transaction, []Rejection) {
	txs := make([]Transaction, 0, len(raws))
	var rejected []Rejection
	for i, r := range raws {
		soldAt, err := ParseDateOfSale(r.DateOfSale)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: err})
			continue
		}
		if r.Price < 0 {
			rejected = append(rejected, Rejection{Index: i, Reason: ErrNegativePrice})
			continue
		}
		txs = append(txs, Transaction{
			SoldAt:   soldAt,
			Price:    r.Price,
			Sold:     r.Sold,
			Category: r.Category,
		})
	}
	return txs, rejected
}
