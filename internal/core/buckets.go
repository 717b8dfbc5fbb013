package core

import "math"

// PriceRange is one bucket of the price histogram. A price belongs to the
// first range whose Max is greater than or equal to it.
type PriceRange struct {
	Label string
	Max   float64
}

// PriceRanges are the ten fixed histogram buckets in ascending order.
var PriceRanges = []PriceRange{
	{Label: "0 - 100", Max: 100},
	{Label: "101 - 200", Max: 200},
	{Label: "201 - 300", Max: 300},
	{Label: "301 - 400", Max: 400},
	{Label: "401 - 500", Max: 500},
	{Label: "501 - 600", Max: 600},
	{Label: "601 - 700", Max: 700},
	{Label: "701 - 800", Max: 800},
	{Label: "801 - 900", Max: 900},
	{Label: "901 - above", Max: math.Inf(1)},
}

// ClassifyPrice returns the label of the bucket containing price.
// Fractional prices between two labels fall into the upper bucket,
// e.g. 100.5 is counted in "101 - 200".
func ClassifyPrice(price float64) (string, error) {
	if price < 0 || math.IsNaN(price) {
		return "", ErrNegativePrice
	}
	for _, r := range PriceRanges {
		if price <= r.Max {
			return r.Label, nil
		}
	}
	// unreachable: the last bucket is unbounded
	return PriceRanges[len(PriceRanges)-1].Label, nil
}

// PriceHistogram counts transactions per price bucket. All ten labels are
// always present. Transactions with an invalid price are not counted;
// Normalize never lets such records through.
func PriceHistogram(txs []Transaction) map[string]int {
	hist := make(map[string]int, len(PriceRanges))
	for _, r := range PriceRanges {
		hist[r.Label] = 0
	}
	for _, tx := range txs {
		label, err := ClassifyPrice(tx.Price)
		if err != nil {
			continue
		}
		hist[label]++
	}
	return hist
}

// CategoryTally counts transactions per category. Only categories present in
// txs appear; keys are matched exactly.
func CategoryTally(txs []Transaction) map[string]int {
	tally := make(map[string]int)
	for _, tx := range txs {
		tally[tx.Category]++
	}
	return tally
}
