package core

// Statistics is the sales summary for a year and month.
type Statistics struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TotalSaleAmount  float64 `json:"totalSaleAmount"`
	TotalSoldItems   int     `json:"totalSoldItems"`
	TotalUnsoldItems int     `json:"totalUnsoldItems"`
}

// TotalSaleAmount sums the price of every transaction. No rounding is applied.
func TotalSaleAmount(txs []Transaction) float64 {
	var total float64
	for _, tx := range txs {
		total += tx.Price
	}
	return total
}

// CountSold returns the number of sold transactions.
func CountSold(txs []Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.Sold {
			n++
		}
	}
	return n
}

// CountUnsold returns the number of unsold transactions.
func CountUnsold(txs []Transaction) int {
	return len(txs) - CountSold(txs)
}

// Summarize computes the statistics of an already filtered set in one pass.
func Summarize(year, month int, txs []Transaction) Statistics {
	s := Statistics{Year: year, Month: month}
	for _, tx := range txs {
		s.TotalSaleAmount += tx.Price
		if tx.Sold {
			s.TotalSoldItems++
		} else {
			s.TotalUnsoldItems++
		}
	}
	return s
}
