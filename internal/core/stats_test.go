package core

import (
	"reflect"
	"testing"
	"time"
)

func tx(date string, price float64, sold bool, category string) Transaction {
	t, err := ParseDateOfSale(date)
	if err != nil {
		panic(err)
	}
	return Transaction{SoldAt: t, Price: price, Sold: sold, Category: category}
}

func sample() []Transaction {
	return []Transaction{
		tx("2021-03-10T10:00:00Z", 50, true, "electronics"),
		tx("2021-03-11T10:00:00Z", 150, false, "men's clothing"),
		tx("2021-03-12T10:00:00Z", 999, true, "electronics"),
		tx("2022-03-01T10:00:00Z", 20, false, "jewelery"),
		tx("2021-04-01T10:00:00Z", 300, true, "electronics"),
	}
}

func TestPeriodValidate(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if err := ForMonth(m).Validate(); err != nil {
			t.Fatalf("month %d: unexpected error %v", m, err)
		}
	}
	for _, m := range []int{-1, 0, 13, 100} {
		if err := ForYearMonth(2021, m).Validate(); err != ErrInvalidMonth {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestPeriodFilter(t *testing.T) {
	txs := sample()

	march2021 := ForYearMonth(2021, 3).Filter(txs)
	if len(march2021) != 3 {
		t.Fatalf("expected 3 transactions in 2021-03, got %d", len(march2021))
	}

	anyMarch := ForMonth(3).Filter(txs)
	if len(anyMarch) != 4 {
		t.Fatalf("expected 4 transactions in any March, got %d", len(anyMarch))
	}

	if got := ForYearMonth(2020, 3).Filter(txs); len(got) != 0 {
		t.Fatalf("expected no transactions in 2020-03, got %d", len(got))
	}

	if !ForMonth(4).Matches(time.Date(1999, time.April, 30, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected April to match regardless of year")
	}
}

func TestAggregatorsWorkedExample(t *testing.T) {
	set := ForYearMonth(2021, 3).Filter(sample())

	if got := TotalSaleAmount(set); got != 1199 {
		t.Fatalf("TotalSaleAmount = %v, want 1199", got)
	}
	if got := CountSold(set); got != 2 {
		t.Fatalf("CountSold = %d, want 2", got)
	}
	if got := CountUnsold(set); got != 1 {
		t.Fatalf("CountUnsold = %d, want 1", got)
	}

	want := Statistics{Year: 2021, Month: 3, TotalSaleAmount: 1199, TotalSoldItems: 2, TotalUnsoldItems: 1}
	if got := Summarize(2021, 3, set); got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	want := Statistics{Year: 2020, Month: 1}
	if got := Summarize(2020, 1, nil); got != want {
		t.Fatalf("Summarize(empty) = %+v, want %+v", got, want)
	}
	if TotalSaleAmount(nil) != 0 || CountSold(nil) != 0 || CountUnsold(nil) != 0 {
		t.Fatalf("expected zero aggregates on empty input")
	}
}

func TestSoldPlusUnsoldEqualsSize(t *testing.T) {
	txs := sample()
	for m := 1; m <= 12; m++ {
		set := ForMonth(m).Filter(txs)
		s := Summarize(0, m, set)
		if s.TotalSoldItems+s.TotalUnsoldItems != len(set) {
			t.Fatalf("month %d: sold+unsold=%d, size=%d", m, s.TotalSoldItems+s.TotalUnsoldItems, len(set))
		}
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	txs := sample()
	a := Summarize(2021, 3, ForYearMonth(2021, 3).Filter(txs))
	b := Summarize(2021, 3, ForYearMonth(2021, 3).Filter(txs))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}
