package portfolio

import "strings"

// recommended is the default dividend portfolio. Growth rates are annualized
// historical total returns; yields are approximate averages.
var recommended = []Entry{
	{Ticker: "SCHD", AvgYieldPct: 3.5, GrowthPct: 13.97, GrowthLabel: "10Y CAGR", AllocationPct: 50},
	{Ticker: "O", AvgYieldPct: 5.5, GrowthPct: 6.53, GrowthLabel: "10Y CAGR", AllocationPct: 20},
	{Ticker: "JEPI", AvgYieldPct: 8.0, GrowthPct: 12.14, GrowthLabel: "Since 2020-05-21 CAGR", AllocationPct: 20},
	{Ticker: "JEPQ", AvgYieldPct: 9.0, GrowthPct: 15.50, GrowthLabel: "Since 2022-05-04 CAGR", AllocationPct: 10},
}

// Recommended returns a fresh copy of the default portfolio.
func Recommended() State {
	return NewState(recommended)
}

// RecommendedEntry looks up a ticker in the default portfolio.
func RecommendedEntry(ticker string) (Entry, bool) {
	want := strings.ToUpper(strings.TrimSpace(ticker))
	for _, entry := range recommended {
		if entry.Ticker == want {
			return entry, true
		}
	}
	return Entry{}, false
}
