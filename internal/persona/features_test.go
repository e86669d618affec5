package persona

import (
	"math"
	"testing"

	"github.com/walletlens/walletlens/internal/wallet"
)

const tolerance = 0.0001

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		record      *wallet.Record
		expected    FeatureVector
		description string
	}{
		{
			name: "active mixed wallet",
			record: &wallet.Record{
				TransactionCount:     20,
				TokenCount:           10,
				NFTCount:             5,
				DaysSinceLastTx:      2,
				DAOVoteCount:         3,
				DeFiInteractionCount: 4,
				Transactions: []wallet.Transaction{
					{ValueWei: "2000000000000000000", Timestamp: 1700000000},
					{ValueWei: "1000000000000000000", Timestamp: 1699654400}, // 4 days earlier
				},
			},
			expected: FeatureVector{
				TransactionCount: 20,
				TokenCount:       10,
				NFTCount:         5,
				ActivityRecency:  1.0 / 3.0,
				TokenDiversity:   0.5,
				NFTFocus:         5.0 / 15.0,
				DAOEngagement:    0.15,
				DeFiEngagement:   0.2,
				AvgTxValue:       1.5,
				TxFrequency:      0.5, // 2 retained txs over a 4 day span
			},
			description: "Derived ratios from a fully populated record",
		},
		{
			name:   "empty default record",
			record: wallet.DefaultRecord("0xabc"),
			expected: FeatureVector{
				ActivityRecency: 1.0 / 366.0,
			},
			description: "365 day default still yields a small positive recency",
		},
		{
			name: "zero counts floor divisions",
			record: &wallet.Record{
				TransactionCount: 0,
				TokenCount:       3,
				DaysSinceLastTx:  0,
			},
			expected: FeatureVector{
				TokenCount:      3,
				ActivityRecency: 1.0,
				TokenDiversity:  3.0, // floored denominator of 1
			},
			description: "Division by zero protected with max(count, 1)",
		},
		{
			name: "negative days yields zero recency",
			record: &wallet.Record{
				TransactionCount: 10,
				DaysSinceLastTx:  -5,
			},
			expected: FeatureVector{
				TransactionCount: 10,
			},
			description: "Invalid day values degrade to zero recency",
		},
		{
			name: "NaN days yields zero recency",
			record: &wallet.Record{
				TransactionCount: 10,
				DaysSinceLastTx:  math.NaN(),
			},
			expected: FeatureVector{
				TransactionCount: 10,
			},
			description: "NaN day values degrade to zero recency",
		},
		{
			name: "sub-day span floors to one day",
			record: &wallet.Record{
				TransactionCount: 10,
				DaysSinceLastTx:  1,
				Transactions: []wallet.Transaction{
					{ValueWei: "0", Timestamp: 1700003600},
					{ValueWei: "0", Timestamp: 1700000000}, // one hour apart
				},
			},
			expected: FeatureVector{
				TransactionCount: 10,
				ActivityRecency:  0.5,
				TxFrequency:      2, // span floored to 1 day
			},
			description: "Bursty activity does not produce infinite frequency",
		},
		{
			name: "single transaction has no frequency",
			record: &wallet.Record{
				TransactionCount: 1,
				DaysSinceLastTx:  1,
				Transactions: []wallet.Transaction{
					{ValueWei: "3000000000000000000", Timestamp: 1700000000},
				},
			},
			expected: FeatureVector{
				TransactionCount: 1,
				ActivityRecency:  0.5,
				AvgTxValue:       3,
			},
			description: "Frequency requires at least two transactions",
		},
		{
			name: "malformed wei values average to zero",
			record: &wallet.Record{
				TransactionCount: 6,
				DaysSinceLastTx:  1,
				Transactions: []wallet.Transaction{
					{ValueWei: "garbage", Timestamp: 1700086400},
					{ValueWei: "", Timestamp: 1700000000},
				},
			},
			expected: FeatureVector{
				TransactionCount: 6,
				ActivityRecency:  0.5,
				TxFrequency:      2,
			},
			description: "Bad numeric strings degrade to zero, never error",
		},
		{
			name: "frequency uses the retained window, not the total count",
			record: &wallet.Record{
				TransactionCount: 1000,
				DaysSinceLastTx:  1,
				Transactions: []wallet.Transaction{
					{ValueWei: "0", Timestamp: 1700864000},
					{ValueWei: "0", Timestamp: 1700777600},
					{ValueWei: "0", Timestamp: 1700691200},
					{ValueWei: "0", Timestamp: 1700604800},
					{ValueWei: "0", Timestamp: 1700518400},
					{ValueWei: "0", Timestamp: 1700432000},
					{ValueWei: "0", Timestamp: 1700345600},
					{ValueWei: "0", Timestamp: 1700259200},
					{ValueWei: "0", Timestamp: 1700172800},
					{ValueWei: "0", Timestamp: 1700086400}, // 10 txs, one per day
				},
			},
			expected: FeatureVector{
				TransactionCount: 1000,
				ActivityRecency:  0.5,
				TxFrequency:      10.0 / 9.0,
			},
			description: "A large lifetime count must not inflate the per-day rate of the sampled window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.record)

			if got.TransactionCount != tt.expected.TransactionCount ||
				got.TokenCount != tt.expected.TokenCount ||
				got.NFTCount != tt.expected.NFTCount {
				t.Errorf("counts = (%d,%d,%d), expected (%d,%d,%d) (%s)",
					got.TransactionCount, got.TokenCount, got.NFTCount,
					tt.expected.TransactionCount, tt.expected.TokenCount, tt.expected.NFTCount,
					tt.description)
			}

			floats := []struct {
				field    string
				got, exp float64
			}{
				{"ActivityRecency", got.ActivityRecency, tt.expected.ActivityRecency},
				{"TokenDiversity", got.TokenDiversity, tt.expected.TokenDiversity},
				{"NFTFocus", got.NFTFocus, tt.expected.NFTFocus},
				{"DAOEngagement", got.DAOEngagement, tt.expected.DAOEngagement},
				{"DeFiEngagement", got.DeFiEngagement, tt.expected.DeFiEngagement},
				{"AvgTxValue", got.AvgTxValue, tt.expected.AvgTxValue},
				{"TxFrequency", got.TxFrequency, tt.expected.TxFrequency},
			}
			for _, f := range floats {
				if math.Abs(f.got-f.exp) > tolerance {
					t.Errorf("%s = %v, expected %v (%s)", f.field, f.got, f.exp, tt.description)
				}
			}
		})
	}
}

func TestExtractNilRecord(t *testing.T) {
	got := Extract(nil)
	if math.Abs(got.ActivityRecency-1.0/366.0) > tolerance {
		t.Errorf("nil record should extract like the default record, got recency %v", got.ActivityRecency)
	}
	if got.TransactionCount != 0 || got.AvgTxValue != 0 || got.TxFrequency != 0 {
		t.Errorf("nil record should extract to zeros: %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	rec := &wallet.Record{
		TransactionCount: 42,
		TokenCount:       7,
		NFTCount:         3,
		DaysSinceLastTx:  10,
		Transactions: []wallet.Transaction{
			{ValueWei: "1000000000000000000", Timestamp: 1700000000},
			{ValueWei: "500000000000000000", Timestamp: 1690000000},
		},
	}
	first := Extract(rec)
	second := Extract(rec)
	if first != second {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}
