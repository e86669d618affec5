package persona

import (
	"math"
	"testing"

	"github.com/walletlens/walletlens/internal/wallet"
)

func TestClassifyType(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name        string
		features    FeatureVector
		expected    string
		description string
	}{
		{
			name:        "few transactions is dormant",
			features:    FeatureVector{TransactionCount: 2, ActivityRecency: 0.5},
			expected:    TypeDormant,
			description: "Under 5 transactions always classifies dormant",
		},
		{
			name:        "stale wallet is dormant",
			features:    FeatureVector{TransactionCount: 100, ActivityRecency: 0.005},
			expected:    TypeDormant,
			description: "Recency below 0.01 means no activity for ~100 days",
		},
		{
			name: "dormancy beats NFT signal",
			features: FeatureVector{
				TransactionCount: 2,
				NFTCount:         20,
				NFTFocus:         0.9,
				ActivityRecency:  0.5,
			},
			expected:    TypeDormant,
			description: "Rule 1 precedes rule 2 even for a heavy collector",
		},
		{
			name: "nft collector",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
				NFTCount:         15,
				NFTFocus:         0.6,
			},
			expected:    TypeNFTCollector,
			description: "Over 10 NFTs and majority NFT focus",
		},
		{
			name: "nft count alone is not enough",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
				NFTCount:         15,
				NFTFocus:         0.3,
			},
			expected:    TypeInvestor,
			description: "Both NFT conditions must hold",
		},
		{
			name: "dao member",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
				DAOEngagement:    0.2,
			},
			expected:    TypeDAOMember,
			description: "DAO engagement over 0.1",
		},
		{
			name: "degen trader",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
				TxFrequency:      6,
				AvgTxValue:       2,
			},
			expected:    TypeDegenTrader,
			description: "High frequency and high value trades",
		},
		{
			name: "high frequency low value is investor",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
				TxFrequency:      6,
				AvgTxValue:       0.5,
			},
			expected:    TypeInvestor,
			description: "Both degen conditions must hold",
		},
		{
			name: "default investor",
			features: FeatureVector{
				TransactionCount: 50,
				ActivityRecency:  0.5,
			},
			expected:    TypeInvestor,
			description: "No rule fires, falls through to Investor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ClassifyType(tt.features); got != tt.expected {
				t.Errorf("ClassifyType() = %q, expected %q (%s)", got, tt.expected, tt.description)
			}
		})
	}
}

func TestScores(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name           string
		features       FeatureVector
		expectedRisk   float64
		expectedHealth float64
		description    string
	}{
		{
			name: "moderate wallet",
			features: FeatureVector{
				TransactionCount: 100,
				TokenDiversity:   0.5,
				DAOEngagement:    0.1,
				ActivityRecency:  0.5,
				TxFrequency:      2,
				AvgTxValue:       1,
			},
			expectedRisk:   40, // 10 + 10 + 10 + 10
			expectedHealth: 33, // 10 + 10 + 3 + 10
			description:    "Weighted factor sums without clamping",
		},
		{
			name: "extreme trader clamps risk to 100",
			features: FeatureVector{
				TxFrequency:     100,
				AvgTxValue:      100,
				TokenDiversity:  0,
				ActivityRecency: 1,
			},
			expectedRisk:   100,
			expectedHealth: 0, // every health factor is zero for this vector
			description:    "Risk clamped at the upper bound",
		},
		{
			name: "very diverse portfolio clamps risk to 0",
			features: FeatureVector{
				TokenDiversity: 10,
			},
			expectedRisk:   0,   // (1-10)*20 pushes the sum negative
			expectedHealth: 100, // 10*20 diversity factor alone exceeds the cap
			description:    "Risk clamped at the lower bound",
		},
		{
			name:           "empty features",
			features:       FeatureVector{},
			expectedRisk:   20, // (1-0)*20
			expectedHealth: 20, // (1-0)*20
			description:    "Zero vector still produces the diversity/holding terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, health := c.Scores(tt.features)
			if math.Abs(risk-tt.expectedRisk) > tolerance {
				t.Errorf("risk = %v, expected %v (%s)", risk, tt.expectedRisk, tt.description)
			}
			if math.Abs(health-tt.expectedHealth) > tolerance {
				t.Errorf("health = %v, expected %v (%s)", health, tt.expectedHealth, tt.description)
			}
		})
	}
}

func TestScoresAlwaysInRange(t *testing.T) {
	c := NewClassifier()

	vectors := []FeatureVector{
		{},
		{TxFrequency: 1000, AvgTxValue: 1000, ActivityRecency: 1},
		{TokenDiversity: 100, DAOEngagement: 100, TransactionCount: 1000000},
		{TokenDiversity: -5, ActivityRecency: -1, TxFrequency: -10},
	}
	for _, f := range vectors {
		risk, health := c.Scores(f)
		if risk < 0 || risk > 100 {
			t.Errorf("risk %v out of [0,100] for %+v", risk, f)
		}
		if health < 0 || health > 100 {
			t.Errorf("health %v out of [0,100] for %+v", health, f)
		}
	}
}

func TestConfidenceDistribution(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name        string
		features    FeatureVector
		expected    map[string]float64
		description string
	}{
		{
			name:     "no adjustments stays uniform",
			features: FeatureVector{ActivityRecency: 0.5},
			expected: map[string]float64{
				TypeInvestor:     20,
				TypeNFTCollector: 20,
				TypeDAOMember:    20,
				TypeDegenTrader:  20,
				TypeDormant:      20,
			},
			description: "Uniform prior survives when nothing fires",
		},
		{
			name:     "dormant adjustment",
			features: FeatureVector{ActivityRecency: 0.005},
			expected: map[string]float64{
				TypeInvestor:     9.09,
				TypeNFTCollector: 9.09,
				TypeDAOMember:    9.09,
				TypeDegenTrader:  9.09,
				TypeDormant:      63.64,
			},
			description: "Dormant +50, others -10, normalized over 110",
		},
		{
			name: "multiple adjustments fire together",
			features: FeatureVector{
				ActivityRecency: 0.5,
				NFTFocus:        0.6,
				DAOEngagement:   0.2,
				TxFrequency:     6,
			},
			expected: map[string]float64{
				TypeInvestor:     6.25,
				TypeNFTCollector: 31.25,
				TypeDAOMember:    31.25,
				TypeDegenTrader:  31.25,
				TypeDormant:      0,
			},
			description: "Dormant driven to exactly zero by two -10 hits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ConfidenceDistribution(tt.features)
			for personaType, exp := range tt.expected {
				if math.Abs(got[personaType]-exp) > 0.01 {
					t.Errorf("%s = %v, expected %v (%s)", personaType, got[personaType], exp, tt.description)
				}
			}
		})
	}
}

func TestConfidenceDistributionSumsTo100(t *testing.T) {
	c := NewClassifier()

	vectors := []FeatureVector{
		{ActivityRecency: 0.5},
		{ActivityRecency: 0.005},
		{ActivityRecency: 0.005, DAOEngagement: 0.2, TxFrequency: 6},
		{NFTFocus: 0.9, DAOEngagement: 0.5, TxFrequency: 100, ActivityRecency: 0.5},
	}
	for _, f := range vectors {
		dist := c.ConfidenceDistribution(f)
		if len(dist) != 5 {
			t.Fatalf("distribution has %d entries, expected 5", len(dist))
		}
		var sum float64
		for _, v := range dist {
			sum += v
		}
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("distribution sums to %v for %+v, expected 100", sum, f)
		}
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier()
	rec := &wallet.Record{
		TransactionCount: 50,
		TokenCount:       10,
		NFTCount:         2,
		DaysSinceLastTx:  3,
		DAOVoteCount:     10,
	}

	got := c.Classify(rec)
	if got.WalletType != TypeDAOMember {
		t.Errorf("WalletType = %q, expected %q", got.WalletType, TypeDAOMember)
	}
	if got.Confidence != got.AllTypesConfidence[got.WalletType] {
		t.Errorf("Confidence %v does not match distribution entry %v",
			got.Confidence, got.AllTypesConfidence[got.WalletType])
	}
	if got.RiskScore < 0 || got.RiskScore > 100 || got.HealthScore < 0 || got.HealthScore > 100 {
		t.Errorf("scores out of range: risk=%v health=%v", got.RiskScore, got.HealthScore)
	}

	again := c.Classify(rec)
	if again.WalletType != got.WalletType || again.RiskScore != got.RiskScore ||
		again.HealthScore != got.HealthScore || again.Confidence != got.Confidence {
		t.Errorf("repeated classification differs: %+v vs %+v", again, got)
	}
}

func TestDefaultClassification(t *testing.T) {
	got := NewClassifier().DefaultClassification()
	if got.WalletType != TypeUnknown {
		t.Errorf("WalletType = %q, expected %q", got.WalletType, TypeUnknown)
	}
	if got.Confidence != 0.0 || got.RiskScore != 25.0 || got.HealthScore != 50.0 {
		t.Errorf("default classification = %+v, expected confidence 0, risk 25, health 50", got)
	}
}
