package persona

import (
	"math"

	"github.com/walletlens/walletlens/internal/wallet"
)

// Persona types. Unknown is reserved for the boundary default when no
// wallet data could be fetched and is never produced by classification.
const (
	TypeInvestor     = "Investor"
	TypeNFTCollector = "NFT Collector"
	TypeDAOMember    = "DAO Member"
	TypeDegenTrader  = "Degen Trader"
	TypeDormant      = "Dormant/Inactive"
	TypeUnknown      = "Unknown"
)

var personaTypes = []string{
	TypeInvestor,
	TypeNFTCollector,
	TypeDAOMember,
	TypeDegenTrader,
	TypeDormant,
}

type Classification struct {
	WalletType         string             `json:"wallet_type"`
	Confidence         float64            `json:"confidence"`
	AllTypesConfidence map[string]float64 `json:"all_types_confidence,omitempty"`
	RiskScore          float64            `json:"risk_score"`
	HealthScore        float64            `json:"health_score"`
	Features           FeatureVector      `json:"features"`
}

// Classifier maps feature vectors to persona types and scores. It is
// stateless; one instance is constructed in main and shared across requests.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// ClassifyType applies the rule set in priority order, first match wins.
// Inactivity is checked before anything else because a stale wallet's
// behavioral ratios are not reliable signal.
func (c *Classifier) ClassifyType(f FeatureVector) string {
	if f.TransactionCount < 5 || f.ActivityRecency < 0.01 {
		return TypeDormant
	}
	if f.NFTCount > 10 && f.NFTFocus > 0.5 {
		return TypeNFTCollector
	}
	if f.DAOEngagement > 0.1 {
		return TypeDAOMember
	}
	if f.TxFrequency > 5 && f.AvgTxValue > 1 {
		return TypeDegenTrader
	}
	return TypeInvestor
}

// Scores computes the risk and health scores as weighted factor sums,
// each clamped to [0,100]. They are independent of the persona type.
func (c *Classifier) Scores(f FeatureVector) (risk, health float64) {
	risk = f.TxFrequency*5 +
		math.Min(f.AvgTxValue*10, 50) +
		(1-f.TokenDiversity)*20 +
		f.ActivityRecency*20

	health = math.Min(float64(f.TransactionCount)/10, 30) +
		f.TokenDiversity*20 +
		f.DAOEngagement*30 +
		(1-f.ActivityRecency)*20

	return clamp(risk, 0, 100), clamp(health, 0, 100)
}

// ConfidenceDistribution computes a normalized share per persona type.
// It starts from a uniform prior and applies additive adjustments that
// may fire together; negative intermediate values are kept and only the
// final normalization brings the distribution to a 100 total. The top
// entry is not guaranteed to match ClassifyType's pick.
func (c *Classifier) ConfidenceDistribution(f FeatureVector) map[string]float64 {
	dist := map[string]float64{
		TypeInvestor:     20,
		TypeNFTCollector: 20,
		TypeDAOMember:    20,
		TypeDegenTrader:  20,
		TypeDormant:      20,
	}

	if f.NFTFocus > 0.5 {
		dist[TypeNFTCollector] += 30
		dist[TypeInvestor] -= 10
	}
	if f.DAOEngagement > 0.1 {
		dist[TypeDAOMember] += 30
		dist[TypeDormant] -= 10
	}
	if f.TxFrequency > 5 {
		dist[TypeDegenTrader] += 30
		dist[TypeDormant] -= 10
	}
	if f.ActivityRecency < 0.01 {
		dist[TypeDormant] += 50
		for _, t := range personaTypes {
			if t != TypeDormant {
				dist[t] -= 10
			}
		}
	}

	var total float64
	for _, v := range dist {
		total += v
	}
	for t, v := range dist {
		dist[t] = math.Round(v/total*100*100) / 100
	}
	return dist
}

// Classify runs feature extraction, typing, scoring and the confidence
// distribution over a wallet Record.
func (c *Classifier) Classify(rec *wallet.Record) Classification {
	f := Extract(rec)
	walletType := c.ClassifyType(f)
	risk, health := c.Scores(f)
	dist := c.ConfidenceDistribution(f)

	return Classification{
		WalletType:         walletType,
		Confidence:         dist[walletType],
		AllTypesConfidence: dist,
		RiskScore:          risk,
		HealthScore:        health,
		Features:           f,
	}
}

// DefaultClassification is the documented substitute when no wallet data
// could be fetched.
func (c *Classifier) DefaultClassification() Classification {
	return Classification{
		WalletType:  TypeUnknown,
		Confidence:  0.0,
		RiskScore:   25.0,
		HealthScore: 50.0,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
