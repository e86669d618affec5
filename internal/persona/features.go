package persona

import (
	"math"

	"github.com/walletlens/walletlens/internal/wallet"
)

// FeatureVector is the fixed numeric summary derived from a wallet Record.
// Every field has a safe default, extraction never fails.
type FeatureVector struct {
	TransactionCount int     `json:"transaction_count"`
	TokenCount       int     `json:"token_count"`
	NFTCount         int     `json:"nft_count"`
	ActivityRecency  float64 `json:"activity_recency"`
	TokenDiversity   float64 `json:"token_diversity"`
	NFTFocus         float64 `json:"nft_focus"`
	DAOEngagement    float64 `json:"dao_engagement"`
	DeFiEngagement   float64 `json:"defi_engagement"`
	AvgTxValue       float64 `json:"avg_tx_value"`
	TxFrequency      float64 `json:"tx_frequency"`
}

// Extract derives a FeatureVector from a wallet Record. A nil record is
// treated as the empty default record.
func Extract(rec *wallet.Record) FeatureVector {
	if rec == nil {
		rec = wallet.DefaultRecord("")
	}

	f := FeatureVector{
		TransactionCount: rec.TransactionCount,
		TokenCount:       rec.TokenCount,
		NFTCount:         rec.NFTCount,
	}

	days := rec.DaysSinceLastTx
	if days >= 0 && !math.IsNaN(days) && !math.IsInf(days, 0) {
		f.ActivityRecency = 1.0 / (1.0 + days)
	}

	txFloor := float64(max(rec.TransactionCount, 1))
	f.TokenDiversity = float64(rec.TokenCount) / txFloor
	f.NFTFocus = float64(rec.NFTCount) / float64(max(rec.TokenCount+rec.NFTCount, 1))
	f.DAOEngagement = float64(rec.DAOVoteCount) / txFloor
	f.DeFiEngagement = float64(rec.DeFiInteractionCount) / txFloor

	var sum float64
	for _, tx := range rec.Transactions {
		sum += wallet.WeiToEther(tx.ValueWei)
	}
	f.AvgTxValue = sum / float64(max(len(rec.Transactions), 1))

	// Transactions are most-recent-first, so the span runs from the last
	// element (oldest) to the first (newest). Numerator and span both
	// describe the retained transaction window.
	if len(rec.Transactions) >= 2 {
		newest := rec.Transactions[0].Timestamp
		oldest := rec.Transactions[len(rec.Transactions)-1].Timestamp
		spanDays := math.Max(float64(newest-oldest)/86400, 1)
		f.TxFrequency = float64(len(rec.Transactions)) / spanDays
	}

	return f
}
