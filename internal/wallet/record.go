package wallet

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// Record is a normalized snapshot of a wallet's on-chain history. It is
// rebuilt per request (optionally served from a short-lived cache) and
// never persisted.
type Record struct {
	Address    string  `json:"address"`
	ETHBalance float64 `json:"eth_balance"` // Ether units

	TransactionCount int     `json:"transaction_count"`
	TokenCount       int     `json:"token_count"`
	NFTCount         int     `json:"nft_count"`
	DaysSinceLastTx  float64 `json:"days_since_last_transaction"`

	DeFiInteractionCount int            `json:"defi_interaction_count"`
	DAOVoteCount         int            `json:"dao_vote_count"`
	DeFiProtocols        map[string]int `json:"defi_protocols"`
	DAOParticipation     map[string]int `json:"dao_participation"`

	TokenBalances []TokenBalance `json:"token_balances"`
	NFTs          []NFT          `json:"nfts"`

	// Transactions holds up to ten of the newest transactions for feature
	// derivation; RecentTransactions is the five-entry display form.
	Transactions       []Transaction       `json:"transactions"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// TokenBalance is one ERC20 holding. RawValue stays a string so decoding
// failures degrade per consumer instead of at fetch time.
type TokenBalance struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	RawValue string `json:"raw_value"`
	Decimals int    `json:"decimals"`
}

// NFT is one owned NFT, reduced to its collection
type NFT struct {
	CollectionName string `json:"collection_name"`
}

// Transaction is one on-chain transaction in analysis form
type Transaction struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	ValueWei  string `json:"value_wei"`
	Timestamp int64  `json:"timestamp"`
}

// RecentTransaction is the display form used in API responses
type RecentTransaction struct {
	Hash      string  `json:"hash"`
	Timestamp string  `json:"timestamp"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Value     float64 `json:"value"` // Ether units
	Method    string  `json:"method"`
}

// DefaultRecord is the documented substitute when upstream data cannot be
// fetched: an empty wallet last seen a year ago.
func DefaultRecord(address string) *Record {
	return &Record{
		Address:          strings.ToLower(address),
		TransactionCount: 0,
		TokenCount:       0,
		NFTCount:         0,
		DaysSinceLastTx:  365,
		DeFiProtocols:    map[string]int{},
		DAOParticipation: map[string]int{},
	}
}

// WeiToEther converts a decimal wei string to Ether units. Malformed or
// negative input converts to 0.
func WeiToEther(wei string) float64 {
	i, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok || i.Sign() < 0 {
		return 0
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(i), big.NewFloat(params.Ether)).Float64()
	return eth
}

// DecodeTokenValue converts a raw token amount to its decimal-adjusted
// value. Malformed input converts to 0; out-of-range decimals fall back
// to the ERC20 default of 18.
func DecodeTokenValue(raw string, decimals int) float64 {
	i, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || i.Sign() < 0 {
		return 0
	}
	if decimals < 0 || decimals > 77 {
		decimals = 18
	}
	den := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	v, _ := new(big.Float).Quo(new(big.Float).SetInt(i), den).Float64()
	return v
}
