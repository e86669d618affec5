package persona

import (
	"fmt"
	"sort"

	"github.com/walletlens/walletlens/internal/wallet"
)

type TimelineEntry struct {
	Timestamp int64   `json:"timestamp"`
	Type      string  `json:"type"`
	Hash      string  `json:"hash"`
	Value     float64 `json:"value"`
	To        string  `json:"to"`
	From      string  `json:"from"`
}

type PortfolioEntry struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
}

type CollectionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ProtocolCount struct {
	Protocol     string `json:"protocol"`
	Interactions int    `json:"interactions"`
}

type DAOCount struct {
	DAO   string `json:"dao"`
	Votes int    `json:"votes"`
}

// VizBundle is the chart-ready reshaping of a wallet Record. All slices
// are non-nil so the response always carries chartable data.
type VizBundle struct {
	Timeline         []TimelineEntry   `json:"timeline"`
	Portfolio        []PortfolioEntry  `json:"portfolio"`
	NFTCollections   []CollectionCount `json:"nft_collections"`
	DeFiInteractions []ProtocolCount   `json:"defi_interactions"`
	DAOParticipation []DAOCount        `json:"dao_participation"`
}

// Aggregate reshapes a Record for frontend charts. It never fails:
// malformed per-item fields degrade to zero values, a nil record yields
// the default bundle.
func Aggregate(rec *wallet.Record) VizBundle {
	bundle := VizBundle{
		Timeline:         []TimelineEntry{},
		Portfolio:        []PortfolioEntry{},
		NFTCollections:   []CollectionCount{},
		DeFiInteractions: []ProtocolCount{},
		DAOParticipation: []DAOCount{},
	}
	if rec == nil {
		return withDefaults(bundle)
	}

	for _, tx := range rec.Transactions {
		bundle.Timeline = append(bundle.Timeline, TimelineEntry{
			Timestamp: tx.Timestamp,
			Type:      "transaction",
			Hash:      tx.Hash,
			Value:     wallet.WeiToEther(tx.ValueWei),
			To:        tx.To,
			From:      tx.From,
		})
	}

	for _, tb := range rec.TokenBalances {
		value := wallet.DecodeTokenValue(tb.RawValue, tb.Decimals)
		if value <= 0 {
			continue
		}
		symbol := tb.Symbol
		if symbol == "" {
			symbol = "Unknown"
		}
		name := tb.Name
		if name == "" {
			name = "Unknown Token"
		}
		bundle.Portfolio = append(bundle.Portfolio, PortfolioEntry{
			Symbol: symbol,
			Value:  value,
			Name:   name,
			Type:   "ERC20",
		})
	}

	if len(rec.NFTs) > 0 {
		counts := map[string]int{}
		for _, nft := range rec.NFTs {
			name := nft.CollectionName
			if name == "" {
				name = "Unknown Collection"
			}
			counts[name]++
		}
		for name, count := range counts {
			bundle.NFTCollections = append(bundle.NFTCollections, CollectionCount{Name: name, Count: count})
		}
		sort.Slice(bundle.NFTCollections, func(i, j int) bool {
			return bundle.NFTCollections[i].Name < bundle.NFTCollections[j].Name
		})

		// A single aggregate entry keeps NFTs from dominating the pie
		// chart, and only when there are few real token positions.
		if len(bundle.Portfolio) < 3 {
			bundle.Portfolio = append(bundle.Portfolio, PortfolioEntry{
				Symbol: "NFTs",
				Value:  0.1,
				Name:   fmt.Sprintf("NFT Collections (%d items)", len(rec.NFTs)),
				Type:   "NFT",
			})
		}
	}

	for protocol, count := range rec.DeFiProtocols {
		bundle.DeFiInteractions = append(bundle.DeFiInteractions, ProtocolCount{Protocol: protocol, Interactions: count})
	}
	sort.Slice(bundle.DeFiInteractions, func(i, j int) bool {
		return bundle.DeFiInteractions[i].Protocol < bundle.DeFiInteractions[j].Protocol
	})

	for dao, votes := range rec.DAOParticipation {
		bundle.DAOParticipation = append(bundle.DAOParticipation, DAOCount{DAO: dao, Votes: votes})
	}
	sort.Slice(bundle.DAOParticipation, func(i, j int) bool {
		return bundle.DAOParticipation[i].DAO < bundle.DAOParticipation[j].DAO
	})

	return withDefaults(bundle)
}

func withDefaults(bundle VizBundle) VizBundle {
	if len(bundle.Portfolio) == 0 {
		bundle.Portfolio = []PortfolioEntry{{Symbol: "ETH", Value: 0.1, Name: "Ethereum", Type: "ERC20"}}
	}
	if len(bundle.DeFiInteractions) == 0 {
		bundle.DeFiInteractions = []ProtocolCount{{Protocol: "Unknown", Interactions: 0}}
	}
	return bundle
}
