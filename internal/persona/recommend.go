package persona

// Recommendations lists suggested platforms per category for a persona type.
type Recommendations struct {
	DApps []string `json:"dapps"`
	NFTs  []string `json:"nfts"`
	DeFi  []string `json:"defi"`
	DAOs  []string `json:"daos"`
}

var recommendationTables = map[string]Recommendations{
	TypeInvestor: {
		DApps: []string{"DeBank", "Zapper.fi", "Zerion"},
		NFTs:  []string{},
		DeFi:  []string{"Aave", "Compound", "Yearn Finance"},
		DAOs:  []string{"MakerDAO", "Aave Governance"},
	},
	TypeNFTCollector: {
		DApps: []string{"OpenSea", "Blur", "Rarible"},
		NFTs:  []string{"Art Blocks", "PROOF Collective", "Azuki"},
		DeFi:  []string{"NFTfi", "Arcade"},
		DAOs:  []string{},
	},
	TypeDAOMember: {
		DApps: []string{"Snapshot", "Tally", "Boardroom"},
		NFTs:  []string{},
		DeFi:  []string{"Index Coop", "Balancer"},
		DAOs:  []string{"Gitcoin", "Optimism Collective", "ENS DAO"},
	},
	TypeDegenTrader: {
		DApps: []string{"dYdX", "GMX", "PancakeSwap"},
		NFTs:  []string{"Memeland", "Pudgy Penguins"},
		DeFi:  []string{"Curve", "Synthetix", "Perpetual Protocol"},
		DAOs:  []string{},
	},
	TypeDormant: {
		DApps: []string{"Revoke.cash", "Etherscan", "Zapper.fi"},
		NFTs:  []string{},
		DeFi:  []string{"Lido", "Rocket Pool", "Yearn Finance"},
		DAOs:  []string{},
	},
}

// Recommend returns the static table for a persona type. Unrecognized
// types get the Dormant/Inactive table.
func Recommend(walletType string) Recommendations {
	if r, ok := recommendationTables[walletType]; ok {
		return r
	}
	return recommendationTables[TypeDormant]
}

// DefaultRecommendations is the documented set returned alongside the
// default classification when no wallet data could be fetched.
func DefaultRecommendations() Recommendations {
	return Recommendations{
		DApps: []string{"Etherscan", "Revoke.cash", "Zapper.fi"},
		NFTs:  []string{},
		DeFi:  []string{"Uniswap", "Aave"},
		DAOs:  []string{},
	}
}
