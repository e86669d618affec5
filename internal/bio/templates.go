package bio

import "github.com/walletlens/walletlens/internal/persona"

// Fallback bios, two per persona type. The first entry is the substitute
// when the model is disabled or returns too little text.
var personaTemplates = map[string][]string{
	persona.TypeInvestor: {
		"I'm a long-term DeFi believer focused on sustainable yields and strategic token acquisitions. My portfolio is carefully balanced across major ecosystems, with particular interest in governance tokens that offer both utility and appreciation potential.",
		"Building wealth through smart contract interactions is my passion. I regularly rebalance my positions based on market conditions, preferring established protocols with proven track records.",
	},
	persona.TypeNFTCollector: {
		"Digital art connoisseur with a growing collection of unique NFTs spanning various genres and communities. I'm particularly drawn to generative art and projects with strong artistic vision.",
		"I hunt for hidden gems in the NFT space, balancing blue-chip collections with emerging artists. My collection reflects both aesthetic appreciation and community participation.",
	},
	persona.TypeDAOMember: {
		"Governance enthusiast actively shaping the future of decentralized protocols through proposal creation and voting. I believe in the power of collective decision-making to build better financial systems.",
		"I split my time between multiple DAOs, contributing proposals and voting on critical protocol changes. Community-driven development is the future of blockchain technology.",
	},
	persona.TypeDegenTrader: {
		"Living on the edge of DeFi with a taste for volatile assets and emerging protocols. I'm always chasing the next big opportunity, even if it means taking calculated risks.",
		"Fast moves and alpha hunting define my on-chain strategy. I've developed a sixth sense for emerging trends and don't mind the occasional high-risk position if the potential rewards are substantial.",
	},
	persona.TypeDormant: {
		"I'm a patient hodler who believes in the long-term vision of crypto. I don't need to make daily moves to build wealth - time in the market beats timing the market.",
		"My wallet may seem quiet, but that's by design. I've positioned myself in solid assets that don't require constant maintenance, allowing me to focus on life beyond the blockchain.",
	},
}

const genericTemplate = "Crypto enthusiast exploring the blockchain ecosystem."

func templateFor(walletType string) string {
	if templates, ok := personaTemplates[walletType]; ok {
		return templates[0]
	}
	return genericTemplate
}
