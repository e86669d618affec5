package alchemy

// NFT is a single owned NFT as returned by the getNFTs endpoint
type NFT struct {
	Title    string   `json:"title"`
	Contract Contract `json:"contract"`
	ID       TokenID  `json:"id"`
}

// Contract identifies the NFT's collection
type Contract struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// TokenID carries the token identifier within the collection
type TokenID struct {
	TokenID string `json:"tokenId"`
}

// nftsResponse wraps the getNFTs API response
type nftsResponse struct {
	OwnedNFTs  []NFT `json:"ownedNfts"`
	TotalCount int   `json:"totalCount"`
}
