package etherscan

import "encoding/json"

// envelope is the common wrapper around every Etherscan account API response.
// Status is "1" on success; on failure Result often degrades to a bare string.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Transaction is a normal transaction as returned by the txlist action.
// Etherscan serializes every numeric field as a string.
type Transaction struct {
	BlockNumber  string `json:"blockNumber"`
	TimeStamp    string `json:"timeStamp"`
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"` // wei
	Gas          string `json:"gas"`
	GasPrice     string `json:"gasPrice"`
	IsError      string `json:"isError"`
	FunctionName string `json:"functionName"`
}

// Token is an ERC20 holding as returned by the tokenlist action.
// Depending on the API tier the quantity arrives as tokenValue or
// tokenBalance; Quantity picks whichever is present.
type Token struct {
	TokenAddress string `json:"tokenAddress"`
	TokenName    string `json:"tokenName"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenDecimal string `json:"tokenDecimal"`
	TokenValue   string `json:"tokenValue"`
	TokenBalance string `json:"tokenBalance"`
}

// Quantity returns the raw token amount string
func (t Token) Quantity() string {
	if t.TokenValue != "" {
		return t.TokenValue
	}
	return t.TokenBalance
}
