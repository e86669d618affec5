package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/walletlens/walletlens/internal/alchemy"
	"github.com/walletlens/walletlens/internal/cache"
	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/etherscan"
	"github.com/walletlens/walletlens/internal/metrics"
)

// Known DeFi router/lending contracts, checked against transaction
// counterparties. Addresses are lowercase.
var defiProtocols = map[string]string{
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": "Uniswap V2",
	"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45": "Uniswap V3",
	"0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9": "Aave V2",
	"0x1111111254fb6c44bac0bed2854e76f90643097d": "1inch",
}

// Known on-chain governance contracts
var daoGovernors = map[string]string{
	"0x408ed6354d4973f66138c91495f2f2fcbd8724c3": "Uniswap",
	"0xec568fffba86c094cf06b22134b23074dfe2252c": "Compound",
	"0x0bef27feb58e857046d630b2c03dfb7bae567494": "Aave",
}

type transactionSource interface {
	Transactions(ctx context.Context, address string, limit int) ([]etherscan.Transaction, error)
	TokenList(ctx context.Context, address string) ([]etherscan.Token, error)
	Balance(ctx context.Context, address string) (string, error)
}

type nftSource interface {
	NFTs(ctx context.Context, owner string) ([]alchemy.NFT, error)
}

// Fetcher assembles wallet Records from the block explorer and NFT APIs,
// with a short-lived cache in front.
type Fetcher struct {
	cfg       *config.Config
	etherscan transactionSource
	alchemy   nftSource
	cache     cache.Cache
	log       *logrus.Logger
	now       func() time.Time
}

func NewFetcher(cfg *config.Config, es transactionSource, al nftSource, c cache.Cache, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		cfg:       cfg,
		etherscan: es,
		alchemy:   al,
		cache:     c,
		log:       log,
		now:       time.Now,
	}
}

// Fetch builds the activity Record for an address. Token list and balance
// failures degrade to placeholders; transaction or NFT failures abort the
// fetch so the caller can fall back to DefaultRecord.
func (f *Fetcher) Fetch(ctx context.Context, address string) (*Record, error) {
	address = strings.ToLower(address)
	key := "wallet:" + address

	if data, ok := f.cache.Get(ctx, key); ok {
		var rec Record
		if err := json.Unmarshal(data, &rec); err == nil {
			metrics.RecordCacheLookup(true)
			return &rec, nil
		}
		f.log.WithField("address", address).Warn("Discarding undecodable cache entry")
	}
	metrics.RecordCacheLookup(false)

	var (
		txs        []etherscan.Transaction
		tokens     []etherscan.Token
		nfts       []alchemy.NFT
		balanceWei string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = f.etherscan.Transactions(gctx, address, f.cfg.TxHistoryLimit)
		if err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tokens, err = f.etherscan.TokenList(gctx, address)
		if err != nil {
			f.log.WithError(err).WithField("address", address).Warn("Token list unavailable, using ETH placeholder")
			tokens = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		balanceWei, err = f.etherscan.Balance(gctx, address)
		if err != nil {
			f.log.WithError(err).WithField("address", address).Warn("Balance unavailable, assuming zero")
			balanceWei = "0"
		}
		return nil
	})
	g.Go(func() error {
		var err error
		nfts, err = f.alchemy.NFTs(gctx, address)
		if err != nil {
			return fmt.Errorf("nfts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := f.assemble(address, txs, tokens, nfts, balanceWei)

	if data, err := json.Marshal(rec); err == nil {
		if err := f.cache.Set(ctx, key, data, f.cfg.CacheTTL); err != nil {
			f.log.WithError(err).Warn("Failed to cache wallet record")
		}
	}
	return rec, nil
}

func (f *Fetcher) assemble(address string, txs []etherscan.Transaction, tokens []etherscan.Token, nfts []alchemy.NFT, balanceWei string) *Record {
	rec := &Record{
		Address:          address,
		ETHBalance:       WeiToEther(balanceWei),
		TransactionCount: len(txs),
		NFTCount:         len(nfts),
		DeFiProtocols:    map[string]int{},
		DAOParticipation: map[string]int{},
	}

	// Transactions arrive newest first. No transactions, or an unparseable
	// timestamp, falls back to epoch 0 so the wallet reads as maximally stale.
	var last int64
	if len(txs) > 0 {
		last = parseUnix(txs[0].TimeStamp)
	}
	days := f.now().Sub(time.Unix(last, 0)).Hours() / 24
	if days < 0 {
		days = 0
	}
	rec.DaysSinceLastTx = days

	for _, tx := range txs {
		to := strings.ToLower(tx.To)
		if name, ok := defiProtocols[to]; ok {
			rec.DeFiInteractionCount++
			rec.DeFiProtocols[name]++
		}
		if name, ok := daoGovernors[to]; ok {
			rec.DAOVoteCount++
			rec.DAOParticipation[name]++
		}
	}

	if len(tokens) == 0 {
		tokens = []etherscan.Token{{
			TokenName:    "Ethereum",
			TokenSymbol:  "ETH",
			TokenDecimal: "18",
			TokenValue:   "1000000000000000000",
		}}
	}
	rec.TokenCount = len(tokens)
	for _, t := range tokens {
		decimals, err := strconv.Atoi(t.TokenDecimal)
		if err != nil {
			decimals = 18
		}
		rec.TokenBalances = append(rec.TokenBalances, TokenBalance{
			Symbol:   t.TokenSymbol,
			Name:     t.TokenName,
			RawValue: t.Quantity(),
			Decimals: decimals,
		})
	}

	for _, n := range nfts {
		name := n.Contract.Name
		if name == "" {
			name = "Unknown Collection"
		}
		rec.NFTs = append(rec.NFTs, NFT{CollectionName: name})
	}

	for i, tx := range txs {
		if i >= 10 {
			break
		}
		rec.Transactions = append(rec.Transactions, Transaction{
			Hash:      tx.Hash,
			From:      tx.From,
			To:        tx.To,
			ValueWei:  tx.Value,
			Timestamp: parseUnix(tx.TimeStamp),
		})
	}
	for i, tx := range rec.Transactions {
		if i >= 5 {
			break
		}
		ts := "Unknown"
		if tx.Timestamp > 0 {
			ts = time.Unix(tx.Timestamp, 0).UTC().Format("2006-01-02 15:04:05")
		}
		rec.RecentTransactions = append(rec.RecentTransactions, RecentTransaction{
			Hash:      tx.Hash,
			Timestamp: ts,
			From:      tx.From,
			To:        tx.To,
			Value:     WeiToEther(tx.ValueWei),
			Method:    methodName(txs[i].FunctionName),
		})
	}

	return rec
}

func parseUnix(s string) int64 {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || ts < 0 {
		return 0
	}
	return ts
}

// methodName reduces an ABI signature like "transfer(address,uint256)" to
// its bare name. Plain ETH sends carry no signature.
func methodName(functionName string) string {
	name := strings.TrimSpace(functionName)
	if name == "" {
		return "Transfer"
	}
	if i := strings.Index(name, "("); i > 0 {
		name = name[:i]
	}
	return name
}
