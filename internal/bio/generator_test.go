package bio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/persona"
	"github.com/walletlens/walletlens/internal/wallet"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testConfig(ollamaURL string) *config.Config {
	return &config.Config{
		OllamaURL:   ollamaURL,
		BioModel:    "llama3.1",
		BioMinWords: 10,
		BioTimeout:  5 * time.Second,
	}
}

func ollamaServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"content": reply},
		})
	}))
}

func TestGenerateUsesModelOutput(t *testing.T) {
	reply := "A seasoned on-chain investor balancing blue chips with experimental DeFi positions across multiple ecosystems."
	srv := ollamaServer(t, reply)
	defer srv.Close()

	g := NewGenerator(testConfig(srv.URL), testLogger())
	rec := &wallet.Record{
		TokenBalances: []wallet.TokenBalance{
			{Symbol: "USDC"}, {Symbol: "WETH"}, {Symbol: "LINK"}, {Symbol: "UNI"},
		},
		DeFiProtocols:    map[string]int{"Uniswap V2": 3, "Aave V2": 1, "1inch": 2},
		DAOParticipation: map[string]int{"Compound": 1},
	}
	cls := persona.Classification{
		WalletType: persona.TypeInvestor,
		Features:   persona.FeatureVector{TransactionCount: 50, TokenCount: 4},
	}

	got := g.Generate(context.Background(), rec, cls)
	if !got.AIGenerated {
		t.Error("expected AIGenerated=true for a long model reply")
	}
	if !strings.HasPrefix(got.Text, reply) {
		t.Errorf("Text = %q, expected it to start with the model reply", got.Text)
	}
	if !strings.Contains(got.Text, "Currently holding USDC, WETH, LINK among other assets.") {
		t.Errorf("Text = %q, expected top-3 token enhancement", got.Text)
	}
	if !strings.Contains(got.Text, "Active in 1inch, Aave V2 protocols.") {
		t.Errorf("Text = %q, expected top-2 protocol enhancement", got.Text)
	}
	if !strings.Contains(got.Text, "Participated in governance for Compound.") {
		t.Errorf("Text = %q, expected DAO enhancement", got.Text)
	}
}

func TestGenerateShortOutputFallsBackToTemplate(t *testing.T) {
	srv := ollamaServer(t, "Too short.")
	defer srv.Close()

	g := NewGenerator(testConfig(srv.URL), testLogger())
	cls := persona.Classification{WalletType: persona.TypeDegenTrader}

	got := g.Generate(context.Background(), &wallet.Record{}, cls)
	if got.AIGenerated {
		t.Error("expected AIGenerated=false when the model reply is under the word floor")
	}
	if !strings.HasPrefix(got.Text, personaTemplates[persona.TypeDegenTrader][0]) {
		t.Errorf("Text = %q, expected the first Degen Trader template", got.Text)
	}
}

func TestGenerateDisabledUsesTemplate(t *testing.T) {
	g := NewGenerator(testConfig(""), testLogger())
	if g.Enabled() {
		t.Fatal("generator should be disabled without a provider")
	}

	got := g.Generate(context.Background(), &wallet.Record{}, persona.Classification{WalletType: persona.TypeDormant})
	if got.AIGenerated {
		t.Error("expected AIGenerated=false when disabled")
	}
	if !strings.HasPrefix(got.Text, personaTemplates[persona.TypeDormant][0]) {
		t.Errorf("Text = %q, expected the first Dormant/Inactive template", got.Text)
	}
}

func TestGenerateProviderErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGenerator(testConfig(srv.URL), testLogger())
	got := g.Generate(context.Background(), &wallet.Record{}, persona.Classification{WalletType: persona.TypeInvestor})
	if got.AIGenerated {
		t.Error("expected AIGenerated=false on provider error")
	}
	if !strings.HasPrefix(got.Text, personaTemplates[persona.TypeInvestor][0]) {
		t.Errorf("Text = %q, expected the first Investor template", got.Text)
	}
}

func TestGenerateUnknownTypeUsesGenericTemplate(t *testing.T) {
	g := NewGenerator(testConfig(""), testLogger())
	got := g.Generate(context.Background(), wallet.DefaultRecord("0xabc"), persona.Classification{WalletType: persona.TypeUnknown})
	if got.AIGenerated {
		t.Error("expected AIGenerated=false for the unknown type")
	}
	if got.Text != genericTemplate {
		t.Errorf("Text = %q, expected the generic template", got.Text)
	}
}

func TestBuildPrompt(t *testing.T) {
	rec := &wallet.Record{
		DAOVoteCount:  2,
		DeFiProtocols: map[string]int{"Uniswap V2": 3, "Aave V2": 1},
	}
	cls := persona.Classification{
		WalletType: persona.TypeDAOMember,
		Features:   persona.FeatureVector{TransactionCount: 30, TokenCount: 5, NFTCount: 1},
	}

	got := buildPrompt(rec, cls)
	expected := "Wallet with 30 transactions, holds 5 different tokens, owns 1 NFTs, " +
		"has participated in 2 DAO votes, uses DeFi protocols like Aave V2, Uniswap V2. " +
		"This wallet is classified as a DAO Member.\n\nBio:"
	if got != expected {
		t.Errorf("buildPrompt() =\n%q\nexpected\n%q", got, expected)
	}
}

func TestBuildPromptMinimal(t *testing.T) {
	got := buildPrompt(wallet.DefaultRecord("0xabc"), persona.Classification{WalletType: persona.TypeUnknown})
	expected := "Wallet with 0 transactions. This wallet is classified as a Unknown.\n\nBio:"
	if got != expected {
		t.Errorf("buildPrompt() = %q, expected %q", got, expected)
	}
}
