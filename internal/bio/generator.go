package bio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/metrics"
	"github.com/walletlens/walletlens/internal/persona"
	"github.com/walletlens/walletlens/internal/wallet"
)

// Result is a generated bio with its provenance flag.
type Result struct {
	Text        string
	AIGenerated bool
}

// Generator produces persona bios from a text-generation provider, with
// a template fallback when the provider is disabled, fails, or returns
// too little text.
type Generator struct {
	client *http.Client
	log    *logrus.Logger

	provider string // "openai", "ollama" or "" when disabled
	apiKey   string
	model    string
	baseURL  string
	minWords int
}

func NewGenerator(cfg *config.Config, log *logrus.Logger) *Generator {
	g := &Generator{
		client:   &http.Client{Timeout: cfg.BioTimeout},
		log:      log,
		model:    cfg.BioModel,
		minWords: cfg.BioMinWords,
	}

	if cfg.OpenAIAPIKey != "" {
		g.provider = "openai"
		g.apiKey = cfg.OpenAIAPIKey
		g.baseURL = "https://api.openai.com/v1/chat/completions"
	} else if cfg.OllamaURL != "" {
		g.provider = "ollama"
		g.baseURL = strings.TrimRight(cfg.OllamaURL, "/") + "/api/chat"
	}

	if g.provider != "" {
		log.WithFields(logrus.Fields{
			"provider": g.provider,
			"model":    g.model,
		}).Info("Bio generator initialized")
	} else {
		log.Info("No bio provider configured, using templates only")
	}
	return g
}

func (g *Generator) Enabled() bool {
	return g.provider != ""
}

// Generate produces a bio for a classified wallet. The model path is best
// effort; any failure falls back to the first template for the wallet
// type. The enhancement step then appends concrete holdings and protocol
// details from the record.
func (g *Generator) Generate(ctx context.Context, rec *wallet.Record, cls persona.Classification) Result {
	start := time.Now()

	text := ""
	aiGenerated := true
	if g.Enabled() {
		generated, err := g.complete(ctx, buildPrompt(rec, cls))
		if err != nil {
			g.log.WithError(err).Warn("Bio generation failed, falling back to template")
		} else {
			text = strings.TrimSpace(generated)
		}
	}

	if len(strings.Fields(text)) < g.minWords {
		text = templateFor(cls.WalletType)
		aiGenerated = false
	}

	text = enhance(text, rec)
	metrics.RecordBio(aiGenerated, time.Since(start))
	return Result{Text: text, AIGenerated: aiGenerated}
}

// buildPrompt describes the wallet's observed activity and asks for a
// first-person bio.
func buildPrompt(rec *wallet.Record, cls persona.Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Wallet with %d transactions", cls.Features.TransactionCount)

	if cls.Features.TokenCount > 0 {
		fmt.Fprintf(&b, ", holds %d different tokens", cls.Features.TokenCount)
	}
	if cls.Features.NFTCount > 0 {
		fmt.Fprintf(&b, ", owns %d NFTs", cls.Features.NFTCount)
	}
	if rec != nil {
		if rec.DAOVoteCount > 0 {
			fmt.Fprintf(&b, ", has participated in %d DAO votes", rec.DAOVoteCount)
		}
		if protocols := sortedKeys(rec.DeFiProtocols); len(protocols) > 0 {
			fmt.Fprintf(&b, ", uses DeFi protocols like %s", strings.Join(head(protocols, 3), ", "))
		}
	}

	fmt.Fprintf(&b, ". This wallet is classified as a %s.\n\nBio:", cls.WalletType)
	return b.String()
}

// enhance appends concrete details from the record: up to three held
// token symbols, two DeFi protocols and two DAOs.
func enhance(text string, rec *wallet.Record) string {
	if rec == nil {
		return text
	}

	var symbols []string
	for _, tb := range rec.TokenBalances {
		if tb.Symbol == "" {
			continue
		}
		symbols = append(symbols, tb.Symbol)
		if len(symbols) == 3 {
			break
		}
	}
	if len(symbols) > 0 {
		text += fmt.Sprintf(" Currently holding %s among other assets.", strings.Join(symbols, ", "))
	}

	if protocols := sortedKeys(rec.DeFiProtocols); len(protocols) > 0 {
		text += fmt.Sprintf(" Active in %s protocols.", strings.Join(head(protocols, 2), ", "))
	}
	if daos := sortedKeys(rec.DAOParticipation); len(daos) > 0 {
		text += fmt.Sprintf(" Participated in governance for %s.", strings.Join(head(daos, 2), ", "))
	}
	return text
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	switch g.provider {
	case "openai":
		return g.callOpenAI(ctx, prompt)
	case "ollama":
		return g.callOllama(ctx, prompt)
	default:
		return "", fmt.Errorf("no bio provider configured")
	}
}

func (g *Generator) callOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": 256,
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding openai response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return result.Choices[0].Message.Content, nil
}

func (g *Generator) callOllama(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	return result.Message.Content, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
