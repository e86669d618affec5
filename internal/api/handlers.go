package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/walletlens/walletlens/internal/bio"
	"github.com/walletlens/walletlens/internal/config"
	"github.com/walletlens/walletlens/internal/metrics"
	"github.com/walletlens/walletlens/internal/persona"
	"github.com/walletlens/walletlens/internal/storage"
	"github.com/walletlens/walletlens/internal/wallet"
)

// Fetcher supplies wallet activity records
type Fetcher interface {
	Fetch(ctx context.Context, address string) (*wallet.Record, error)
}

// BioGenerator produces persona bios
type BioGenerator interface {
	Generate(ctx context.Context, rec *wallet.Record, cls persona.Classification) bio.Result
}

// AuditStore records analysis requests
type AuditStore interface {
	InsertAnalysis(ctx context.Context, req *storage.AnalysisRequest) error
}

// API holds the request handlers and their collaborators
type API struct {
	cfg        *config.Config
	log        *logrus.Logger
	fetcher    Fetcher
	classifier *persona.Classifier
	bio        BioGenerator
	audit      AuditStore
}

func New(cfg *config.Config, log *logrus.Logger, fetcher Fetcher, classifier *persona.Classifier, generator BioGenerator, audit AuditStore) *API {
	return &API{
		cfg:        cfg,
		log:        log,
		fetcher:    fetcher,
		classifier: classifier,
		bio:        generator,
		audit:      audit,
	}
}

type analyzeRequest struct {
	Address string `json:"address"`
}

type analyzeResponse struct {
	Address            string                     `json:"address"`
	WalletType         string                     `json:"wallet_type"`
	Confidence         float64                    `json:"confidence"`
	PersonaBio         string                     `json:"persona_bio"`
	IsAIGenerated      bool                       `json:"is_ai_generated"`
	RiskScore          float64                    `json:"risk_score"`
	HealthScore        float64                    `json:"health_score"`
	ETHBalance         float64                    `json:"eth_balance"`
	RecentTransactions []wallet.RecentTransaction `json:"recent_transactions"`
	Recommendations    persona.Recommendations    `json:"recommendations"`
	VisualizationData  persona.VizBundle          `json:"visualization_data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze handles POST /api/analyze. Upstream failures never surface as
// errors; the response degrades to the default persona bundle instead.
func (a *API) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if !common.IsHexAddress(req.Address) || len(req.Address) != 42 || req.Address[:2] != "0x" {
		a.recordAudit(req.Address, "invalid", 0)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid Ethereum address format"})
		return
	}

	start := time.Now()
	outcome := "ok"

	rec, err := a.fetcher.Fetch(r.Context(), req.Address)
	var cls persona.Classification
	var recommendations persona.Recommendations
	if err != nil {
		a.log.WithError(err).WithField("address", req.Address).Warn("Wallet fetch failed, using default persona bundle")
		outcome = "default"
		rec = wallet.DefaultRecord(req.Address)
		cls = a.classifier.DefaultClassification()
		recommendations = persona.DefaultRecommendations()
	} else {
		cls = a.classifier.Classify(rec)
		recommendations = persona.Recommend(cls.WalletType)
	}

	bioResult := a.bio.Generate(r.Context(), rec, cls)
	viz := persona.Aggregate(rec)

	duration := time.Since(start)
	metrics.RecordAnalysis(duration, outcome)
	metrics.RecordClassification(cls.WalletType, cls.RiskScore, cls.HealthScore)
	a.recordAudit(req.Address, outcome, duration)

	recent := rec.RecentTransactions
	if recent == nil {
		recent = []wallet.RecentTransaction{}
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Address:            req.Address,
		WalletType:         cls.WalletType,
		Confidence:         cls.Confidence,
		PersonaBio:         bioResult.Text,
		IsAIGenerated:      bioResult.AIGenerated,
		RiskScore:          cls.RiskScore,
		HealthScore:        cls.HealthScore,
		ETHBalance:         rec.ETHBalance,
		RecentTransactions: recent,
		Recommendations:    recommendations,
		VisualizationData:  viz,
	})
}

// Root handles GET / with service information
func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "WalletLens API",
		"version": "1.0.0",
		"analyze": "POST /api/analyze",
	})
}

// recordAudit inserts the audit row off the request path. Failures are
// logged and never affect the response.
func (a *API) recordAudit(address, outcome string, duration time.Duration) {
	if a.audit == nil {
		return
	}
	entry := &storage.AnalysisRequest{
		Address:    address,
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.audit.InsertAnalysis(ctx, entry); err != nil {
			a.log.WithError(err).Warn("Failed to record analysis audit entry")
		}
	}()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
