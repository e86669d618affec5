package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/walletlens/walletlens/internal/config"
)

// NewRouter wires the handlers behind the middleware chain:
// CORS → rate limit → logging → recovery → mux.
func NewRouter(cfg *config.Config, log *logrus.Logger, a *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", a.Analyze)
	mux.HandleFunc("/", a.Root)

	h := http.Handler(mux)
	h = withRecovery(log)(h)
	h = withLogging(log)(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = withCORS(cfg.CORSOrigins)(h)
	return h
}
