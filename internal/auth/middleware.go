// Package auth resolves API keys to tenants at the HTTP boundary.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hisaab-cloud/hisaab/internal/masterdata/companies"
	"github.com/hisaab-cloud/hisaab/internal/platform/cache"
	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Middleware authenticates requests by API key. Keys are issued as
// "<companyID>.<secret>"; the secret is verified against the bcrypt hash
// stored on the company row, and successful resolutions are cached by
// key fingerprint so the verification cost is paid once per TTL.
type Middleware struct {
	logger *slog.Logger
	repo   companies.Repository
	cache  *cache.TenantCache
}

// NewMiddleware builds the auth middleware.
func NewMiddleware(logger *slog.Logger, repo companies.Repository, tenants *cache.TenantCache) *Middleware {
	return &Middleware{logger: logger, repo: repo, cache: tenants}
}

// RequireTenant rejects any request without a valid X-API-Key and stores the
// resolved tenant in the request context.
func (m *Middleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			httpx.RespondError(w, m.logger, httpx.Unauthorized("NO_COMPANY", "missing API key"))
			return
		}

		companyID, err := m.resolve(r, key)
		if err != nil {
			httpx.RespondError(w, m.logger, err)
			return
		}

		tc := shared.TenantContext{CompanyID: companyID}
		if uid := r.Header.Get("X-User-ID"); uid != "" {
			if parsed, err := strconv.ParseInt(uid, 10, 64); err == nil {
				tc.UserID = parsed
			}
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithTenant(r.Context(), tc)))
	})
}

func (m *Middleware) resolve(r *http.Request, key string) (int64, error) {
	ctx := r.Context()
	fp := Fingerprint(key)

	if id, err := m.cache.Get(ctx, fp); err != nil {
		m.logger.Warn("tenant cache lookup failed", slog.Any("error", err))
	} else if id != 0 {
		return id, nil
	}

	idPart, secret, ok := strings.Cut(key, ".")
	if !ok {
		return 0, httpx.Unauthorized("NO_COMPANY", "malformed API key")
	}
	companyID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || companyID <= 0 {
		return 0, httpx.Unauthorized("NO_COMPANY", "malformed API key")
	}

	company, err := m.repo.Get(ctx, companyID)
	if err != nil {
		if err == companies.ErrNotFound {
			return 0, httpx.Unauthorized("NO_COMPANY", "unknown API key")
		}
		m.logger.Error("company lookup failed", slog.Any("error", err))
		return 0, httpx.Internal()
	}

	if bcrypt.CompareHashAndPassword([]byte(company.APIKeyHash), []byte(secret)) != nil {
		return 0, httpx.Unauthorized("NO_COMPANY", "unknown API key")
	}

	if err := m.cache.Put(ctx, fp, company.ID); err != nil {
		m.logger.Warn("tenant cache store failed", slog.Any("error", err))
	}
	return company.ID, nil
}

// Fingerprint derives the cache key for an API key without storing the key
// itself in Redis.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
