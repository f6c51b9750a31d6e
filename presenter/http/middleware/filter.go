package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/omni/bridge-orchestrator/presenter/http/render"
)

type ctxKey int

const (
	digestCtxKey ctxKey = iota
	filterCtxKey
)

// FilterContext holds the sources requested by cursor queries. Nil fields mean "all configured".
type FilterContext struct {
	Modules   []string
	Addresses []common.Address
}

func GetDigestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		digest := chi.URLParam(r, "digest")
		if digest == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), digestCtxKey, common.HexToHash(digest))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Digest(ctx context.Context) (common.Hash, bool) {
	digest, ok := ctx.Value(digestCtxKey).(common.Hash)
	return digest, ok
}

func GetFilterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := &FilterContext{}

		if modules, ok := query["module"]; ok {
			for _, module := range modules {
				if module == "" {
					render.Message(w, r, http.StatusBadRequest, "empty module parameter")
					return
				}
			}
			filter.Modules = modules
		}
		if addresses, ok := query["address"]; ok {
			filter.Addresses = make([]common.Address, 0, len(addresses))
			for _, address := range addresses {
				if !common.IsHexAddress(address) {
					render.Message(w, r, http.StatusBadRequest, fmt.Sprintf("invalid address parameter %q", address))
					return
				}
				filter.Addresses = append(filter.Addresses, common.HexToAddress(address))
			}
		}

		ctx := context.WithValue(r.Context(), filterCtxKey, filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetFilterContext(ctx context.Context) *FilterContext {
	if cfg, ok := ctx.Value(filterCtxKey).(*FilterContext); ok {
		return cfg
	}
	return new(FilterContext)
}
