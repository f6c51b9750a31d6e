package presenter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/presenter/http/middleware"
	"github.com/omni/bridge-orchestrator/presenter/http/render"
)

type Store interface {
	GetAllPendingActions(ctx context.Context) (map[common.Hash]bridge.Action, error)
	GetPendingAction(ctx context.Context, digest common.Hash) (bridge.Action, error)
	GetNativeEventCursors(ctx context.Context, modules []string) ([]*bridge.EventID, error)
	GetEVMEventCursors(ctx context.Context, addresses []common.Address) ([]*uint64, error)
}

// Presenter serves a read-only view of pending actions and watcher progress.
type Presenter struct {
	logger logging.Logger
	store  Store
	cfg    *config.Config
	root   chi.Router
}

func NewPresenter(logger logging.Logger, store Store, cfg *config.Config) *Presenter {
	p := &Presenter{
		logger: logger,
		store:  store,
		cfg:    cfg,
		root:   chi.NewMux(),
	}
	p.root.Use(chimiddleware.Throttle(5))
	p.root.Use(chimiddleware.RequestID)
	p.root.Use(middleware.NewLoggerMiddleware(p.logger))
	p.root.Use(middleware.Recoverer)
	p.root.Get("/actions", p.GetPendingActions)
	p.root.With(middleware.GetDigestMiddleware).Get("/actions/{digest:0x[0-9a-fA-F]{64}}", p.GetPendingAction)
	p.root.Route("/cursors", func(r chi.Router) {
		r.Use(middleware.GetFilterMiddleware)
		r.Get("/native", p.GetNativeCursors)
		r.Get("/evm", p.GetEVMCursors)
	})
	return p
}

func (p *Presenter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.root.ServeHTTP(w, r)
}

func (p *Presenter) Serve(addr string) error {
	p.logger.WithField("addr", addr).Info("starting presenter service")
	return http.ListenAndServe(addr, p)
}

func (p *Presenter) GetPendingActions(w http.ResponseWriter, r *http.Request) {
	actions, err := p.store.GetAllPendingActions(r.Context())
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to get pending actions: %w", err))
		return
	}

	res := make([]*ActionInfo, 0, len(actions))
	for _, action := range actions {
		res = append(res, actionToInfo(action))
	}
	sortActions(res)
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetPendingAction(w http.ResponseWriter, r *http.Request) {
	digest, _ := middleware.Digest(r.Context())

	action, err := p.store.GetPendingAction(r.Context(), digest)
	if errors.Is(err, db.ErrNotFound) {
		render.Message(w, r, http.StatusNotFound, fmt.Sprintf("pending action %s not found", digest))
		return
	}
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to get pending action: %w", err))
		return
	}
	render.JSON(w, r, http.StatusOK, actionToInfo(action))
}

func (p *Presenter) GetNativeCursors(w http.ResponseWriter, r *http.Request) {
	modules := middleware.GetFilterContext(r.Context()).Modules
	if modules == nil && p.cfg.Native != nil {
		modules = p.cfg.Native.Modules
	}

	cursors, err := p.store.GetNativeEventCursors(r.Context(), modules)
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to get native event cursors: %w", err))
		return
	}

	res := make([]*NativeCursorInfo, len(modules))
	for i, module := range modules {
		res[i] = &NativeCursorInfo{Module: module, Cursor: cursors[i]}
	}
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetEVMCursors(w http.ResponseWriter, r *http.Request) {
	addresses := middleware.GetFilterContext(r.Context()).Addresses
	if addresses == nil && p.cfg.EVM != nil {
		for _, c := range p.cfg.EVM.Contracts {
			addresses = append(addresses, c.Address)
		}
	}

	cursors, err := p.store.GetEVMEventCursors(r.Context(), addresses)
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to get evm event cursors: %w", err))
		return
	}

	res := make([]*EVMCursorInfo, len(addresses))
	for i, address := range addresses {
		res[i] = &EVMCursorInfo{Address: address, BlockNumber: cursors[i]}
	}
	render.JSON(w, r, http.StatusOK, res)
}
