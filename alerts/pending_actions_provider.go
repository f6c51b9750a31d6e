package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/entity"
)

type PendingActionsProvider struct {
	repo entity.PendingActionsRepo
	now  func() time.Time
}

func NewPendingActionsProvider(repo entity.PendingActionsRepo, now func() time.Time) *PendingActionsProvider {
	if now == nil {
		now = time.Now
	}
	return &PendingActionsProvider{
		repo: repo,
		now:  now,
	}
}

type StuckPendingAction struct {
	ChainID    string      `json:"chain_id"`
	ActionType string      `json:"action_type"`
	SeqNum     uint64      `json:"seq_num,string"`
	Digest     common.Hash `json:"digest"`
	Age        int64       `json:"_value,string"`
}

// FindStuckPendingActions returns actions which were stored more than params.Threshold ago.
func (p *PendingActionsProvider) FindStuckPendingActions(ctx context.Context, params *AlertJobParams) (interface{}, error) {
	actions, err := p.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't find pending actions: %w", err)
	}
	now := p.now()
	res := make([]StuckPendingAction, 0, 5)
	for _, action := range actions {
		if action.CreatedAt == nil {
			continue
		}
		age := now.Sub(*action.CreatedAt)
		if age < params.Threshold {
			continue
		}
		res = append(res, StuckPendingAction{
			ChainID:    bridge.ChainID(action.ChainID).String(),
			ActionType: bridge.ActionType(action.ActionType).String(),
			SeqNum:     uint64(action.SeqNum),
			Digest:     action.Digest,
			Age:        int64(age / time.Second),
		})
	}
	return res, nil
}
