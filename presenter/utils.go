package presenter

import (
	"sort"

	"github.com/omni/bridge-orchestrator/bridge"
)

func actionToInfo(action bridge.Action) *ActionInfo {
	return &ActionInfo{
		Digest:            action.Digest(),
		Kind:              action.Kind(),
		ActionType:        action.ActionType().String(),
		ChainID:           action.ChainID().String(),
		SeqNumber:         action.SeqNumber(),
		IsGovernance:      action.IsGovernanceAction(),
		ApprovalThreshold: action.ApprovalThreshold(),
		Action:            action,
	}
}

// sortActions orders actions by chain and sequence number, digest breaks ties.
func sortActions(actions []*ActionInfo) {
	sort.Slice(actions, func(i, j int) bool {
		a, b := actions[i], actions[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.SeqNumber != b.SeqNumber {
			return a.SeqNumber < b.SeqNumber
		}
		return a.Digest.Hex() < b.Digest.Hex()
	})
}
