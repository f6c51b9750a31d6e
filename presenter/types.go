package presenter

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/bridge"
)

type ActionInfo struct {
	Digest            common.Hash       `json:"digest"`
	Kind              bridge.ActionKind `json:"kind"`
	ActionType        string            `json:"actionType"`
	ChainID           string            `json:"chainId"`
	SeqNumber         uint64            `json:"seqNumber"`
	IsGovernance      bool              `json:"isGovernance"`
	ApprovalThreshold uint64            `json:"approvalThreshold"`
	Action            bridge.Action     `json:"action"`
}

type NativeCursorInfo struct {
	Module string          `json:"module"`
	Cursor *bridge.EventID `json:"cursor"`
}

type EVMCursorInfo struct {
	Address     common.Address `json:"address"`
	BlockNumber *uint64        `json:"blockNumber"`
}
