package certificate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/committee"
)

var ErrDigestMismatch = errors.New("signed action digest mismatch")

// SignatureAggregator collects verified signatures of a single action until
// the signers hold enough stake to certify it. It is safe for concurrent use.
type SignatureAggregator struct {
	mu         sync.Mutex
	committee  *committee.Committee
	action     bridge.Action
	digest     common.Hash
	signatures map[bridge.AuthorityPublicKeyBytes]AuthoritySignature
	stake      uint64
}

func NewSignatureAggregator(c *committee.Committee, action bridge.Action) *SignatureAggregator {
	return &SignatureAggregator{
		committee:  c,
		action:     action,
		digest:     action.Digest(),
		signatures: make(map[bridge.AuthorityPublicKeyBytes]AuthoritySignature),
	}
}

// Add records a verified signature. It returns the certified action once the
// approval threshold is reached, and nil before that.
func (a *SignatureAggregator) Add(signed *VerifiedSignedAction) (*VerifiedCertifiedAction, error) {
	if d := signed.Action().Digest(); d != a.digest {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrDigestMismatch, d, a.digest)
	}
	sig := signed.Signature()

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.signatures[sig.AuthorityPubKey]; !ok {
		a.signatures[sig.AuthorityPubKey] = sig.Signature
		a.stake += a.committee.ActiveStake(sig.AuthorityPubKey)
	}
	if a.stake < a.action.ApprovalThreshold() {
		return nil, nil
	}
	signatures := make(map[bridge.AuthorityPublicKeyBytes]AuthoritySignature, len(a.signatures))
	for k, s := range a.signatures {
		signatures[k] = s
	}
	return &VerifiedCertifiedAction{action: a.action, signatures: signatures, stake: a.stake}, nil
}

func (a *SignatureAggregator) Stake() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stake
}
