package certificate

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/committee"
	"github.com/omni/bridge-orchestrator/utils"
)

var (
	ErrInvalidAuthority     = errors.New("authority is not a committee member")
	ErrBlocklistedAuthority = errors.New("authority is blocklisted")
	ErrInvalidSignature     = errors.New("invalid authority signature")
	ErrInsufficientStake    = errors.New("insufficient signing stake")
)

// AuthoritySignature is a 65-byte recoverable secp256k1 signature over an action digest.
type AuthoritySignature [65]byte

func (s AuthoritySignature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(s[:]).MarshalText()
}

func (s *AuthoritySignature) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("AuthoritySignature", input, s[:])
}

type SignatureInfo struct {
	AuthorityPubKey bridge.AuthorityPublicKeyBytes `json:"authority_pub_key"`
	Signature       AuthoritySignature             `json:"signature"`
}

// SignedAction is an action with a single, not yet verified, authority signature.
type SignedAction struct {
	Action    bridge.Action
	Signature SignatureInfo
}

// VerifiedSignedAction can only be obtained through VerifySignedAction.
type VerifiedSignedAction struct {
	action    bridge.Action
	signature SignatureInfo
}

func (v *VerifiedSignedAction) Action() bridge.Action {
	return v.action
}

func (v *VerifiedSignedAction) Signature() SignatureInfo {
	return v.signature
}

// CertifiedAction is an action with a set of, not yet verified, authority signatures.
type CertifiedAction struct {
	Action     bridge.Action
	Signatures map[bridge.AuthorityPublicKeyBytes]AuthoritySignature
}

// VerifiedCertifiedAction can only be obtained through VerifyCertifiedAction
// or a SignatureAggregator.
type VerifiedCertifiedAction struct {
	action     bridge.Action
	signatures map[bridge.AuthorityPublicKeyBytes]AuthoritySignature
	stake      uint64
}

func (v *VerifiedCertifiedAction) Action() bridge.Action {
	return v.action
}

// Signatures returns a copy of the collected signatures.
func (v *VerifiedCertifiedAction) Signatures() map[bridge.AuthorityPublicKeyBytes]AuthoritySignature {
	res := make(map[bridge.AuthorityPublicKeyBytes]AuthoritySignature, len(v.signatures))
	for k, s := range v.signatures {
		res[k] = s
	}
	return res
}

func (v *VerifiedCertifiedAction) Stake() uint64 {
	return v.stake
}

func verifySignature(action bridge.Action, pubKey bridge.AuthorityPublicKeyBytes, sig AuthoritySignature, c *committee.Committee) (uint64, error) {
	member, ok := c.Member(pubKey)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAuthority, pubKey)
	}
	if member.IsBlocklisted {
		return 0, fmt.Errorf("%w: %s", ErrBlocklistedAuthority, pubKey)
	}
	recovered, err := utils.RecoverCompressedPubKey(action.Digest(), sig[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if signer, err := bridge.BytesToAuthorityPublicKey(recovered); err != nil || signer != pubKey {
		return 0, fmt.Errorf("%w: signed by %s, claimed %s", ErrInvalidSignature, hexutil.Encode(recovered), pubKey)
	}
	return member.VotingPower, nil
}

func VerifySignedAction(signed *SignedAction, c *committee.Committee) (*VerifiedSignedAction, error) {
	if _, err := verifySignature(signed.Action, signed.Signature.AuthorityPubKey, signed.Signature.Signature, c); err != nil {
		return nil, err
	}
	return &VerifiedSignedAction{action: signed.Action, signature: signed.Signature}, nil
}

// VerifyCertifiedAction checks every signature and that the signers hold
// at least the action's approval threshold of voting power.
func VerifyCertifiedAction(cert *CertifiedAction, c *committee.Committee) (*VerifiedCertifiedAction, error) {
	var stake uint64
	signatures := make(map[bridge.AuthorityPublicKeyBytes]AuthoritySignature, len(cert.Signatures))
	for pubKey, sig := range cert.Signatures {
		power, err := verifySignature(cert.Action, pubKey, sig, c)
		if err != nil {
			return nil, err
		}
		stake += power
		signatures[pubKey] = sig
	}
	if threshold := cert.Action.ApprovalThreshold(); stake < threshold {
		return nil, fmt.Errorf("%w: %d < %d", ErrInsufficientStake, stake, threshold)
	}
	return &VerifiedCertifiedAction{action: cert.Action, signatures: signatures, stake: stake}, nil
}
