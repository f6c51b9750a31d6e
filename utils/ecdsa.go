package utils

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverCompressedPubKey restores the compressed secp256k1 public key that
// produced a 65-byte recoverable signature over hash. Both 0/1 and 27/28
// recovery ids are accepted.
func RecoverCompressedPubKey(hash common.Hash, sig []byte) ([]byte, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("invalid signature length %d", len(sig))
	}
	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pk, err := crypto.SigToPub(hash[:], normalized)
	if err != nil {
		return nil, fmt.Errorf("can't recover ecdsa signer: %w", err)
	}
	return crypto.CompressPubkey(pk), nil
}
