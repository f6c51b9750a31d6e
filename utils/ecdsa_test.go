package utils_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/utils"
)

func TestRecoverCompressedPubKey(t *testing.T) {
	t.Parallel()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	hash := crypto.Keccak256Hash([]byte("message"))

	sig, err := crypto.Sign(hash[:], priv)
	require.NoError(t, err)

	pub, err := utils.RecoverCompressedPubKey(hash, sig)
	require.NoError(t, err)
	require.Equal(t, crypto.CompressPubkey(&priv.PublicKey), pub)

	legacy := append([]byte{}, sig...)
	legacy[64] += 27
	pub, err = utils.RecoverCompressedPubKey(hash, legacy)
	require.NoError(t, err)
	require.Equal(t, crypto.CompressPubkey(&priv.PublicKey), pub)
	require.Equal(t, sig[64]+27, legacy[64], "input must not be modified")

	_, err = utils.RecoverCompressedPubKey(hash, sig[:64])
	require.Error(t, err)
}
