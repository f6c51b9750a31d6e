package committee_test

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/committee"
)

func key(b byte) bridge.AuthorityPublicKeyBytes {
	return bridge.AuthorityPublicKeyBytes{0: 0x02, 32: b}
}

func authority(b byte, power uint64, blocklisted bool) *committee.Authority {
	return &committee.Authority{PubKey: key(b), VotingPower: power, IsBlocklisted: blocklisted}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		Name    string
		Members []*committee.Authority
		Valid   bool
	}{
		{"Four equal members", []*committee.Authority{
			authority(1, 2500, false), authority(2, 2500, false),
			authority(3, 2500, false), authority(4, 2500, false),
		}, true},
		{"Minimal total", []*committee.Authority{authority(1, 7500, false)}, true},
		{"Below minimal total", []*committee.Authority{authority(1, 7499, false)}, false},
		{"Above maximal total", []*committee.Authority{
			authority(1, 5000, false), authority(2, 5001, false),
		}, false},
		{"Duplicate key", []*committee.Authority{
			authority(1, 5000, false), authority(1, 5000, false),
		}, false},
		{"Blocklisted count towards total", []*committee.Authority{
			authority(1, 5000, false), authority(2, 5000, true),
		}, true},
		{"Empty", nil, false},
		{"Overflow", []*committee.Authority{
			authority(1, ^uint64(0), false), authority(2, 10, false),
		}, false},
	} {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			c, err := committee.New(test.Members)
			if test.Valid {
				require.NoError(t, err)
				require.NotNil(t, c)
			} else {
				require.ErrorIs(t, err, committee.ErrInvalidBridgeCommittee)
			}
		})
	}
}

func TestCommittee_Stake(t *testing.T) {
	t.Parallel()

	c, err := committee.New([]*committee.Authority{
		authority(1, 4000, false),
		authority(2, 3000, false),
		authority(3, 2000, true),
		authority(4, 1000, true),
	})
	require.NoError(t, err)

	require.Equal(t, uint64(10000), c.TotalStake())
	require.Equal(t, uint64(3000), c.TotalBlocklistedStake())
	require.Equal(t, 4, c.Len())

	require.True(t, c.IsActiveMember(key(1)))
	require.False(t, c.IsActiveMember(key(3)))
	require.False(t, c.IsActiveMember(key(9)))

	require.Equal(t, uint64(4000), c.ActiveStake(key(1)))
	require.Zero(t, c.ActiveStake(key(3)))
	require.Zero(t, c.ActiveStake(key(9)))

	m, ok := c.Member(key(3))
	require.True(t, ok)
	require.True(t, m.IsBlocklisted)
	_, ok = c.Member(key(9))
	require.False(t, ok)

	members := c.Members()
	require.Len(t, members, 4)
	for i, m := range members {
		require.Equal(t, key(byte(i+1)), m.PubKey)
	}
}

func TestCommittee_IsImmutable(t *testing.T) {
	t.Parallel()

	members := []*committee.Authority{authority(1, 8000, false)}
	c, err := committee.New(members)
	require.NoError(t, err)

	members[0].IsBlocklisted = true
	require.True(t, c.IsActiveMember(key(1)))

	m, _ := c.Member(key(1))
	m.VotingPower = 1
	require.Equal(t, uint64(8000), c.ActiveStake(key(1)))
}

func TestNewAuthority(t *testing.T) {
	t.Parallel()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	pubKey, err := bridge.BytesToAuthorityPublicKey(crypto.CompressPubkey(&priv.PublicKey))
	require.NoError(t, err)

	a, err := committee.NewAuthority(pubKey, 2500, "http://localhost:9191", false)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(priv.PublicKey), a.Address)

	_, err = committee.NewAuthority(bridge.AuthorityPublicKeyBytes{}, 2500, "", false)
	require.Error(t, err)
}

func TestShuffleByStake_Preferences(t *testing.T) {
	t.Parallel()

	c, err := committee.New([]*committee.Authority{
		authority(1, 1000, false),
		authority(2, 3000, false),
		authority(3, 3000, false),
		authority(4, 2000, true),
		authority(5, 1000, false),
	})
	require.NoError(t, err)

	order := c.ShuffleByStake(committee.NewKeySet(), nil)
	require.Equal(t, []bridge.AuthorityPublicKeyBytes{key(2), key(3), key(1), key(5)}, order)

	order = c.ShuffleByStake(committee.NewKeySet(), committee.NewKeySet(key(1), key(3), key(4)))
	require.Equal(t, []bridge.AuthorityPublicKeyBytes{key(3), key(1)}, order)
}

func TestShuffleByStake_Weighted(t *testing.T) {
	t.Parallel()

	c, err := committee.New([]*committee.Authority{
		authority(1, 9000, false),
		authority(2, 500, false),
		authority(3, 500, false),
		authority(4, 0, true),
	})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	first := make(map[bridge.AuthorityPublicKeyBytes]int)
	const rounds = 2000
	for i := 0; i < rounds; i++ {
		order := c.ShuffleByStakeWithRNG(nil, nil, rng)
		require.Len(t, order, 3)
		require.ElementsMatch(t, []bridge.AuthorityPublicKeyBytes{key(1), key(2), key(3)}, order)
		first[order[0]]++
	}
	require.Greater(t, first[key(1)], rounds*8/10)
	require.Greater(t, first[key(2)], 0)
	require.Greater(t, first[key(3)], 0)

	order := c.ShuffleByStakeWithRNG(nil, committee.NewKeySet(key(2)), rng)
	require.Equal(t, []bridge.AuthorityPublicKeyBytes{key(2)}, order)

	require.Empty(t, c.ShuffleByStakeWithRNG(nil, committee.NewKeySet(key(4)), rng))
}
