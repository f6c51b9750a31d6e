package committee

import (
	"bytes"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/omni/bridge-orchestrator/bridge"
)

// KeySet is a set of authority public keys. A nil KeySet means "no restriction".
type KeySet map[bridge.AuthorityPublicKeyBytes]struct{}

func NewKeySet(keys ...bridge.AuthorityPublicKeyBytes) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Contains(k bridge.AuthorityPublicKeyBytes) bool {
	_, ok := s[k]
	return ok
}

// ShuffleByStake is ShuffleByStakeWithRNG with a time seeded generator.
func (c *Committee) ShuffleByStake(preferences, restrictTo KeySet) []bridge.AuthorityPublicKeyBytes {
	//nolint:gosec
	return c.ShuffleByStakeWithRNG(preferences, restrictTo, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// ShuffleByStakeWithRNG orders the active members (optionally restricted to
// restrictTo) for contacting. With non-nil preferences the order is by
// descending voting power. Otherwise it is a single weighted random
// permutation where every member's chance of being ahead is proportional to
// its voting power.
func (c *Committee) ShuffleByStakeWithRNG(preferences, restrictTo KeySet, rng *rand.Rand) []bridge.AuthorityPublicKeyBytes {
	type candidate struct {
		key    bridge.AuthorityPublicKeyBytes
		weight uint64
		score  float64
	}
	candidates := make([]candidate, 0, len(c.members))
	for _, m := range c.Members() {
		if m.IsBlocklisted {
			continue
		}
		if restrictTo != nil && !restrictTo.Contains(m.PubKey) {
			continue
		}
		candidates = append(candidates, candidate{key: m.PubKey, weight: m.VotingPower})
	}

	if preferences != nil {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].weight != candidates[j].weight {
				return candidates[i].weight > candidates[j].weight
			}
			return bytes.Compare(candidates[i].key[:], candidates[j].key[:]) < 0
		})
	} else {
		// Efraimidis-Spirakis: key u^(1/w), compared in log space.
		for i := range candidates {
			u := rng.Float64()
			if candidates[i].weight == 0 {
				candidates[i].score = math.Inf(-1)
				continue
			}
			candidates[i].score = math.Log(1-u) / float64(candidates[i].weight)
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})
	}

	res := make([]bridge.AuthorityPublicKeyBytes, len(candidates))
	for i, cand := range candidates {
		res[i] = cand.key
	}
	return res
}
