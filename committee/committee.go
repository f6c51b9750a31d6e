package committee

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/bridge"
)

// Voting power is expressed in basis points of TotalVotingPower.
const (
	TotalVotingPower   uint64 = 10000
	MinimalVotingPower uint64 = 7500
	MaximalVotingPower uint64 = 10000
)

var ErrInvalidBridgeCommittee = errors.New("invalid bridge committee")

type Authority struct {
	Address       common.Address                 `json:"address"`
	PubKey        bridge.AuthorityPublicKeyBytes `json:"pub_key"`
	VotingPower   uint64                         `json:"voting_power"`
	BaseURL       string                         `json:"base_url"`
	IsBlocklisted bool                           `json:"is_blocklisted"`
}

// NewAuthority derives the authority address from its public key.
func NewAuthority(pubKey bridge.AuthorityPublicKeyBytes, votingPower uint64, baseURL string, blocklisted bool) (*Authority, error) {
	addr, err := pubKey.EVMAddress()
	if err != nil {
		return nil, err
	}
	return &Authority{
		Address:       addr,
		PubKey:        pubKey,
		VotingPower:   votingPower,
		BaseURL:       baseURL,
		IsBlocklisted: blocklisted,
	}, nil
}

// Committee is a read-only set of bridge authorities.
type Committee struct {
	members               map[bridge.AuthorityPublicKeyBytes]Authority
	totalStake            uint64
	totalBlocklistedStake uint64
}

func New(members []*Authority) (*Committee, error) {
	c := &Committee{
		members: make(map[bridge.AuthorityPublicKeyBytes]Authority, len(members)),
	}
	for _, m := range members {
		if _, ok := c.members[m.PubKey]; ok {
			return nil, fmt.Errorf("%w: duplicate authority public key %s", ErrInvalidBridgeCommittee, m.PubKey)
		}
		if c.totalStake+m.VotingPower < c.totalStake {
			return nil, fmt.Errorf("%w: total voting power overflow", ErrInvalidBridgeCommittee)
		}
		c.totalStake += m.VotingPower
		if m.IsBlocklisted {
			c.totalBlocklistedStake += m.VotingPower
		}
		c.members[m.PubKey] = *m
	}
	if c.totalStake < MinimalVotingPower || c.totalStake > MaximalVotingPower {
		return nil, fmt.Errorf("%w: total voting power %d is out of range [%d, %d]",
			ErrInvalidBridgeCommittee, c.totalStake, MinimalVotingPower, MaximalVotingPower)
	}
	return c, nil
}

func (c *Committee) IsActiveMember(pubKey bridge.AuthorityPublicKeyBytes) bool {
	m, ok := c.members[pubKey]
	return ok && !m.IsBlocklisted
}

func (c *Committee) Member(pubKey bridge.AuthorityPublicKeyBytes) (*Authority, bool) {
	m, ok := c.members[pubKey]
	if !ok {
		return nil, false
	}
	return &m, true
}

// ActiveStake returns the voting power of an active member, 0 otherwise.
func (c *Committee) ActiveStake(pubKey bridge.AuthorityPublicKeyBytes) uint64 {
	m, ok := c.members[pubKey]
	if !ok || m.IsBlocklisted {
		return 0
	}
	return m.VotingPower
}

// Members returns a copy of all members ordered by public key.
func (c *Committee) Members() []*Authority {
	res := make([]*Authority, 0, len(c.members))
	for _, m := range c.members {
		m := m
		res = append(res, &m)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].PubKey[:], res[j].PubKey[:]) < 0
	})
	return res
}

func (c *Committee) Len() int {
	return len(c.members)
}

func (c *Committee) TotalStake() uint64 {
	return c.totalStake
}

func (c *Committee) TotalBlocklistedStake() uint64 {
	return c.totalBlocklistedStake
}
