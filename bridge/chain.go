package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// ChainID is the bridge-level identifier of a chain, it differs from EVM chain ids.
type ChainID uint8

const (
	IotaMainnet ChainID = 0
	IotaTestnet ChainID = 1
	IotaCustom  ChainID = 2

	EthMainnet ChainID = 10
	EthSepolia ChainID = 11
	EthCustom  ChainID = 12
)

var ErrUnknownChainID = errors.New("unknown bridge chain id")

var chainNames = map[ChainID]string{
	IotaMainnet: "iota_mainnet",
	IotaTestnet: "iota_testnet",
	IotaCustom:  "iota_custom",
	EthMainnet:  "eth_mainnet",
	EthSepolia:  "eth_sepolia",
	EthCustom:   "eth_custom",
}

func (id ChainID) String() string {
	if name, ok := chainNames[id]; ok {
		return name
	}
	return fmt.Sprintf("chain_%d", uint8(id))
}

func (id ChainID) IsValid() bool {
	_, ok := chainNames[id]
	return ok
}

// IsNative reports whether the chain belongs to the native (Move) ecosystem.
func (id ChainID) IsNative() bool {
	return id == IotaMainnet || id == IotaTestnet || id == IotaCustom
}

func ParseChainID(s string) (ChainID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for id, n := range chainNames {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChainID, s)
}

// IsRouteValid checks that a transfer between two chains crosses ecosystems
// and never mixes a mainnet with a non-mainnet chain. Unknown chain ids have no route.
func IsRouteValid(one, other ChainID) bool {
	if !one.IsValid() || !other.IsValid() {
		return false
	}
	if one.IsNative() == other.IsNative() {
		return false
	}
	switch {
	case one == EthMainnet:
		return other == IotaMainnet
	case one == IotaMainnet:
		return other == EthMainnet
	case other == EthMainnet:
		return one == IotaMainnet
	case other == IotaMainnet:
		return one == EthMainnet
	}
	return true
}
