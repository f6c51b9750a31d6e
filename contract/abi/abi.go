package abi

//nolint:golint
import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:embed bridge.json
var bridgeJSONABI string

var BridgeABI = MustReadABI(bridgeJSONABI)

const (
	TokensDeposited = "event TokensDeposited(uint8 indexed sourceChainID, uint64 indexed nonce, uint8 indexed destinationChainID, uint8 tokenID, uint64 iotaAdjustedAmount, address senderAddress, bytes recipientAddress)"
	TokensClaimed   = "event TokensClaimed(uint8 indexed sourceChainID, uint64 indexed nonce, uint8 indexed destinationChainID, uint8 tokenID, uint256 erc20AdjustedAmount, bytes senderAddress, address recipientAddress)"
	Paused          = "event Paused(address account)"
	Unpaused        = "event Unpaused(address account)"
)

var ErrInvalidEvent = errors.New("invalid event")

type ABI struct {
	abi.ABI
}

func MustReadABI(js string) ABI {
	res, err := abi.JSON(strings.NewReader(js))
	if err != nil {
		panic(err)
	}
	return ABI{res}
}

func (a ABI) AllEvents() map[string]bool {
	events := make(map[string]bool, len(a.Events))
	for _, event := range a.Events {
		events[event.String()] = true
	}
	return events
}

func indexed(args abi.Arguments) abi.Arguments {
	var res abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			res = append(res, arg)
		}
	}
	return res
}

// FindMatchingEventABI looks up a non-anonymous event by its signature topic
// and number of indexed arguments.
func (a ABI) FindMatchingEventABI(topics []common.Hash) *abi.Event {
	for _, e := range a.Events {
		if e.ID == topics[0] && len(indexed(e.Inputs)) == len(topics)-1 {
			e := e
			return &e
		}
	}
	return nil
}

// ParseLog decodes all event arguments into a map. An empty event string
// with a nil error means the log doesn't match any event of the ABI.
func (a ABI) ParseLog(log *types.Log) (string, map[string]interface{}, error) {
	if len(log.Topics) == 0 {
		return "", nil, fmt.Errorf("can't process event without topics: %w", ErrInvalidEvent)
	}
	event := a.FindMatchingEventABI(log.Topics)
	if event == nil {
		return "", nil, nil
	}
	values := make(map[string]interface{})
	indexedArgs := indexed(event.Inputs)
	if len(indexedArgs) < len(event.Inputs) {
		if err := event.Inputs.UnpackIntoMap(values, log.Data); err != nil {
			return "", nil, fmt.Errorf("can't unpack data: %w", err)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexedArgs, log.Topics[1:]); err != nil {
		return "", nil, fmt.Errorf("can't unpack topics: %w", err)
	}
	return event.String(), values, nil
}
