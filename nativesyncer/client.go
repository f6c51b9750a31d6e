package nativesyncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/ethclient"
)

var (
	ErrIncompatibleChain = errors.New("rpc url returned incompatible chain identifier")
	ErrInvalidDigest     = errors.New("invalid transaction digest")
)

// EventPage is a single page of module events, ordered by event id.
type EventPage struct {
	Events      []*bridge.NativeEvent
	NextCursor  *bridge.EventID
	HasNextPage bool
}

// Client queries events emitted by native chain modules.
type Client interface {
	QueryEvents(ctx context.Context, packageID, module string, cursor *bridge.EventID, limit uint) (*EventPage, error)
	Close()
}

type rpcClient struct {
	chainID   string
	url       string
	timeout   time.Duration
	rawClient *rpc.Client
}

type eventIDJSON struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

type eventJSON struct {
	ID         eventIDJSON     `json:"id"`
	Type       string          `json:"type"`
	ParsedJSON json.RawMessage `json:"parsedJson"`
}

type eventPageJSON struct {
	Data        []eventJSON  `json:"data"`
	NextCursor  *eventIDJSON `json:"nextCursor"`
	HasNextPage bool         `json:"hasNextPage"`
}

type moduleFilter struct {
	MoveEventModule struct {
		Package string `json:"package"`
		Module  string `json:"module"`
	} `json:"MoveEventModule"`
}

// NewClient dials url and, if chainID is set, checks the chain identifier reported by the node.
func NewClient(url string, timeout time.Duration, chainID string) (Client, error) {
	rawClient, err := ethclient.Dial(url, timeout)
	if err != nil {
		return nil, err
	}
	client := WrapRPCClient(rawClient, url, timeout, chainID)
	if chainID == "" {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	var identifier string
	if err = rawClient.CallContext(ctx, &identifier, "iota_getChainIdentifier"); err != nil {
		rawClient.Close()
		return nil, fmt.Errorf("can't get chain identifier: %w", err)
	}
	if identifier != chainID {
		rawClient.Close()
		return nil, fmt.Errorf("received chain identifier %s != expected %s: %w", identifier, chainID, ErrIncompatibleChain)
	}
	return client, nil
}

func WrapRPCClient(rawClient *rpc.Client, url string, timeout time.Duration, chainID string) Client {
	return &rpcClient{
		chainID:   chainID,
		url:       url,
		timeout:   timeout,
		rawClient: rawClient,
	}
}

func (c *rpcClient) QueryEvents(ctx context.Context, packageID, module string, cursor *bridge.EventID, limit uint) (page *EventPage, err error) {
	ctx, done := ethclient.Instrument(ctx, c.timeout, c.chainID, c.url, "iotax_queryEvents")
	defer func() { done(err) }()

	var filter moduleFilter
	filter.MoveEventModule.Package = packageID
	filter.MoveEventModule.Module = module
	var cursorArg *eventIDJSON
	if cursor != nil {
		cursorArg = &eventIDJSON{
			TxDigest: EncodeDigest(cursor.TxDigest),
			EventSeq: strconv.FormatUint(cursor.EventSeq, 10),
		}
	}

	var res eventPageJSON
	if err = c.rawClient.CallContext(ctx, &res, "iotax_queryEvents", filter, cursorArg, limit, false); err != nil {
		return nil, fmt.Errorf("can't query module events: %w", err)
	}

	page = &EventPage{
		Events:      make([]*bridge.NativeEvent, len(res.Data)),
		HasNextPage: res.HasNextPage,
	}
	for i, e := range res.Data {
		id, err := e.ID.eventID()
		if err != nil {
			return nil, err
		}
		page.Events[i] = &bridge.NativeEvent{
			ID:         id,
			Type:       e.Type,
			ParsedJSON: e.ParsedJSON,
		}
	}
	if res.NextCursor != nil {
		next, err := res.NextCursor.eventID()
		if err != nil {
			return nil, err
		}
		page.NextCursor = &next
	}
	return page, nil
}

func (c *rpcClient) Close() {
	c.rawClient.Close()
}

func (id eventIDJSON) eventID() (bridge.EventID, error) {
	digest, err := DecodeDigest(id.TxDigest)
	if err != nil {
		return bridge.EventID{}, err
	}
	seq, err := strconv.ParseUint(id.EventSeq, 10, 64)
	if err != nil {
		return bridge.EventID{}, fmt.Errorf("invalid event sequence %q: %w", id.EventSeq, err)
	}
	return bridge.EventID{TxDigest: digest, EventSeq: seq}, nil
}

// EncodeDigest renders a transaction digest in the base58 form used by native chain nodes.
func EncodeDigest(digest common.Hash) string {
	return base58.Encode(digest[:])
}

func DecodeDigest(s string) (common.Hash, error) {
	b := base58.Decode(s)
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidDigest, s)
	}
	return common.BytesToHash(b), nil
}
