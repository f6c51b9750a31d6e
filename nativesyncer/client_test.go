package nativesyncer_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/nativesyncer"
)

const (
	testPackage = "0x000000000000000000000000000000000000000000000000000000000000000b"
	testChain   = "2304aa97"
)

type testEventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

type testEvent struct {
	ID         testEventID     `json:"id"`
	Type       string          `json:"type"`
	ParsedJSON json.RawMessage `json:"parsedJson"`
}

type testPage struct {
	Data        []testEvent  `json:"data"`
	NextCursor  *testEventID `json:"nextCursor"`
	HasNextPage bool         `json:"hasNextPage"`
}

type testFilter struct {
	MoveEventModule struct {
		Package string `json:"package"`
		Module  string `json:"module"`
	} `json:"MoveEventModule"`
}

type iotaxService struct {
	events []testEvent
}

func (s *iotaxService) QueryEvents(filter testFilter, cursor *testEventID, limit uint, descending bool) (*testPage, error) {
	page := new(testPage)
	if filter.MoveEventModule.Package != testPackage || filter.MoveEventModule.Module != "bridge" || descending {
		return page, nil
	}
	start := 0
	if cursor != nil {
		for i, e := range s.events {
			if e.ID == *cursor {
				start = i + 1
			}
		}
	}
	end := start + int(limit)
	if end > len(s.events) {
		end = len(s.events)
	}
	page.Data = s.events[start:end]
	page.HasNextPage = end < len(s.events)
	if len(page.Data) > 0 {
		next := page.Data[len(page.Data)-1].ID
		page.NextCursor = &next
	}
	return page, nil
}

type iotaService struct{}

func (iotaService) GetChainIdentifier() string {
	return testChain
}

func digest(b byte) common.Hash {
	return common.BytesToHash([]byte{0xde, 0xad, b})
}

func newTestServer(t *testing.T) *rpc.Server {
	t.Helper()

	svc := new(iotaxService)
	for i := byte(1); i <= 3; i++ {
		svc.events = append(svc.events, testEvent{
			ID:         testEventID{TxDigest: nativesyncer.EncodeDigest(digest(i)), EventSeq: strconv.Itoa(int(i))},
			Type:       testPackage + "::bridge::TokenDepositedEvent",
			ParsedJSON: json.RawMessage(`{"seq_num":"` + strconv.Itoa(int(i)) + `"}`),
		})
	}
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("iotax", svc))
	require.NoError(t, server.RegisterName("iota", iotaService{}))
	t.Cleanup(server.Stop)
	return server
}

func TestDigest(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x8a0f9b0c6d7e5f4c3b2a1908f7e6d5c4b3a29180f7e6d5c4b3a2918070605040")
	encoded := nativesyncer.EncodeDigest(hash)
	decoded, err := nativesyncer.DecodeDigest(encoded)
	require.NoError(t, err)
	require.Equal(t, hash, decoded)

	for _, s := range []string{"", "0OIl", "3yZe7d"} {
		_, err = nativesyncer.DecodeDigest(s)
		require.ErrorIs(t, err, nativesyncer.ErrInvalidDigest, s)
	}
}

func TestClient_QueryEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := nativesyncer.WrapRPCClient(rpc.DialInProc(newTestServer(t)), "inproc", time.Second, testChain)
	defer client.Close()

	page, err := client.QueryEvents(ctx, testPackage, "bridge", nil, 2)
	require.NoError(t, err)
	require.True(t, page.HasNextPage)
	require.Len(t, page.Events, 2)
	require.Equal(t, bridge.EventID{TxDigest: digest(1), EventSeq: 1}, page.Events[0].ID)
	require.Equal(t, "TokenDepositedEvent", page.Events[0].StructName())
	require.JSONEq(t, `{"seq_num":"1"}`, string(page.Events[0].ParsedJSON))
	require.Equal(t, &bridge.EventID{TxDigest: digest(2), EventSeq: 2}, page.NextCursor)

	page, err = client.QueryEvents(ctx, testPackage, "bridge", page.NextCursor, 2)
	require.NoError(t, err)
	require.False(t, page.HasNextPage)
	require.Len(t, page.Events, 1)
	require.Equal(t, bridge.EventID{TxDigest: digest(3), EventSeq: 3}, page.Events[0].ID)

	page, err = client.QueryEvents(ctx, testPackage, "treasury", nil, 2)
	require.NoError(t, err)
	require.Empty(t, page.Events)
	require.Nil(t, page.NextCursor)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	client, err := nativesyncer.NewClient(srv.URL, time.Second, testChain)
	require.NoError(t, err)
	client.Close()

	client, err = nativesyncer.NewClient(srv.URL, time.Second, "")
	require.NoError(t, err)
	client.Close()

	_, err = nativesyncer.NewClient(srv.URL, time.Second, "35834a8a")
	require.ErrorIs(t, err, nativesyncer.ErrIncompatibleChain)
}
