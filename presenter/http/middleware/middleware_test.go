package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/presenter/http/middleware"
)

func TestRecoverer(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	h := middleware.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/actions", nil)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), res["error"])
	require.NotNil(t, hook.LastEntry())
	require.Contains(t, hook.LastEntry().Data["error"].(error).Error(), "boom")
}

func TestGetFilterMiddleware(t *testing.T) {
	t.Parallel()

	addr := common.HexToAddress("0x00000000000000000000000000000000000000c1")
	for _, test := range []struct {
		Name     string
		Query    string
		Status   int
		Expected *middleware.FilterContext
	}{
		{"No filter", "", http.StatusOK, &middleware.FilterContext{}},
		{"Modules", "?module=bridge&module=treasury", http.StatusOK, &middleware.FilterContext{Modules: []string{"bridge", "treasury"}}},
		{"Address", "?address=" + addr.String(), http.StatusOK, &middleware.FilterContext{Addresses: []common.Address{addr}}},
		{"Empty module", "?module=", http.StatusBadRequest, nil},
		{"Invalid address", "?address=0x1234", http.StatusBadRequest, nil},
	} {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			var got *middleware.FilterContext
			h := middleware.GetFilterMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = middleware.GetFilterContext(r.Context())
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cursors"+test.Query, nil))

			require.Equal(t, test.Status, w.Code)
			require.Equal(t, test.Expected, got)
		})
	}
}
