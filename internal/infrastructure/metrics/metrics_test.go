package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectedCounterByReason(t *testing.T) {
	before := testutil.ToFloat64(TransactionsRejected.WithLabelValues("card_blocked"))

	TransactionsRejected.WithLabelValues("card_blocked").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(TransactionsRejected.WithLabelValues("card_blocked")))
}

func TestExposer(t *testing.T) {
	TransactionsSaved.Inc()

	w := httptest.NewRecorder()
	Exposer().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "card_transactions_saved_total")
}
