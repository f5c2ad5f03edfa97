package monitoring

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAreSafeAndExposed(t *testing.T) {
	InitMetrics()
	InitMetrics()

	SetSnapshotID(3)
	RecordBalanceOp("transfer")
	RecordRoundFunded(uint256.NewInt(1000))
	RecordClaimSettled(uint256.NewInt(250))
	RecordClaimRejected("already_claimed")
	IncreasePanicCount()
	IncreaseJournalWriteFailures()

	mux := http.NewServeMux()
	RegisterMetrics(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "snapledger_snapshot_id 3")
	assert.Contains(t, body, `snapledger_claims_rejected_total{reason="already_claimed"} 1`)
	assert.Contains(t, body, "snapledger_payout_total 250")
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1000.0, toFloat(uint256.NewInt(1000)))
}

func TestRecordersConcurrentWithInit(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordBalanceOp("concurrent")
				IncreaseJournalWriteFailures()
			}
		}()
		go func() {
			defer wg.Done()
			InitMetrics()
		}()
	}
	wg.Wait()

	require.NotNil(t, ledgerMetrics.Load())
}
