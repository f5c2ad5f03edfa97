package store

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/events"
	"github.com/mezonai/snapledger/exception"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/monitoring"
	"github.com/mezonai/snapledger/types"
)

// Recorder copies RoundOpened and ClaimSettled events from the bus into a SettlementStore
type Recorder struct {
	bus   *events.EventBus
	store SettlementStore

	mu      sync.Mutex
	subID   events.SubscriberID
	done    chan struct{}
	running bool
}

func NewRecorder(bus *events.EventBus, store SettlementStore) *Recorder {
	return &Recorder{bus: bus, store: store}
}

// Start subscribes to the bus and begins journaling. Calling Start twice is a no-op.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}

	id, ch := r.bus.SubscribeTypes(events.EventRoundOpened, events.EventClaimSettled)
	r.subID = id
	r.done = make(chan struct{})
	r.running = true

	done := r.done
	exception.SafeGo("SettlementRecorder", func() {
		defer close(done)
		for event := range ch {
			r.handle(event)
		}
	})
}

// Stop unsubscribes, then waits until every buffered event has been written
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	done := r.done
	r.bus.Unsubscribe(r.subID)
	r.mu.Unlock()

	<-done
}

func (r *Recorder) handle(event events.LedgerEvent) {
	var err error
	switch e := event.(type) {
	case *events.RoundOpened:
		err = r.store.StoreRound(&types.Round{
			Number:     e.Round(),
			SnapshotID: e.SnapshotID(),
			Pool:       new(uint256.Int).Set(e.Amount()),
			Paid:       uint256.NewInt(0),
			OpenedAt:   e.Timestamp(),
		})
	case *events.ClaimSettled:
		err = r.store.StoreClaim(&types.ClaimRecord{
			Account:    e.Account(),
			SnapshotID: e.SnapshotID(),
			Payout:     new(uint256.Int).Set(e.Payout()),
			SettledAt:  e.Timestamp(),
		})
	default:
		return
	}

	if err != nil {
		monitoring.IncreaseJournalWriteFailures()
		logx.Error("RECORDER", fmt.Sprintf("Failed to journal %s event | snapshot=%d | error=%v", event.Type(), event.SnapshotID(), err))
	}
}
