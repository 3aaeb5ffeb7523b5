package runway

import (
	"runway-simulator/internal/game/conflict"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/flightplan"
	"runway-simulator/internal/game/plane"
	"runway-simulator/internal/game/queue"
	"runway-simulator/pkg/types"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t       *testing.T
	runway  *Scheduler
	history *event.Log
	wg      sync.WaitGroup
}

func newHarness(t *testing.T, cfg Config, sinks ...event.Sink) *harness {
	h := &harness{t: t, history: event.NewLog(0)}
	h.runway = NewScheduler("09L", cfg, event.Tee(append([]event.Sink{h.history}, sinks...)...))
	return h
}

func fastConfig() Config {
	return Config{
		LandingDuration:    80 * time.Millisecond,
		TakeoffDuration:    80 * time.Millisecond,
		CheckpointInterval: 10 * time.Millisecond,
	}
}

// arrive queues a plane synchronously, so arrival order is the call order,
// and then flies it on its own goroutine.
func (h *harness) arrive(id int, op types.Operation, priority types.Priority) *plane.Plane {
	p := plane.NewPlane(flightplan.New(types.PlaneID(id), op, priority))
	require.NoError(h.t, h.runway.Arrive(p))
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.runway.Fly(p)
	}()
	return p
}

func (h *harness) waitForActive(id types.PlaneID) {
	require.Eventually(h.t, func() bool {
		a := h.runway.Snapshot(0).Active
		return a != nil && a.ID == id
	}, time.Second, time.Millisecond)
}

func (h *harness) ids(kind event.Kind) []types.PlaneID {
	var ids []types.PlaneID
	for _, e := range h.history.Events() {
		if e.Kind == kind {
			ids = append(ids, e.PlaneID)
		}
	}
	return ids
}

func (h *harness) assertHistoryClean() {
	events := h.history.Events()
	assert.NoError(h.t, conflict.CheckSeparation(events))
	assert.NoError(h.t, conflict.CheckPriority(events))
	assert.NoError(h.t, conflict.CheckPreemptions(events))
}

func (h *harness) assertDrained() {
	for _, c := range types.Priorities {
		tickets, queued := h.runway.Pending(c)
		assert.Zero(h.t, tickets, "%s tickets", c)
		assert.Zero(h.t, queued, "%s queued", c)
	}
	assert.Equal(h.t, h.runway.Total(), h.runway.Completed())
	assert.Nil(h.t, h.runway.Snapshot(0).Active)
}

func TestRemainingAndProgress(t *testing.T) {
	assert.Equal(t, 8*time.Second, Remaining(8*time.Second, 0))
	assert.Equal(t, 6560*time.Millisecond, Remaining(8*time.Second, 18))

	assert.Equal(t, 6, Progress(0, 1, 500*time.Millisecond, 8*time.Second))
	assert.Equal(t, 18, Progress(0, 3, 500*time.Millisecond, 8*time.Second))
	assert.Equal(t, 24, Progress(18, 1, 500*time.Millisecond, 8*time.Second))
	assert.Equal(t, 99, Progress(0, 16, 500*time.Millisecond, 8*time.Second), "only completion reaches 100")
}

func TestScheduler_NoEmergencies(t *testing.T) {
	cfg := fastConfig()
	cfg.LandingDuration = 40 * time.Millisecond
	cfg.TakeoffDuration = 40 * time.Millisecond
	h := newHarness(t, cfg)

	h.arrive(1, types.LANDING, types.NORMAL)
	h.arrive(2, types.TAKEOFF, types.NORMAL)
	h.arrive(3, types.LANDING, types.NORMAL)
	h.wg.Wait()

	want := []types.PlaneID{1, 2, 3}
	assert.Equal(t, want, h.ids(event.ARRIVAL))
	assert.Equal(t, want, h.ids(event.GRANT))
	assert.Equal(t, want, h.ids(event.COMPLETION))
	assert.Zero(t, h.runway.Preemptions())
	assert.Equal(t, 3, h.runway.Completed())
	h.assertDrained()
	h.assertHistoryClean()
}

// requeueRecorder notes each plane's checkpoint at the moment it is put
// back in line.
type requeueRecorder struct {
	mu          sync.Mutex
	planes      map[types.PlaneID]*plane.Plane
	checkpoints map[types.PlaneID][]int
}

func (r *requeueRecorder) Emit(e event.Event) {
	if e.Kind != event.REQUEUE {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints[e.PlaneID] = append(r.checkpoints[e.PlaneID], r.planes[e.PlaneID].Checkpoint())
}

func TestScheduler_SinglePreemption(t *testing.T) {
	cfg := fastConfig()
	cfg.LandingDuration = 400 * time.Millisecond
	cfg.TakeoffDuration = 100 * time.Millisecond
	cfg.CheckpointInterval = 25 * time.Millisecond

	rec := &requeueRecorder{planes: map[types.PlaneID]*plane.Plane{}, checkpoints: map[types.PlaneID][]int{}}
	h := newHarness(t, cfg, rec)

	normal := plane.NewPlane(flightplan.New(1, types.LANDING, types.NORMAL))
	rec.planes[normal.ID] = normal
	require.NoError(t, h.runway.Arrive(normal))
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.runway.Fly(normal)
	}()
	h.waitForActive(1)

	time.Sleep(50 * time.Millisecond)
	h.arrive(2, types.TAKEOFF, types.EMERGENCY)
	h.wg.Wait()

	assert.Equal(t, 1, h.runway.Preemptions())
	assert.Equal(t, []types.PlaneID{1, 2, 1}, h.ids(event.GRANT))
	assert.Equal(t, []types.PlaneID{1}, h.ids(event.PREEMPTION))
	assert.Equal(t, []types.PlaneID{2, 1}, h.ids(event.COMPLETION))

	// Preempted at a checkpoint boundary shortly after the emergency arrived.
	require.Len(t, rec.checkpoints[1], 1)
	c := rec.checkpoints[1][0]
	assert.GreaterOrEqual(t, c, 6)
	assert.Less(t, c, 50)

	// The normal plane resumes only after the emergency has released.
	var order []event.Kind
	for _, e := range h.history.Events() {
		if (e.PlaneID == 2 && e.Kind == event.RELEASE) || (e.PlaneID == 1 && e.Kind == event.RESUME) {
			order = append(order, e.Kind)
		}
	}
	assert.Equal(t, []event.Kind{event.RELEASE, event.RESUME}, order)

	st := normal.Status()
	assert.Equal(t, plane.COMPLETED, st.State)
	assert.Equal(t, 100, st.Checkpoint)
	assert.Equal(t, 1, st.Preemptions)
	h.assertDrained()
	h.assertHistoryClean()
}

func TestScheduler_EmergencyGrantedBeforeQueuedNormals(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.arrive(1, types.LANDING, types.EMERGENCY)
	h.waitForActive(1)

	h.arrive(2, types.LANDING, types.NORMAL)
	h.arrive(3, types.TAKEOFF, types.NORMAL)
	h.arrive(4, types.TAKEOFF, types.EMERGENCY)
	h.wg.Wait()

	assert.Equal(t, []types.PlaneID{1, 4, 2, 3}, h.ids(event.GRANT))
	assert.Zero(t, h.runway.Preemptions(), "emergency occupants are never preempted")
	h.assertDrained()
	h.assertHistoryClean()
}

func TestScheduler_StaleEmergencyFlagDoesNotPreempt(t *testing.T) {
	h := newHarness(t, fastConfig())

	// The flag is raised while the runway is free and nobody is preemptible.
	h.arrive(1, types.LANDING, types.EMERGENCY)
	h.wg.Wait()
	assert.True(t, h.runway.Snapshot(0).EmergencyPending)

	h.arrive(2, types.LANDING, types.NORMAL)
	h.wg.Wait()

	assert.Zero(t, h.runway.Preemptions())
	assert.False(t, h.runway.Snapshot(0).EmergencyPending)
	h.assertHistoryClean()
}

func TestScheduler_TicketsTrackQueueUnderRequeue(t *testing.T) {
	cfg := Config{
		LandingDuration:    20 * time.Millisecond,
		TakeoffDuration:    200 * time.Millisecond,
		CheckpointInterval: 5 * time.Millisecond,
	}
	h := newHarness(t, cfg)

	stop := make(chan struct{})
	sampler := make(chan struct{})
	go func() {
		defer close(sampler)
		for {
			select {
			case <-stop:
				return
			default:
			}
			tickets, queued := h.runway.Pending(types.NORMAL)
			if tickets != queued {
				t.Errorf("normal tickets %d != queued %d", tickets, queued)
				return
			}
			time.Sleep(100 * time.Microsecond)
		}
	}()

	h.arrive(1, types.TAKEOFF, types.NORMAL)
	h.waitForActive(1)

	var arrivals sync.WaitGroup
	for i := 0; i < 5; i++ {
		arrivals.Add(2)
		go func(id int) {
			defer arrivals.Done()
			h.arrive(id, types.LANDING, types.EMERGENCY)
		}(100 + i)
		go func(id int) {
			defer arrivals.Done()
			h.arrive(id, types.LANDING, types.NORMAL)
		}(200 + i)
		time.Sleep(15 * time.Millisecond)
	}
	arrivals.Wait()
	h.wg.Wait()
	close(stop)
	<-sampler

	assert.Equal(t, 11, h.runway.Completed())
	assert.Positive(t, h.runway.Preemptions())
	h.assertDrained()
	h.assertHistoryClean()
}

func TestScheduler_QueueFullSurfacesError(t *testing.T) {
	cfg := fastConfig()
	cfg.QueueCapacity = 1
	h := newHarness(t, cfg)

	first := plane.NewPlane(flightplan.New(1, types.LANDING, types.NORMAL))
	second := plane.NewPlane(flightplan.New(2, types.LANDING, types.NORMAL))
	require.NoError(t, h.runway.Arrive(first))

	err := h.runway.Arrive(second)
	assert.ErrorIs(t, err, queue.ErrFull)
	assert.Equal(t, plane.WAITING, second.State())

	tickets, queued := h.runway.Pending(types.NORMAL)
	assert.Equal(t, 1, tickets)
	assert.Equal(t, 1, queued)
	assert.Equal(t, 1, h.runway.Total())

	h.runway.Fly(first)
	h.assertDrained()
}

func TestScheduler_Shutdown(t *testing.T) {
	h := newHarness(t, fastConfig())

	p := plane.NewPlane(flightplan.New(1, types.TAKEOFF, types.NORMAL))
	require.NoError(t, h.runway.Arrive(p))
	assert.ErrorIs(t, h.runway.Shutdown(), ErrBusy)

	h.runway.Fly(p)
	require.NoError(t, h.runway.Shutdown())

	late := plane.NewPlane(flightplan.New(2, types.TAKEOFF, types.NORMAL))
	assert.ErrorIs(t, h.runway.Arrive(late), ErrClosed)
}

func TestScheduler_Snapshot(t *testing.T) {
	h := newHarness(t, fastConfig())
	for i := 1; i <= 3; i++ {
		require.NoError(t, h.runway.Arrive(plane.NewPlane(flightplan.New(types.PlaneID(i), types.LANDING, types.NORMAL))))
	}
	require.NoError(t, h.runway.Arrive(plane.NewPlane(flightplan.New(4, types.LANDING, types.EMERGENCY))))

	snap := h.runway.Snapshot(1)
	assert.Equal(t, "09L", snap.Runway)
	assert.Nil(t, snap.Active)
	assert.Equal(t, 3, snap.Normal.Count)
	require.Len(t, snap.Normal.Planes, 1)
	assert.Equal(t, types.PlaneID(1), snap.Normal.Planes[0].ID)
	assert.Equal(t, 2, snap.Normal.Overflow)
	assert.Equal(t, 1, snap.Emergency.Count)
	assert.Zero(t, snap.Emergency.Overflow)
	assert.True(t, snap.EmergencyPending)
	assert.Equal(t, 4, snap.Total)
}
