package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runway-simulator/internal/config"
	"runway-simulator/internal/game/conflict"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/flightplan"
	"runway-simulator/internal/game/plane"
	"runway-simulator/internal/game/runway"
	"runway-simulator/pkg/types"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Simulation struct {
	ID      uuid.UUID
	Config  config.Config
	Runway  *runway.Scheduler
	History *event.Log

	sink     event.Sink
	eg       errgroup.Group
	finished chan struct{}

	mu          sync.Mutex
	rng         *rand.Rand
	planes      []*plane.Plane
	nextPlaneID int
}

// NewSimulation validates cfg and builds the runway. Every event goes to
// the simulation's history and then to each of sinks.
func NewSimulation(cfg config.Config, sinks ...event.Sink) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	history := event.NewLog(0)
	sink := event.Tee(append([]event.Sink{history}, sinks...)...)

	s := &Simulation{
		ID:       uuid.New(),
		Config:   cfg,
		History:  history,
		sink:     sink,
		finished: make(chan struct{}),
		rng:      rand.New(rand.NewSource(seed)),
	}
	sink.Emit(event.System("Simulation %s starting (seed %d)", s.ID, seed))
	s.Runway = runway.NewScheduler(cfg.Runway, cfg.RunwayConfig(), sink)
	return s, nil
}

// Submit spawns the goroutine that flies fp through the runway.
func (s *Simulation) Submit(fp flightplan.FlightPlan) *plane.Plane {
	p := plane.NewPlane(fp)

	s.mu.Lock()
	s.planes = append(s.planes, p)
	s.mu.Unlock()

	s.eg.Go(func() error {
		return s.Runway.Operate(p)
	})
	return p
}

func (s *Simulation) SpawnRandomPlane() *plane.Plane {
	s.mu.Lock()
	s.nextPlaneID++
	fp := flightplan.Random(s.rng, types.PlaneID(s.nextPlaneID), s.Config.EmergencyProbability)
	s.mu.Unlock()

	return s.Submit(fp)
}

// Run spawns Config.Planes random planes with staggered arrivals and waits
// for all of them. Cancelling ctx stops further arrivals; planes already
// spawned still run to completion.
func (s *Simulation) Run(ctx context.Context) error {
	defer close(s.finished)

	s.sink.Emit(event.System("Spawning %d planes", s.Config.Planes))
spawn:
	for i := 0; i < s.Config.Planes; i++ {
		s.SpawnRandomPlane()
		if i == s.Config.Planes-1 {
			break
		}

		select {
		case <-ctx.Done():
			s.sink.Emit(event.System("Arrivals stopped after %d planes", i+1))
			break spawn
		case <-time.After(s.stagger()):
		}
	}

	s.sink.Emit(event.System("Waiting for all planes to complete"))
	return s.JoinAll()
}

// Finished is closed once Run has returned.
func (s *Simulation) Finished() <-chan struct{} {
	return s.finished
}

// JoinAll blocks until every submitted plane has completed, and returns the
// first lifecycle error.
func (s *Simulation) JoinAll() error {
	return s.eg.Wait()
}

// Shutdown checks the run's history for conflicts and closes the runway.
func (s *Simulation) Shutdown() error {
	events := s.History.Events()
	err := errors.Join(
		conflict.CheckSeparation(events),
		conflict.CheckPriority(events),
		conflict.CheckPreemptions(events),
	)
	if err != nil {
		return fmt.Errorf("simulation %s: %w", s.ID, err)
	}
	return s.Runway.Shutdown()
}

func (s *Simulation) Planes() []*plane.Plane {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*plane.Plane(nil), s.planes...)
}

func (s *Simulation) stagger() time.Duration {
	lo, hi := s.Config.ArrivalStaggerMin, s.Config.ArrivalStaggerMax
	if hi <= lo {
		return lo
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + time.Duration(s.rng.Int63n(int64(hi-lo)))
}
