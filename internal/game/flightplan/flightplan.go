package flightplan

import (
	"fmt"
	"math/rand"
	"runway-simulator/pkg/types"
)

// FlightPlan is what the driver files for a plane before it is spawned.
type FlightPlan struct {
	ID        types.PlaneID
	Callsign  string
	Operation types.Operation
	Priority  types.Priority
}

func New(id types.PlaneID, op types.Operation, priority types.Priority) FlightPlan {
	return FlightPlan{
		ID:        id,
		Callsign:  fmt.Sprintf("P%03d", id),
		Operation: op,
		Priority:  priority,
	}
}

// Random files a plan with a random operation and an emergency drawn with
// the given probability (0-100).
func Random(rng *rand.Rand, id types.PlaneID, emergencyProbability int) FlightPlan {
	op := types.LANDING
	if rng.Intn(2) == 1 {
		op = types.TAKEOFF
	}

	priority := types.NORMAL
	if rng.Intn(100) < emergencyProbability {
		priority = types.EMERGENCY
	}

	return FlightPlan{
		ID:        id,
		Callsign:  fmt.Sprintf("%s%03d", randomAirlinePrefix(rng), 100+int(id)),
		Operation: op,
		Priority:  priority,
	}
}

func randomAirlinePrefix(rng *rand.Rand) string {
	prefixes := []string{"AAL", "SWA", "DAL", "UAL", "JBU", "ASA", "FFT", "AI", "JAL"}
	return prefixes[rng.Intn(len(prefixes))]
}
