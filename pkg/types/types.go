package types

type PlaneID int

type Operation int

const (
	LANDING Operation = iota
	TAKEOFF
)

var OperationStringMap = map[Operation]string{
	LANDING: "LANDING",
	TAKEOFF: "TAKEOFF",
}

func (op Operation) String() string {
	if s, ok := OperationStringMap[op]; ok {
		return s
	}
	return "UNKNOWN"
}

type Priority int

const (
	NORMAL Priority = iota
	EMERGENCY
)

var PriorityStringMap = map[Priority]string{
	NORMAL:    "NORMAL",
	EMERGENCY: "EMERGENCY",
}

func (p Priority) String() string {
	if s, ok := PriorityStringMap[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// Priorities lists the classes in grant order.
var Priorities = []Priority{EMERGENCY, NORMAL}
