package table

// State is the marker of a slot.
type State uint8

const (
	// Empty slots terminate probe chains.
	Empty State = iota
	// Occupied slots hold a live key/value pair.
	Occupied
	// Tombstone slots held a removed pair; probes continue past them.
	Tombstone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Occupied:
		return "occupied"
	case Tombstone:
		return "tombstone"
	default:
		return "unknown"
	}
}

// Slot is one cell of a table. key and value are meaningful only when the
// state is Occupied; otherwise they hold zero values.
type Slot[K, V any] struct {
	key   K
	value V
	state State
}

func (s *Slot[K, V]) fill(key K, value V) {
	s.key = key
	s.value = value
	s.state = Occupied
}

// bury turns an occupied slot into a tombstone and drops its references.
func (s *Slot[K, V]) bury() {
	var (
		zk K
		zv V
	)
	s.key = zk
	s.value = zv
	s.state = Tombstone
}
