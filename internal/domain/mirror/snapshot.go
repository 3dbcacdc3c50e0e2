package mirror

import (
	"sort"

	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Snapshot is a deep, JSON-serializable copy of the mirror's state. The
// optimizer plans against a snapshot so the live mirror stays single-writer,
// and sessions can be archived and replayed from serialized snapshots.
type Snapshot struct {
	CurrentHour    shared.GameHour             `json:"currentHour"`
	Inventories    map[string]shared.KitVector `json:"inventories"`
	Pending        []Movement                  `json:"pending"`
	Flights        []*Flight                   `json:"flights"`
	CommittedLoads map[string]shared.KitVector `json:"committedLoads"`
	TotalCost      float64                     `json:"totalCost"`
}

// Snapshot copies the mirror's state. Flights are sorted by id so serialized
// snapshots are byte-stable.
func (m *Mirror) Snapshot() *Snapshot {
	s := &Snapshot{
		CurrentHour:    m.current,
		Inventories:    make(map[string]shared.KitVector, len(m.inventories)),
		Pending:        make([]Movement, len(m.pending)),
		Flights:        make([]*Flight, 0, len(m.flights)),
		CommittedLoads: make(map[string]shared.KitVector, len(m.committed)),
		TotalCost:      m.totalCost,
	}
	for k, v := range m.inventories {
		s.Inventories[k] = v
	}
	for i, mv := range m.pending {
		s.Pending[i] = *mv
	}
	for _, f := range m.flights {
		s.Flights = append(s.Flights, f.Clone())
	}
	sort.Slice(s.Flights, func(i, j int) bool { return s.Flights[i].ID < s.Flights[j].ID })
	for k, v := range m.committed {
		s.CommittedLoads[k] = v
	}
	return s
}

// FromSnapshot rebuilds a mirror from an archived snapshot.
func FromSnapshot(cat *catalog.Catalog, s *Snapshot) *Mirror {
	m := &Mirror{
		cat:         cat,
		current:     s.CurrentHour,
		inventories: make(map[string]shared.KitVector, len(s.Inventories)),
		flights:     make(map[string]*Flight, len(s.Flights)),
		committed:   make(map[string]shared.KitVector, len(s.CommittedLoads)),
		totalCost:   s.TotalCost,
	}
	for k, v := range s.Inventories {
		m.inventories[k] = v
	}
	for i := range s.Pending {
		mv := s.Pending[i]
		m.insert(&mv)
	}
	for _, f := range s.Flights {
		m.flights[f.ID] = f.Clone()
	}
	for k, v := range s.CommittedLoads {
		m.committed[k] = v
	}
	return m
}

// PlannableInventories returns the inventories with every committed load of a
// not-yet-departed flight credited back to its origin. A re-submitted load
// replaces the committed one, which is refunded at commit time, so planners
// may spend those kits again.
func (s *Snapshot) PlannableInventories() map[string]shared.KitVector {
	inv := make(map[string]shared.KitVector, len(s.Inventories))
	for code, v := range s.Inventories {
		inv[code] = v
	}
	for _, f := range s.Flights {
		if f.Phase >= Departed {
			continue
		}
		if prev, ok := s.CommittedLoads[f.ID]; ok {
			inv[f.Origin] = inv[f.Origin].Add(prev)
		}
	}
	return inv
}

// Flight returns the snapshot's record of one flight, or nil.
func (s *Snapshot) Flight(id string) *Flight {
	for _, f := range s.Flights {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// OnHand sums on-hand inventory across all airports, for conservation checks.
func (s *Snapshot) OnHand() shared.KitVector {
	var total shared.KitVector
	for _, v := range s.Inventories {
		total = total.Add(v)
	}
	return total
}

// InFlight sums every pending movement's kits, for conservation checks.
func (s *Snapshot) InFlight() shared.KitVector {
	var total shared.KitVector
	for _, mv := range s.Pending {
		total = total.Add(mv.Kits)
	}
	return total
}
