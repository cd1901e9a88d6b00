package optimization

// Record is one (position, fitness) pair captured at dump time. The position
// is an independent copy; later in-place mutation of the live agent does not
// touch it.
type Record struct {
	Position []float64 `json:"position"`
	Fit      float64   `json:"fit"`
}

// Snapshot is the state captured for one completed iteration: the best agent
// and, unless the history stores best-only, the whole population.
type Snapshot struct {
	Agents []Record `json:"agents,omitempty"`
	Best   Record   `json:"best"`
}

// History is the append-only per-iteration record of a run. Whether full
// populations or only the best agent are kept is fixed at construction.
type History struct {
	storeBestOnly bool
	snapshots     []Snapshot
}

// NewHistory creates an empty history. When storeBestOnly is true, Dump
// records only the best agent of each iteration.
func NewHistory(storeBestOnly bool) *History {
	return &History{storeBestOnly: storeBestOnly}
}

// StoreBestOnly reports whether the history keeps best-agent snapshots only.
func (h *History) StoreBestOnly() bool {
	return h.storeBestOnly
}

// Dump appends one snapshot. Positions are copied so the snapshot is immune
// to the next iteration's in-place updates.
func (h *History) Dump(agents []*Agent, best *Agent) {
	snap := Snapshot{
		Best: Record{
			Position: append([]float64(nil), best.Position...),
			Fit:      best.Fit,
		},
	}
	if !h.storeBestOnly {
		snap.Agents = make([]Record, len(agents))
		for i, a := range agents {
			snap.Agents[i] = Record{
				Position: append([]float64(nil), a.Position...),
				Fit:      a.Fit,
			}
		}
	}
	h.snapshots = append(h.snapshots, snap)
}

// Len returns the number of completed iterations recorded.
func (h *History) Len() int {
	return len(h.snapshots)
}

// At returns the snapshot for iteration i.
func (h *History) At(i int) Snapshot {
	return h.snapshots[i]
}

// BestFitness returns the best fitness of each recorded iteration, in order.
func (h *History) BestFitness() []float64 {
	fits := make([]float64, len(h.snapshots))
	for i, s := range h.snapshots {
		fits[i] = s.Best.Fit
	}
	return fits
}
