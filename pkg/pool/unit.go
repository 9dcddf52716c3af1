package pool

// unitStats is UnitPool's trivial Stats: it always retains exactly one
// case, so there is nothing to report beyond that fact.
type unitStats struct{}

func (unitStats) String() string   { return "unit" }
func (unitStats) CSV() []string    { return []string{"unit"} }

// Unit stores exactly one immutable test case and never admits another.
type Unit[T any] struct {
	value T
}

// NewUnit builds a Unit pool retaining value.
func NewUnit[T any](value T) *Unit[T] { return &Unit[T]{value: value} }

func (p *Unit[T]) Len() int       { return 1 }
func (p *Unit[T]) Stats() Stats   { return unitStats{} }

func (p *Unit[T]) GetRandomIndex() (Index, bool) { return NewIndex(0), true }

func (p *Unit[T]) Get(_ Index) *T { return &p.value }

func (p *Unit[T]) RetrieveAfterProcessing(_ Index, _ int) (*T, bool) { return &p.value, true }

func (p *Unit[T]) MarkTestCaseAsDeadEnd(_ Index) {}

func (p *Unit[T]) Process(_ []Observation, _ InputRef[T], _ CloneInput[T], _ float64, _ EventHandler[T]) error {
	return nil
}

func (p *Unit[T]) Minify(_ int, _ EventHandler[T]) error { return nil }
