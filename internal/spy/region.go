package spy

// Region is an observable area of content identified by an anchor key.
type Region struct {
	Key          string
	Ratio        float64
	Intersecting bool
}

// NavControl represents navigation to one Region. Active is owned by the
// Resolver of the Context the control was started with.
type NavControl struct {
	Key    string
	Label  string
	Active bool
}

// Pair binds a Region to the NavControl that navigates to it.
type Pair struct {
	Region  *Region
	Control *NavControl
}

// NewPair builds a pair whose region and control share key.
func NewPair(key, label string) Pair {
	return Pair{
		Region:  &Region{Key: key},
		Control: &NavControl{Key: key, Label: label},
	}
}

// VisibilityEvent reports a change in one region's intersection state.
type VisibilityEvent struct {
	Key          string
	Intersecting bool
	Ratio        float64
}
