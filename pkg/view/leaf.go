package view

// Option configures a leaf.
type Option func(*leaf)

// OnChange registers a callback invoked after the leaf's rendered output
// changes.
func OnChange(fn func()) Option {
	return func(l *leaf) {
		l.onChange = fn
	}
}

type leaf struct {
	onChange func()
	evals    int
}

func newLeaf(opts []Option) leaf {
	var l leaf
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Evaluations counts how many times the leaf recomputed its output.
func (l *leaf) Evaluations() int {
	return l.evals
}

func (l *leaf) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}
