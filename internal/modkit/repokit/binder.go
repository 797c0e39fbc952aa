package repokit

// Binder produces a repo bound to one Queryer, usually the tx of the current call
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T {
	if q == nil {
		panic("repokit: bind on nil Queryer")
	}
	return f(q)
}
