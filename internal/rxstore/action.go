package rxstore

// Action is anything that can be dispatched on a Store.
type Action interface {
	Type() string
}

// Transition is an action that knows how to fold itself into S.
// Apply must be pure and must return its input unchanged when it has nothing to do.
type Transition[S any] interface {
	Action
	Apply(S) S
}

// Reducer folds one action into the previous state.
type Reducer[S any] func(S, Action) S

// ReduceTransitions applies a to state when a is a Transition[S].
// Every other action leaves state untouched.
func ReduceTransitions[S any](state S, a Action) S {
	if t, ok := a.(Transition[S]); ok {
		return t.Apply(state)
	}
	return state
}

// Releaser is implemented by actions that own a resource which must be freed
// when the action is discarded instead of dispatched.
type Releaser interface {
	Release()
}

// Namespace prefixes action tags so stores sharing an action stream do not collide.
type Namespace string

func (n Namespace) Tag(name string) string {
	return string(n) + name
}

// Owns reports whether tag was produced by n.
func (n Namespace) Owns(tag string) bool {
	return len(tag) >= len(n) && tag[:len(n)] == string(n)
}

// Is returns a predicate matching actions tagged tag.
func Is(tag string) func(Action) bool {
	return func(a Action) bool { return a != nil && a.Type() == tag }
}
