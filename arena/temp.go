package arena

// Temp marks a position in an arena so that everything pushed after it can be rolled back
// together. Temps nest in LIFO order. A Temp does not own anything; ending a Temp twice, or
// ending an outer Temp before an inner one, simply rolls the arena back to the marked position.
type Temp struct {
	arena    *Arena
	position uint64
}

// TempBegin marks the arena's current position
func (a *Arena) TempBegin() Temp {
	return Temp{
		arena:    a,
		position: a.Position(),
	}
}

// TempEnd rolls the temp's arena back to the marked position
func (a *Arena) TempEnd(temp Temp) {
	temp.End()
}

// End rolls the arena back to the marked position
func (t Temp) End() {
	t.arena.PopTo(t.position)
}

// Position returns the marked position
func (t Temp) Position() uint64 {
	return t.position
}

// Scope runs fn inside a temp scope. Everything pushed from the arena while fn runs is rolled
// back when fn returns or panics. Scope returns fn's error.
func (a *Arena) Scope(fn func() error) error {
	temp := a.TempBegin()
	defer temp.End()

	return fn()
}
