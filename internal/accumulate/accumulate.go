// Package accumulate adds a value to every element of an integer sequence.
//
// The value is passed by reference and read again before every addition, so
// when it points into the sequence being updated, later elements see the
// already-updated referent. AddNumbers(items, &items[0]) on [2 2 2 2 2]
// doubles the first element to 4 and then adds that 4 to every later
// element, yielding [4 6 6 6 6] rather than [4 4 4 4 4].
package accumulate

// Step records a single addition performed by Trace or TraceAt.
type Step struct {
	Index  int `json:"index"`
	Before int `json:"before"`
	Addend int `json:"addend"` // value as read for this step
	After  int `json:"after"`
}

// AddNumbers adds *value to each element of items, first to last.
// value is dereferenced on every step and may point into items.
// An empty items is a no-op and value is never read.
func AddNumbers(items []int, value *int) {
	addNumbers(items, func() int { return *value }, nil)
}

// AddNumbersAt is AddNumbers with the value given as an index into items.
// items[index] is read afresh on every step.
func AddNumbersAt(items []int, index int) {
	addNumbers(items, func() int { return items[index] }, nil)
}

// AddNumbersCached adds a value captured once before iteration.
// It never observes its own writes, which is the outcome aliasing breaks.
func AddNumbersCached(items []int, value int) {
	for i := range items {
		items[i] += value
	}
}

// Trace runs AddNumbers and returns one Step per element.
func Trace(items []int, value *int) []Step {
	return trace(items, func() int { return *value })
}

// TraceAt runs AddNumbersAt and returns one Step per element.
func TraceAt(items []int, index int) []Step {
	return trace(items, func() int { return items[index] })
}

func trace(items []int, read func() int) []Step {
	steps := make([]Step, 0, len(items))
	addNumbers(items, read, func(s Step) {
		steps = append(steps, s)
	})
	return steps
}

func addNumbers(items []int, read func() int, observe func(Step)) {
	for i := range items {
		before := items[i]
		addend := read()
		items[i] = before + addend
		if observe != nil {
			observe(Step{Index: i, Before: before, Addend: addend, After: items[i]})
		}
	}
}
