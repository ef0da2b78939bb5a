package connection

// Budget caps the number of connection requests sent in one run.
// Sent never exceeds Requested.
type Budget struct {
	Requested int
	Sent      int
}

// NewBudget creates a budget for n requests
func NewBudget(n int) *Budget {
	if n < 0 {
		n = 0
	}
	return &Budget{Requested: n}
}

// CanSend reports whether another request fits in the budget
func (b *Budget) CanSend() bool {
	return b.Sent < b.Requested
}

// Record counts one sent request. It is a no-op once the budget is spent.
func (b *Budget) Record() {
	if b.CanSend() {
		b.Sent++
	}
}

// Remaining returns how many more requests can be sent
func (b *Budget) Remaining() int {
	return b.Requested - b.Sent
}
