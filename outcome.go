package fundselling

// Outcome reports what a mutating operation actually did.
//
// Adding an existing asset or deleting a missing scenario are not errors,
// they are no-ops, and the Outcome makes them observable.
type Outcome int

const (
	Created Outcome = iota + 1
	AlreadyExists
	Updated
	Deleted
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Changed returns true if the operation modified the persisted state.
func (o Outcome) Changed() bool {
	return o == Created || o == Updated || o == Deleted
}
