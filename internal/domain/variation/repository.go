package variation

import "context"

// Repository stores experiment arms and pick assignments. Posterior
// updates are not part of this interface: the pick repository bumps alpha
// or beta inside the transaction that settles the pick, so each settled
// pick updates exactly one posterior.
type Repository interface {
	ListActive(ctx context.Context) ([]Variation, error)
	GetByID(ctx context.Context, id string) (Variation, bool, error)
	SaveAssignment(ctx context.Context, a Assignment) error
	AssignmentByPick(ctx context.Context, pickID string) (Assignment, bool, error)
}
