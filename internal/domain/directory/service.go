package directory

import "context"

// Directory resolves entity references to their minimal records. One adapter
// per entity kind sits behind it; callers never branch on the kind themselves.
type Directory interface {
	Resolve(ctx context.Context, ref EntityRef) (Entity, error)
	// AdminEmails returns the notification recipients for administrative
	// events (new leave requests awaiting review).
	AdminEmails(ctx context.Context) ([]string, error)
}
