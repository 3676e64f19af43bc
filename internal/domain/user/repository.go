package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// ListAdminEmails returns the contact addresses of active administrators,
	// used as notification recipients for new leave requests.
	ListAdminEmails(ctx context.Context) ([]string, error)
}
