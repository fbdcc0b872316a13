package hospital

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Hospital, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
}
