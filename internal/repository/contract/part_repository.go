package contract

import (
	"context"

	"pc-autobuild-be/pkg/autobuild"
)

// PartRepository is the postgres-backed compatibility graph.
type PartRepository interface {
	autobuild.GraphStore

	Upsert(ctx context.Context, part autobuild.Part) error
	Connect(ctx context.Context, from, to autobuild.PartKey) error
	Count(ctx context.Context) (int64, error)
}
