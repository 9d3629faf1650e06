package storage

import (
	"context"

	"github.com/ncseq/seqserver/internal/model"
)

// Store defines the interface for session record persistence. Records are
// advisory metadata for listing and operational visibility; the live
// registry never depends on them.
type Store interface {
	SaveSessionRecord(ctx context.Context, record *model.SessionRecord) error
	GetSessionRecord(ctx context.Context, code model.GameCode) (*model.SessionRecord, error)
	ListSessionRecords(ctx context.Context) ([]*model.SessionRecord, error)
	DeleteSessionRecord(ctx context.Context, code model.GameCode) error
}
