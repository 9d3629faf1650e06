package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SaveSessionRecord(ctx context.Context, record *model.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Pipeline the record write and the index update together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionRecordKey(record.Code), data, s.cfg.SessionRecordTTL)
	pipe.SAdd(ctx, sessionIndexKey(), string(record.Code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSessionRecord(ctx context.Context, code model.GameCode) (*model.SessionRecord, error) {
	data, err := s.client.Get(ctx, sessionRecordKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var record model.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListSessionRecords(ctx context.Context) ([]*model.SessionRecord, error) {
	codes, err := s.client.SMembers(ctx, sessionIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.SessionRecord, 0, len(codes))
	for _, code := range codes {
		record, err := s.GetSessionRecord(ctx, model.GameCode(code))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				// Record expired but index entry remains; drop it
				_ = s.client.SRem(ctx, sessionIndexKey(), code).Err()
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Storage) DeleteSessionRecord(ctx context.Context, code model.GameCode) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionRecordKey(code))
	pipe.SRem(ctx, sessionIndexKey(), string(code))
	_, err := pipe.Exec(ctx)
	return err
}
