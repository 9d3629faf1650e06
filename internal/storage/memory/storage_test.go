package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ncseq/seqserver/internal/model"
)

type MemoryStorageSuite struct {
	suite.Suite
	storage *Storage
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(MemoryStorageSuite))
}

func (s *MemoryStorageSuite) SetupTest() {
	s.storage = New()
}

func (s *MemoryStorageSuite) record(code string, createdAt time.Time) *model.SessionRecord {
	return &model.SessionRecord{
		Code:        model.GameCode(code),
		Phase:       model.PhaseSetup,
		PlayerCount: 0,
		CreatedAt:   createdAt,
	}
}

func (s *MemoryStorageSuite) TestSaveAndGet() {
	record := s.record("482913", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), record))

	got, err := s.storage.GetSessionRecord(context.Background(), "482913")
	s.Require().NoError(err)
	s.Equal(record.Code, got.Code)
	s.Equal(record.CreatedAt, got.CreatedAt)
}

func (s *MemoryStorageSuite) TestGetNotFound() {
	_, err := s.storage.GetSessionRecord(context.Background(), "000000")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MemoryStorageSuite) TestSaveOverwrites() {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), s.record("482913", created)))

	updated := s.record("482913", created)
	updated.Phase = model.PhaseStarted
	updated.PlayerCount = 2
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), updated))

	got, err := s.storage.GetSessionRecord(context.Background(), "482913")
	s.Require().NoError(err)
	s.Equal(model.PhaseStarted, got.Phase)
	s.Equal(2, got.PlayerCount)
}

func (s *MemoryStorageSuite) TestListSortedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), s.record("222222", base.Add(time.Minute))))
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), s.record("111111", base)))

	records, err := s.storage.ListSessionRecords(context.Background())
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(model.GameCode("111111"), records[0].Code)
	s.Equal(model.GameCode("222222"), records[1].Code)
}

func (s *MemoryStorageSuite) TestDelete() {
	record := s.record("482913", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), record))

	s.Require().NoError(s.storage.DeleteSessionRecord(context.Background(), "482913"))

	_, err := s.storage.GetSessionRecord(context.Background(), "482913")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MemoryStorageSuite) TestDeleteUnknownIsNoOp() {
	s.NoError(s.storage.DeleteSessionRecord(context.Background(), "000000"))
}

func (s *MemoryStorageSuite) TestStoredRecordIsIsolatedFromCaller() {
	record := s.record("482913", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveSessionRecord(context.Background(), record))

	// Mutating the caller's copy must not change the stored record
	record.PlayerCount = 99

	got, err := s.storage.GetSessionRecord(context.Background(), "482913")
	s.Require().NoError(err)
	s.Equal(0, got.PlayerCount)

	got.PlayerCount = 50
	again, err := s.storage.GetSessionRecord(context.Background(), "482913")
	s.Require().NoError(err)
	s.Equal(0, again.PlayerCount)
}
