package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ncseq/seqserver/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete session flow from creation through start
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	// Setup: Queue random values
	s.app.MockRandom.QueueString("482913")
	s.app.MockRandom.QueueUint32(77)

	// Step 1: Create a session
	created, err := s.app.Coordinator.CreateSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameCode("482913"), created.Code)
	s.Equal(model.Token(77), created.AdminToken)

	// Step 2: Two players join with distinct credentials
	s.app.MockRandom.QueueUint32(10, 11)
	alice, err := s.app.Coordinator.JoinSession(s.ctx, created.Code, "alice")
	s.Require().NoError(err)

	s.app.MockRandom.QueueUint32(20, 21)
	bob, err := s.app.Coordinator.JoinSession(s.ctx, created.Code, "bob")
	s.Require().NoError(err)

	s.NotEqual(alice.PlayerToken, bob.PlayerToken)
	s.NotEqual(alice.Player.ID, bob.Player.ID)

	// Step 3: A player token cannot start the session
	_, err = s.app.Coordinator.StartSession(s.ctx, created.Code, alice.PlayerToken)
	s.ErrorIs(err, model.ErrNotAdmin)

	// Step 4: A waiter blocks until the admin starts the session
	type waitResult struct {
		snapshot model.Snapshot
		err      error
	}
	results := make(chan waitResult, 1)
	go func() {
		snapshot, err := s.app.Coordinator.WaitForStart(s.ctx, created.Code, bob.PlayerToken)
		results <- waitResult{snapshot, err}
	}()

	time.Sleep(10 * time.Millisecond)
	snapshot, err := s.app.Coordinator.StartSession(s.ctx, created.Code, created.AdminToken)
	s.Require().NoError(err)
	s.Equal(model.PhaseStarted, snapshot.Phase)

	select {
	case r := <-results:
		s.Require().NoError(r.err)
		s.Equal(model.PhaseStarted, r.snapshot.Phase)
		s.Len(r.snapshot.Players, 2)
	case <-time.After(time.Second):
		s.Fail("waiter was not released by start")
	}

	// Step 5: The record store reflects the final state
	record, err := s.app.Store.GetSessionRecord(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(model.PhaseStarted, record.Phase)
	s.Equal(2, record.PlayerCount)
	s.Require().NotNil(record.StartedAt)
}

func (s *IntegrationSuite) TestJoinAfterStart() {
	s.app.MockRandom.QueueString("482913")
	s.app.MockRandom.QueueUint32(77)
	created, err := s.app.Coordinator.CreateSession(s.ctx)
	s.Require().NoError(err)

	_, err = s.app.Coordinator.StartSession(s.ctx, created.Code, created.AdminToken)
	s.Require().NoError(err)

	// A late joiner is still admitted and sees the started phase
	s.app.MockRandom.QueueUint32(10, 11)
	late, err := s.app.Coordinator.JoinSession(s.ctx, created.Code, "carol")
	s.Require().NoError(err)

	snapshot, err := s.app.Coordinator.WaitForStart(s.ctx, created.Code, late.PlayerToken)
	s.Require().NoError(err)
	s.Equal(model.PhaseStarted, snapshot.Phase)
}

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Store == nil || app.Coordinator == nil || app.Registry == nil {
		t.Fatal("app not fully wired")
	}
}

func TestNewRejectsMissingRedisConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	if err == nil {
		t.Fatal("expected error for redis storage without config")
	}
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "cassandra"})
	if err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}
