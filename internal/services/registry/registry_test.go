package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ncseq/seqserver/internal/dependencies/mocks"
	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = New(s.random, s.clock, testutil.NopLogger())
}

func (s *RegistrySuite) TestCreateSessionSucceeds() {
	s.random.QueueString("482913")
	s.random.QueueUint32(77)

	session, adminToken, err := s.registry.CreateSession()
	s.Require().NoError(err)

	s.Equal(model.GameCode("482913"), session.Code())
	s.Equal(model.Token(77), adminToken)
	s.Equal(1, s.registry.Len())
}

func (s *RegistrySuite) TestCreateSessionIsLookupable() {
	s.random.QueueString("482913")
	s.random.QueueUint32(77)

	session, _, err := s.registry.CreateSession()
	s.Require().NoError(err)

	found, err := s.registry.Lookup(session.Code())
	s.Require().NoError(err)
	s.Same(session, found)
}

func (s *RegistrySuite) TestCreateSessionRetriesOnCodeCollision() {
	s.random.QueueString("111111")
	s.random.QueueUint32(1)
	first, _, err := s.registry.CreateSession()
	s.Require().NoError(err)

	s.random.QueueString("111111", "222222")
	s.random.QueueUint32(2)
	second, _, err := s.registry.CreateSession()
	s.Require().NoError(err)

	s.Equal(model.GameCode("111111"), first.Code())
	s.Equal(model.GameCode("222222"), second.Code())
	s.Equal(2, s.registry.Len())
}

func (s *RegistrySuite) TestCreateSessionCodesAreDistinct() {
	codes := map[model.GameCode]bool{}
	for i, code := range []string{"000001", "000002", "000003", "000004"} {
		s.random.QueueString(code)
		s.random.QueueUint32(uint32(i + 1))
		session, _, err := s.registry.CreateSession()
		s.Require().NoError(err)
		s.False(codes[session.Code()])
		s.Len(string(session.Code()), GameCodeLength)
		codes[session.Code()] = true
	}
}

func (s *RegistrySuite) TestLookupUnknownCode() {
	_, err := s.registry.Lookup("000000")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
