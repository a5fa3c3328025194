package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress"
	"github.com/KirkDiggler/quizdraft/internal/repositories/progress/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RetryingRepositoryTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockRepo *mocks.MockRepository
	repo     progress.Repository
	ctx      context.Context
}

func (s *RetryingRepositoryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = mocks.NewMockRepository(s.mockCtrl)

	repo, err := progress.NewRetrying(&progress.RetryConfig{
		Repository:      s.mockRepo,
		MaxTries:        3,
		InitialInterval: time.Millisecond,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RetryingRepositoryTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRetryingRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RetryingRepositoryTestSuite))
}

func (s *RetryingRepositoryTestSuite) TestRetriesTransientFailure() {
	input := &progress.InsertPlayerResultsInput{Results: []*models.PlayerResult{{ID: "r1"}}}
	gomock.InOrder(
		s.mockRepo.EXPECT().InsertPlayerResults(s.ctx, input).Return(errors.New("database is locked")),
		s.mockRepo.EXPECT().InsertPlayerResults(s.ctx, input).Return(nil),
	)

	err := s.repo.InsertPlayerResults(s.ctx, input)
	s.NoError(err)
}

func (s *RetryingRepositoryTestSuite) TestGivesUpAfterMaxTries() {
	input := &progress.GetPlayerPerksInput{UserID: "u1"}
	s.mockRepo.EXPECT().GetPlayerPerks(s.ctx, input).Return(nil, errors.New("connection refused")).Times(3)

	_, err := s.repo.GetPlayerPerks(s.ctx, input)
	s.EqualError(err, "connection refused")
}

func (s *RetryingRepositoryTestSuite) TestDomainErrorsAreNotRetried() {
	input := &progress.GetUserPerkDraftInput{UserID: "u1", Level: 2}
	s.mockRepo.EXPECT().GetUserPerkDraft(s.ctx, input).Return(nil, progress.ErrNotFound).Times(1)

	_, err := s.repo.GetUserPerkDraft(s.ctx, input)
	s.ErrorIs(err, progress.ErrNotFound)

	insert := &progress.InsertUserPerkDraftInput{Draft: &models.UserPerkDraft{UserID: "u1", Level: 2}}
	s.mockRepo.EXPECT().InsertUserPerkDraft(s.ctx, insert).Return(progress.ErrAlreadyExists).Times(1)

	err = s.repo.InsertUserPerkDraft(s.ctx, insert)
	s.ErrorIs(err, progress.ErrAlreadyExists)
}

func (s *RetryingRepositoryTestSuite) TestNonIdempotentWritesPassThrough() {
	xp := &progress.AddExperienceInput{UserID: "u1", XP: 100}
	s.mockRepo.EXPECT().AddExperience(s.ctx, xp).Return(nil, errors.New("timeout")).Times(1)

	_, err := s.repo.AddExperience(s.ctx, xp)
	s.Error(err)

	resolve := &progress.ResolveUserPerkDraftInput{UserID: "u1", Level: 2}
	s.mockRepo.EXPECT().ResolveUserPerkDraft(s.ctx, resolve).Return(nil, errors.New("timeout")).Times(1)

	_, err = s.repo.ResolveUserPerkDraft(s.ctx, resolve)
	s.Error(err)
}

func (s *RetryingRepositoryTestSuite) TestNewRetryingValidation() {
	_, err := progress.NewRetrying(nil)
	s.Error(err)

	_, err = progress.NewRetrying(&progress.RetryConfig{})
	s.Error(err)
}
