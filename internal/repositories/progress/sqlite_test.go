package progress

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/stretchr/testify/suite"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	repo    *sqliteRepository
	ctx     context.Context
	testNow time.Time
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	repo, err := NewSQLite(&SQLiteConfig{
		Path: filepath.Join(s.T().TempDir(), "progress.db"),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
	s.testNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.UpsertPerks(s.ctx, &UpsertPerksInput{Perks: []*models.Perk{
		{ID: "fifty_fifty", Name: "Fifty-Fifty", Category: models.PerkCategoryInfo, Tier: 1,
			EffectType: "eliminate", EffectConfig: json.RawMessage(`{"count":1,"uses":3}`)},
		{ID: "extra_time", Name: "Extra Time", Category: models.PerkCategoryTime, Tier: 1,
			EffectType: "bonus_time", EffectConfig: json.RawMessage(`{"seconds":3}`)},
		{ID: "point_boost", Name: "Point Boost", Category: models.PerkCategoryScoring, Tier: 1,
			EffectType: "base_score_multiplier", EffectConfig: json.RawMessage(`{"multiplier":1.1}`)},
	}}))
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.repo.Close()
}

func TestSQLiteRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) draft(userID string, level int, offered ...string) *models.UserPerkDraft {
	return &models.UserPerkDraft{
		ID:             userID + "-draft-" + string(rune('0'+level)),
		UserID:         userID,
		Level:          level,
		OfferedPerkIDs: offered,
		DraftedAt:      s.testNow,
	}
}

func (s *SQLiteRepositoryTestSuite) TestMigrationsAreIdempotent() {
	path := filepath.Join(s.T().TempDir(), "twice.db")
	first, err := NewSQLite(&SQLiteConfig{Path: path})
	s.Require().NoError(err)
	s.Require().NoError(first.Close())

	second, err := NewSQLite(&SQLiteConfig{Path: path})
	s.Require().NoError(err)
	s.Require().NoError(second.Close())
}

func (s *SQLiteRepositoryTestSuite) TestListAndUpsertPerks() {
	out, err := s.repo.ListPerks(s.ctx, &ListPerksInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Perks, 3)
	s.Equal("extra_time", out.Perks[0].ID)
	s.Equal(models.PerkCategoryTime, out.Perks[0].Category)
	s.JSONEq(`{"seconds":3}`, string(out.Perks[0].EffectConfig))

	s.Require().NoError(s.repo.UpsertPerks(s.ctx, &UpsertPerksInput{Perks: []*models.Perk{
		{ID: "extra_time", Name: "More Time", Category: models.PerkCategoryTime, Tier: 1,
			EffectType: "bonus_time", EffectConfig: json.RawMessage(`{"seconds":4}`)},
	}}))

	out, err = s.repo.ListPerks(s.ctx, &ListPerksInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Perks, 3)
	s.Equal("More Time", out.Perks[0].Name)
	s.JSONEq(`{"seconds":4}`, string(out.Perks[0].EffectConfig))
}

func (s *SQLiteRepositoryTestSuite) TestInsertDraftIsUniquePerLevel() {
	s.Require().NoError(s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{
		Draft: s.draft("u1", 2, "fifty_fifty", "extra_time", "point_boost"),
	}))

	dup := s.draft("u1", 2, "extra_time")
	dup.ID = "other-id"
	err := s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{Draft: dup})
	s.ErrorIs(err, ErrAlreadyExists)

	stored, err := s.repo.GetUserPerkDraft(s.ctx, &GetUserPerkDraftInput{UserID: "u1", Level: 2})
	s.Require().NoError(err)
	s.Equal([]string{"fifty_fifty", "extra_time", "point_boost"}, stored.OfferedPerkIDs)
	s.Nil(stored.ChosenPerkID)
	s.False(stored.Dumped)
	s.Nil(stored.ResolvedAt)
	s.True(s.testNow.Equal(stored.DraftedAt))
}

func (s *SQLiteRepositoryTestSuite) TestConcurrentInsertLeavesOneRow() {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		starts = make(chan struct{})
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-starts
			d := s.draft("u1", 3, "fifty_fifty")
			d.ID = d.ID + "-" + string(rune('a'+i))
			err := s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{Draft: d})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(i)
	}
	close(starts)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, ErrAlreadyExists)
	}
	s.Equal(1, succeeded)
}

func (s *SQLiteRepositoryTestSuite) TestGetDraftNotFound() {
	_, err := s.repo.GetUserPerkDraft(s.ctx, &GetUserPerkDraftInput{UserID: "u1", Level: 2})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetPendingDraft(s.ctx, &GetPendingDraftInput{UserID: "u1"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *SQLiteRepositoryTestSuite) TestResolveDraftGrantsPerk() {
	s.Require().NoError(s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{
		Draft: s.draft("u1", 2, "fifty_fifty", "extra_time"),
	}))

	perkID := "fifty_fifty"
	resolvedAt := s.testNow.Add(time.Minute)
	d, err := s.repo.ResolveUserPerkDraft(s.ctx, &ResolveUserPerkDraftInput{
		UserID:     "u1",
		Level:      2,
		PerkID:     &perkID,
		ResolvedAt: resolvedAt,
	})
	s.Require().NoError(err)
	s.Require().NotNil(d.ChosenPerkID)
	s.Equal("fifty_fifty", *d.ChosenPerkID)
	s.False(d.Dumped)
	s.Require().NotNil(d.ResolvedAt)
	s.True(resolvedAt.Equal(*d.ResolvedAt))

	owned, err := s.repo.GetPlayerPerks(s.ctx, &GetPlayerPerksInput{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal([]string{"fifty_fifty"}, owned.PerkIDs)

	// second resolution is rejected and grants nothing
	other := "extra_time"
	_, err = s.repo.ResolveUserPerkDraft(s.ctx, &ResolveUserPerkDraftInput{
		UserID:     "u1",
		Level:      2,
		PerkID:     &other,
		ResolvedAt: resolvedAt,
	})
	s.ErrorIs(err, ErrAlreadyResolved)

	owned, err = s.repo.GetPlayerPerks(s.ctx, &GetPlayerPerksInput{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal([]string{"fifty_fifty"}, owned.PerkIDs)
}

func (s *SQLiteRepositoryTestSuite) TestDumpDraft() {
	s.Require().NoError(s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{
		Draft: s.draft("u1", 2, "fifty_fifty"),
	}))

	d, err := s.repo.ResolveUserPerkDraft(s.ctx, &ResolveUserPerkDraftInput{
		UserID:     "u1",
		Level:      2,
		ResolvedAt: s.testNow,
	})
	s.Require().NoError(err)
	s.True(d.Dumped)
	s.Nil(d.ChosenPerkID)

	owned, err := s.repo.GetPlayerPerks(s.ctx, &GetPlayerPerksInput{UserID: "u1"})
	s.Require().NoError(err)
	s.Empty(owned.PerkIDs)
}

func (s *SQLiteRepositoryTestSuite) TestResolveMissingDraft() {
	_, err := s.repo.ResolveUserPerkDraft(s.ctx, &ResolveUserPerkDraftInput{
		UserID:     "u1",
		Level:      7,
		ResolvedAt: s.testNow,
	})
	s.ErrorIs(err, ErrNotFound)
}

func (s *SQLiteRepositoryTestSuite) TestPendingDraftIsLowestUnresolved() {
	for _, level := range []int{4, 2, 3} {
		s.Require().NoError(s.repo.InsertUserPerkDraft(s.ctx, &InsertUserPerkDraftInput{
			Draft: s.draft("u1", level, "fifty_fifty"),
		}))
	}

	pending, err := s.repo.GetPendingDraft(s.ctx, &GetPendingDraftInput{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal(2, pending.Level)

	_, err = s.repo.ResolveUserPerkDraft(s.ctx, &ResolveUserPerkDraftInput{UserID: "u1", Level: 2, ResolvedAt: s.testNow})
	s.Require().NoError(err)

	pending, err = s.repo.GetPendingDraft(s.ctx, &GetPendingDraftInput{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal(3, pending.Level)
}

func (s *SQLiteRepositoryTestSuite) TestInsertPlayerResultsSkipsExisting() {
	result := &models.PlayerResult{
		ID:             "r1",
		SessionID:      "session-1",
		UserID:         "u1",
		FinalScore:     2700,
		CorrectAnswers: 3,
		TotalQuestions: 3,
		MaxMultiplier:  2,
		CompletionTime: 42 * time.Second,
		XPEarned:       285,
		Answers: []models.AnswerDetail{
			{QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true, TimeElapsed: 4 * time.Second, PointsEarned: 900, MultiplierUsed: 1},
		},
		CreatedAt: s.testNow,
	}

	s.Require().NoError(s.repo.InsertPlayerResults(s.ctx, &InsertPlayerResultsInput{Results: []*models.PlayerResult{result}}))
	s.Require().NoError(s.repo.InsertPlayerResults(s.ctx, &InsertPlayerResultsInput{Results: []*models.PlayerResult{result}}))

	var (
		count   int
		details string
	)
	s.Require().NoError(s.repo.db.QueryRow(`SELECT COUNT(*), MAX(answer_details) FROM player_results`).Scan(&count, &details))
	s.Equal(1, count)

	var answers []models.AnswerDetail
	s.Require().NoError(json.Unmarshal([]byte(details), &answers))
	s.Equal(result.Answers, answers)
}

func (s *SQLiteRepositoryTestSuite) TestAddExperience() {
	out, err := s.repo.AddExperience(s.ctx, &AddExperienceInput{UserID: "u1", XP: 300})
	s.Require().NoError(err)
	s.Equal(int64(0), out.Before)
	s.Equal(int64(300), out.After)

	out, err = s.repo.AddExperience(s.ctx, &AddExperienceInput{UserID: "u1", XP: 250})
	s.Require().NoError(err)
	s.Equal(int64(300), out.Before)
	s.Equal(int64(550), out.After)
}
