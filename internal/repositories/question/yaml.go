package question

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/KirkDiggler/quizdraft/internal/models"
	"github.com/KirkDiggler/quizdraft/internal/random"
	"gopkg.in/yaml.v3"
)

type fileSet struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	Questions []*models.Question `yaml:"questions"`
}

type file struct {
	Sets []fileSet `yaml:"sets"`
}

// Config holds configuration for the YAML question repository
type Config struct {
	// Path is the YAML file with the question sets
	Path string

	// Reader is used instead of Path when set
	Reader io.Reader

	// Random picks and orders the questions of a session
	Random random.Source
}

// yamlRepository serves question sets loaded once from YAML
type yamlRepository struct {
	sets   map[string]fileSet
	random random.Source
}

// NewYAML loads and validates the question sets
func NewYAML(cfg *Config) (*yamlRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Random == nil {
		return nil, errors.New("random source cannot be nil")
	}

	r := cfg.Reader
	if r == nil {
		if cfg.Path == "" {
			return nil, errors.New("path or reader is required")
		}
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open question file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode question file: %w", err)
	}

	repo := &yamlRepository{
		sets:   make(map[string]fileSet, len(doc.Sets)),
		random: cfg.Random,
	}
	for _, set := range doc.Sets {
		if set.ID == "" {
			return nil, errors.New("question set without id")
		}
		if _, dup := repo.sets[set.ID]; dup {
			return nil, fmt.Errorf("duplicate question set %q", set.ID)
		}
		seen := make(map[string]bool, len(set.Questions))
		for i, q := range set.Questions {
			if err := validate(q); err != nil {
				return nil, fmt.Errorf("set %q question %d: %w", set.ID, i, err)
			}
			if seen[q.ID] {
				return nil, fmt.Errorf("set %q: duplicate question %q", set.ID, q.ID)
			}
			seen[q.ID] = true
		}
		repo.sets[set.ID] = set
	}

	return repo, nil
}

func validate(q *models.Question) error {
	switch {
	case q == nil:
		return errors.New("empty question")
	case q.ID == "":
		return errors.New("missing id")
	case q.Text == "":
		return errors.New("missing text")
	case len(q.Options) < 2:
		return errors.New("needs at least two options")
	case q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options):
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// GetQuestions draws Count distinct questions in random order
func (r *yamlRepository) GetQuestions(ctx context.Context, input *GetQuestionsInput) (*GetQuestionsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.Count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", input.Count)
	}

	set, ok := r.sets[input.QuestionSetID]
	if !ok {
		return nil, ErrSetNotFound
	}
	if len(set.Questions) < input.Count {
		return nil, fmt.Errorf("%w: set %q has %d, need %d",
			ErrNotEnoughQuestions, set.ID, len(set.Questions), input.Count)
	}

	picked := random.Sample(r.random, set.Questions, input.Count)
	out := make([]*models.Question, len(picked))
	for i, q := range picked {
		cp := *q
		cp.Options = append([]string(nil), q.Options...)
		out[i] = &cp
	}

	return &GetQuestionsOutput{Questions: out}, nil
}

// ListSets returns the loaded sets in id order
func (r *yamlRepository) ListSets(ctx context.Context, input *ListSetsInput) (*ListSetsOutput, error) {
	sets := make([]SetInfo, 0, len(r.sets))
	for _, set := range r.sets {
		sets = append(sets, SetInfo{ID: set.ID, Name: set.Name, Count: len(set.Questions)})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].ID < sets[j].ID })

	return &ListSetsOutput{Sets: sets}, nil
}
