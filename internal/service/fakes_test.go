package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"story-wall/shared/models"

	"github.com/google/uuid"
)

// memStore is an in-memory session store with the same write-once and
// uniqueness rules as the SQL schema.
type memStore struct {
	mu      sync.Mutex
	stories map[uuid.UUID]models.Story
	turns   map[uuid.UUID]models.StoryTurn
}

func newMemStore() *memStore {
	return &memStore{stories: map[uuid.UUID]models.Story{}, turns: map[uuid.UUID]models.StoryTurn{}}
}

type memStories struct{ *memStore }
type memTurns struct{ *memStore }

func (s memStories) Create(_ context.Context, story *models.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	story.ID = uuid.New()
	story.CreatedAt = time.Now()
	story.UpdatedAt = story.CreatedAt
	s.stories[story.ID] = *story
	return nil
}

func (s memStories) GetByID(_ context.Context, id uuid.UUID) (*models.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok {
		return nil, models.ErrStoryNotFound
	}
	return &st, nil
}

func (s memStories) update(id uuid.UUID, fn func(st *models.Story) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok {
		return false, nil
	}
	if !fn(&st) {
		return false, nil
	}
	s.stories[id] = st
	return true, nil
}

func (s memStories) SetPlotImagePath(_ context.Context, id uuid.UUID, path string) (bool, error) {
	return s.update(id, func(st *models.Story) bool {
		if st.PlotImagePath != nil {
			return false
		}
		st.PlotImagePath = &path
		return true
	})
}

func (s memStories) SetPDFPath(_ context.Context, id uuid.UUID, path string) (bool, error) {
	return s.update(id, func(st *models.Story) bool {
		if st.PDFPath != nil {
			return false
		}
		st.PDFPath = &path
		return true
	})
}

func (s memStories) ClaimDispatch(_ context.Context, id uuid.UUID) (bool, error) {
	return s.update(id, func(st *models.Story) bool {
		if st.DispatchClaimed {
			return false
		}
		st.DispatchClaimed = true
		return true
	})
}

func (s memStories) ReleaseDispatch(_ context.Context, id uuid.UUID) error {
	_, err := s.update(id, func(st *models.Story) bool {
		if st.EmailSent {
			return false
		}
		st.DispatchClaimed = false
		return true
	})
	return err
}

func (s memStories) MarkEmailSent(_ context.Context, id uuid.UUID) (bool, error) {
	return s.update(id, func(st *models.Story) bool {
		if st.EmailSent {
			return false
		}
		st.EmailSent = true
		return true
	})
}

func (t memTurns) Create(_ context.Context, turn *models.StoryTurn) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.turns {
		if existing.StoryID == turn.StoryID && existing.TurnIndex == turn.TurnIndex {
			return models.ErrTurnConflict
		}
	}
	turn.ID = uuid.New()
	turn.CreatedAt = time.Now()
	turn.UpdatedAt = turn.CreatedAt
	t.turns[turn.ID] = *turn
	return nil
}

func (t memTurns) ListByStory(_ context.Context, storyID uuid.UUID) ([]models.StoryTurn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []models.StoryTurn{}
	for _, turn := range t.turns {
		if turn.StoryID == storyID {
			out = append(out, turn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TurnIndex < out[j].TurnIndex })
	return out, nil
}

func (t memTurns) GetByID(_ context.Context, id uuid.UUID) (*models.StoryTurn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	turn, ok := t.turns[id]
	if !ok {
		return nil, models.ErrTurnNotFound
	}
	return &turn, nil
}

func (t memTurns) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	turns, err := t.ListByStory(ctx, storyID)
	return len(turns), err
}

func (t memTurns) setImage(id uuid.UUID, path string, user bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	turn, ok := t.turns[id]
	if !ok {
		return false, nil
	}
	target := &turn.AIImgPath
	if user {
		target = &turn.UserImgPath
	}
	if *target != nil {
		return false, nil
	}
	*target = &path
	t.turns[id] = turn
	return true, nil
}

func (t memTurns) SetUserImage(_ context.Context, id uuid.UUID, path string) (bool, error) {
	return t.setImage(id, path, true)
}

func (t memTurns) SetAIImage(_ context.Context, id uuid.UUID, path string) (bool, error) {
	return t.setImage(id, path, false)
}

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(rel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, rel)
	return nil
}

func (r *recordingRemover) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}
