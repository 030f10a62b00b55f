package service

import (
	"time"

	"story-wall/pkg/taskmanager"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ImageTasks remembers which background task illustrates which turn, so the
// poller can tell a pending turn from one whose task has already finished.
type ImageTasks struct {
	byTurn *cache.Cache
	tasks  taskmanager.ITaskManager
}

// NewImageTasks creates the registry. Entries expire after ttl.
func NewImageTasks(tasks taskmanager.ITaskManager, ttl time.Duration) *ImageTasks {
	return &ImageTasks{byTurn: cache.New(ttl, ttl/2), tasks: tasks}
}

// Track records the image task of a turn.
func (r *ImageTasks) Track(turnID, taskID uuid.UUID) {
	r.byTurn.SetDefault(turnID.String(), taskID)
}

// TaskID returns the image task of a turn, if known.
func (r *ImageTasks) TaskID(turnID uuid.UUID) (uuid.UUID, bool) {
	v, ok := r.byTurn.Get(turnID.String())
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Settled reports whether no further image write can happen for the turn.
// An unknown turn counts as settled: its task either finished and was
// forgotten, or died with a previous process.
func (r *ImageTasks) Settled(turnID uuid.UUID) bool {
	taskID, ok := r.TaskID(turnID)
	if !ok {
		return true
	}
	task, err := r.tasks.GetTask(taskID)
	if err != nil {
		return true
	}
	return task.Status.Finished()
}
