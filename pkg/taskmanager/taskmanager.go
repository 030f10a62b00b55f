package taskmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTaskNotFound   = errors.New("задача не найдена")
	ErrTooManyTasks   = errors.New("превышено максимальное количество активных задач")
	ErrManagerClosing = errors.New("менеджер задач останавливается")
)

// ITaskManager определяет интерфейс для управления задачами
type ITaskManager interface {
	SubmitTask(ctx context.Context, kind string, taskFunc TaskFunc, params interface{}) (uuid.UUID, error)
	SubmitTaskWithOwner(ctx context.Context, kind string, taskFunc TaskFunc, params interface{}, ownerID string) (uuid.UUID, error)
	GetTask(taskID uuid.UUID) (Task, error)
	Wait(ctx context.Context, taskID uuid.UUID) (Task, error)
	Shutdown(ctx context.Context) error
	RegisterCallback(taskID uuid.UUID, callback TaskCallback) error
	CleanupTasks(age time.Duration) int
	SetWebSocketNotifier(notifier WebSocketNotifier)
}

// WebSocketNotifier интерфейс для отправки уведомлений через WebSocket
type WebSocketNotifier interface {
	SendToUser(userID, messageType, topic string, payload interface{})
}

// TaskStatus представляет статус задачи
type TaskStatus string

// Возможные статусы задач
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Finished сообщает, является ли статус конечным.
func (s TaskStatus) Finished() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task - снимок фоновой задачи.
type Task struct {
	ID        uuid.UUID
	Kind      string
	OwnerID   string
	Status    TaskStatus
	Message   string
	Result    interface{}
	Err       error
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskFunc представляет функцию, выполняемую в задаче
type TaskFunc func(ctx context.Context, params interface{}) (interface{}, error)

// TaskCallback вызывается, когда задача переходит в конечный статус
type TaskCallback func(task Task)

type entry struct {
	task      Task
	done      chan struct{}
	callbacks []TaskCallback
}

// Config содержит конфигурацию для TaskManager
type Config struct {
	// MaxTasks ограничивает число активных задач, ноль или меньше - без ограничений.
	MaxTasks int
}

// TaskManager выполняет фоновые задачи в горутинах. Контекст задачи сохраняет
// значения отправителя, но никогда не отменяется: завершившийся HTTP-запрос не
// прерывает запущенную им работу.
type TaskManager struct {
	mu         sync.RWMutex
	tasks      map[uuid.UUID]*entry
	maxTasks   int
	active     int
	closing    bool
	wg         sync.WaitGroup
	wsNotifier WebSocketNotifier
	logger     *zap.Logger
}

var _ ITaskManager = (*TaskManager)(nil)

// New создает новый экземпляр TaskManager
func New(cfg Config, logger *zap.Logger) *TaskManager {
	return &TaskManager{
		tasks:    make(map[uuid.UUID]*entry),
		maxTasks: cfg.MaxTasks,
		logger:   logger.Named("TaskManager"),
	}
}

// SubmitTask создает и запускает новую задачу
func (tm *TaskManager) SubmitTask(ctx context.Context, kind string, taskFunc TaskFunc, params interface{}) (uuid.UUID, error) {
	return tm.SubmitTaskWithOwner(ctx, kind, taskFunc, params, "")
}

// SubmitTaskWithOwner создает и запускает новую задачу с указанием владельца.
// По завершении владелец получает websocket-сообщение с типом kind.
func (tm *TaskManager) SubmitTaskWithOwner(ctx context.Context, kind string, taskFunc TaskFunc, params interface{}, ownerID string) (uuid.UUID, error) {
	tm.mu.Lock()
	if tm.closing {
		tm.mu.Unlock()
		return uuid.Nil, ErrManagerClosing
	}
	if tm.maxTasks > 0 && tm.active >= tm.maxTasks {
		tm.mu.Unlock()
		return uuid.Nil, ErrTooManyTasks
	}

	now := time.Now()
	e := &entry{
		task: Task{
			ID:        uuid.New(),
			Kind:      kind,
			OwnerID:   ownerID,
			Status:    TaskStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		done: make(chan struct{}),
	}
	tm.tasks[e.task.ID] = e
	tm.active++
	tm.wg.Add(1)
	tm.mu.Unlock()

	taskCtx := context.WithoutCancel(ctx)
	go func() {
		defer tm.wg.Done()
		tm.runTask(taskCtx, e, taskFunc, params)
	}()

	tm.logger.Debug("Task submitted", zap.String("taskID", e.task.ID.String()), zap.String("kind", kind))
	return e.task.ID, nil
}

func (tm *TaskManager) runTask(ctx context.Context, e *entry, taskFunc TaskFunc, params interface{}) {
	log := tm.logger.With(zap.String("taskID", e.task.ID.String()), zap.String("kind", e.task.Kind))
	tm.setStatus(e, TaskStatusRunning, "Задача запущена")

	var (
		result interface{}
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("паника в задаче: %v", r)
			}
		}()
		result, err = taskFunc(ctx, params)
	}()

	tm.mu.Lock()
	e.task.Result = result
	e.task.Err = err
	if err != nil {
		e.task.Status = TaskStatusFailed
		e.task.Message = err.Error()
	} else {
		e.task.Status = TaskStatusCompleted
		e.task.Message = "Задача успешно выполнена"
	}
	e.task.UpdatedAt = time.Now()
	tm.active--
	snapshot := e.task
	callbacks := e.callbacks
	e.callbacks = nil
	notifier := tm.wsNotifier
	close(e.done)
	tm.mu.Unlock()

	if err != nil {
		log.Error("Task failed", zap.Error(err))
	} else {
		log.Info("Task completed")
	}

	for _, cb := range callbacks {
		cb(snapshot)
	}
	if notifier != nil && snapshot.OwnerID != "" && snapshot.Status == TaskStatusCompleted {
		payload := snapshot.Result
		if payload == nil {
			payload = map[string]interface{}{
				"task_id": snapshot.ID,
				"status":  snapshot.Status,
			}
		}
		notifier.SendToUser(snapshot.OwnerID, snapshot.Kind, "tasks", payload)
	}
}

func (tm *TaskManager) setStatus(e *entry, status TaskStatus, message string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	e.task.Status = status
	e.task.Message = message
	e.task.UpdatedAt = time.Now()
}

// GetTask возвращает снимок задачи по ID
func (tm *TaskManager) GetTask(taskID uuid.UUID) (Task, error) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	e, ok := tm.tasks[taskID]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return e.task, nil
}

// Wait блокируется до завершения задачи или отмены ctx. Саму задачу не отменяет.
func (tm *TaskManager) Wait(ctx context.Context, taskID uuid.UUID) (Task, error) {
	tm.mu.RLock()
	e, ok := tm.tasks[taskID]
	tm.mu.RUnlock()
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	select {
	case <-e.done:
		return tm.GetTask(taskID)
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// RegisterCallback регистрирует функцию обратного вызова для задачи.
// Если задача уже завершена, колбэк вызывается сразу.
func (tm *TaskManager) RegisterCallback(taskID uuid.UUID, callback TaskCallback) error {
	tm.mu.Lock()
	e, ok := tm.tasks[taskID]
	if !ok {
		tm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if e.task.Status.Finished() {
		snapshot := e.task
		tm.mu.Unlock()
		callback(snapshot)
		return nil
	}
	e.callbacks = append(e.callbacks, callback)
	tm.mu.Unlock()
	return nil
}

// Shutdown перестает принимать задачи и ждет выполняющиеся, пока не отменен ctx.
func (tm *TaskManager) Shutdown(ctx context.Context) error {
	tm.mu.Lock()
	tm.closing = true
	active := tm.active
	tm.mu.Unlock()

	tm.logger.Info("Draining background tasks", zap.Int("active", active))

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("таймаут при ожидании завершения задач: %w", ctx.Err())
	}
}

// CleanupTasks удаляет завершенные задачи, которые старше указанного времени
func (tm *TaskManager) CleanupTasks(age time.Duration) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	removed := 0
	now := time.Now()
	for id, e := range tm.tasks {
		if e.task.Status.Finished() && now.Sub(e.task.UpdatedAt) > age {
			delete(tm.tasks, id)
			removed++
		}
	}
	return removed
}

// StartJanitor периодически удаляет завершенные задачи, пока не отменен ctx.
func (tm *TaskManager) StartJanitor(ctx context.Context, interval, age time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := tm.CleanupTasks(age); n > 0 {
					tm.logger.Debug("Finished tasks cleaned up", zap.Int("removed", n))
				}
			}
		}
	}()
}

// SetWebSocketNotifier устанавливает WebSocket нотификатор
func (tm *TaskManager) SetWebSocketNotifier(notifier WebSocketNotifier) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.wsNotifier = notifier
}
