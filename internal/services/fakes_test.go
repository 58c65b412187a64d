// Файл: internal/services/fakes_test.go
// In-memory заглушки репозиториев для тестов сервисного слоя.
// Поведение повторяет контракт Postgres-реализаций: ErrNotFound на
// отсутствующих записях, ErrAlreadyAssigned на дубле (task_id, user_id).
package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

func newTestBus() *eventbus.Bus {
	return eventbus.New(zap.NewNop())
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("неверная дата в тесте: %v", err)
	}
	return parsed
}

// --- задачи ---

type fakeTaskRepo struct {
	tasks  map[uint64]*entities.Task
	labels map[uint64][]entities.Label
	nextID uint64
}

var _ repositories.TaskRepositoryInterface = (*fakeTaskRepo)(nil)

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:  make(map[uint64]*entities.Task),
		labels: make(map[uint64][]entities.Label),
	}
}

func (r *fakeTaskRepo) add(task entities.Task) *entities.Task {
	r.nextID++
	task.ID = r.nextID
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = &task
	return &task
}

func (r *fakeTaskRepo) GetTasks(_ context.Context, _ types.Filter, _ repositories.TaskVisibilityScope) ([]entities.Task, uint64, error) {
	result := make([]entities.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		result = append(result, *t)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeTaskRepo) FindTask(_ context.Context, id uint64) (*entities.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, task entities.Task) (*entities.Task, error) {
	return r.add(task), nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, id uint64, payload dto.UpdateTaskDTO) (*entities.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.Title != nil {
		t.Title = *payload.Title
	}
	if payload.Description != nil {
		t.Description = null.StringFrom(*payload.Description)
	}
	if payload.StartTime != nil {
		t.StartTime = null.TimeFrom(*payload.StartTime)
	}
	if payload.EndTime != nil {
		t.EndTime = null.TimeFrom(*payload.EndTime)
	}
	if payload.Priority != nil {
		t.Priority = *payload.Priority
	}
	if payload.Capacity != nil {
		t.Capacity = *payload.Capacity
	}
	if payload.AutoWeight {
		t.Weight = null.Int{}
	} else if payload.Weight != nil {
		t.Weight = null.IntFrom(*payload.Weight)
	}
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) UpdateTaskStatus(_ context.Context, id uint64, status string) error {
	t, ok := r.tasks[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, id uint64) error {
	if _, ok := r.tasks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) GetSiblings(_ context.Context, projectID uint64, excludeID uint64) ([]entities.Task, error) {
	result := make([]entities.Task, 0)
	for _, t := range r.tasks {
		if t.ProjectID == nil || *t.ProjectID != projectID || t.ID == excludeID {
			continue
		}
		result = append(result, *t)
	}
	// Хранилище отдаёт задачи по возрастанию ID.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeTaskRepo) GetStats(_ context.Context, _ repositories.TaskVisibilityScope, _ time.Time) (*dto.TaskStatsDTO, error) {
	stats := &dto.TaskStatsDTO{}
	for _, t := range r.tasks {
		stats.Total++
		switch t.Status {
		case constants.TaskStatusTodo:
			stats.Todo++
		case constants.TaskStatusInProgress:
			stats.InProgress++
		case constants.TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (r *fakeTaskRepo) SetLabels(_ context.Context, taskID uint64, labelIDs []uint64) error {
	labels := make([]entities.Label, 0, len(labelIDs))
	for _, id := range labelIDs {
		labels = append(labels, entities.Label{ID: id})
	}
	r.labels[taskID] = labels
	return nil
}

func (r *fakeTaskRepo) GetLabels(_ context.Context, taskID uint64) ([]entities.Label, error) {
	return r.labels[taskID], nil
}

// --- назначения ---

type fakeAssignmentRepo struct {
	items  []*entities.TaskAssignment
	nextID uint64
}

var _ repositories.AssignmentRepositoryInterface = (*fakeAssignmentRepo)(nil)

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{}
}

func (r *fakeAssignmentRepo) find(id uint64) *entities.TaskAssignment {
	for _, a := range r.items {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) GetByTask(_ context.Context, taskID uint64) ([]entities.TaskAssignment, error) {
	result := make([]entities.TaskAssignment, 0)
	for _, a := range r.items {
		if a.TaskID == taskID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) GetByTaskIDs(_ context.Context, taskIDs []uint64) (map[uint64][]entities.TaskAssignment, error) {
	result := make(map[uint64][]entities.TaskAssignment)
	for _, id := range taskIDs {
		for _, a := range r.items {
			if a.TaskID == id {
				result[id] = append(result[id], *a)
			}
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) FindByTaskAndUser(_ context.Context, taskID, userID uint64) (*entities.TaskAssignment, error) {
	for _, a := range r.items {
		if a.TaskID == taskID && a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAssignmentRepo) CountActive(_ context.Context, taskID uint64) (int, error) {
	count := 0
	for _, a := range r.items {
		if a.TaskID != taskID {
			continue
		}
		if a.Status == constants.AssignmentStatusAccepted || a.Status == constants.AssignmentStatusCompleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment entities.TaskAssignment) (*entities.TaskAssignment, error) {
	for _, a := range r.items {
		if a.TaskID == assignment.TaskID && a.UserID == assignment.UserID {
			return nil, apperrors.ErrAlreadyAssigned
		}
	}
	r.nextID++
	assignment.ID = r.nextID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	r.items = append(r.items, &assignment)
	copied := assignment
	return &copied, nil
}

func (r *fakeAssignmentRepo) UpdateStatus(_ context.Context, id uint64, status string) error {
	a := r.find(id)
	if a == nil {
		return apperrors.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAssignmentRepo) UpdateProgress(_ context.Context, id uint64, progress int, status string) error {
	a := r.find(id)
	if a == nil {
		return apperrors.ErrNotFound
	}
	a.Progress = progress
	a.Status = status
	return nil
}

func (r *fakeAssignmentRepo) Reject(_ context.Context, id uint64, reason *string) error {
	a := r.find(id)
	if a == nil {
		return apperrors.ErrNotFound
	}
	a.Status = constants.AssignmentStatusRejected
	a.RejectReason = null.StringFromPtr(reason)
	return nil
}

func (r *fakeAssignmentRepo) GetRejected(_ context.Context, taskID uint64, userID *uint64) ([]entities.TaskAssignment, error) {
	result := make([]entities.TaskAssignment, 0)
	for _, a := range r.items {
		if a.TaskID != taskID || a.Status != constants.AssignmentStatusRejected {
			continue
		}
		if userID != nil && a.UserID != *userID {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id uint64) error {
	for i, a := range r.items {
		if a.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeAssignmentRepo) GetUserIDsByTask(_ context.Context, taskID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	for _, a := range r.items {
		if a.TaskID == taskID {
			ids = append(ids, a.UserID)
		}
	}
	return ids, nil
}

// --- пользователи ---

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

var _ repositories.UserRepositoryInterface = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint64]*entities.User)}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	result := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(_ context.Context, entity *entities.User) (*entities.User, error) {
	entity.ID = uint64(len(r.users) + 1)
	r.users[entity.ID] = entity
	copied := *entity
	return &copied, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id uint64, _ dto.UpdateUserDTO) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ uint64, _ string) error { return nil }

func (r *fakeUserRepo) RegisterLoginFailure(_ context.Context, userID uint64, lockThreshold int) (int, bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, false, apperrors.ErrNotFound
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= lockThreshold {
		u.IsLocked = true
	}
	return u.FailedLoginAttempts, u.IsLocked, nil
}

func (r *fakeUserRepo) ResetLoginFailures(_ context.Context, userID uint64) error {
	if u, ok := r.users[userID]; ok {
		u.FailedLoginAttempts = 0
	}
	return nil
}

func (r *fakeUserRepo) SetLocked(_ context.Context, userID uint64, locked bool) error {
	if u, ok := r.users[userID]; ok {
		u.IsLocked = locked
	}
	return nil
}

func (r *fakeUserRepo) FindManagersByDepartment(_ context.Context, departmentID uint64) ([]entities.User, error) {
	result := make([]entities.User, 0)
	for _, u := range r.users {
		if u.Role == constants.RoleManager && u.DepartmentID != nil && *u.DepartmentID == departmentID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) FindUsersByIDs(_ context.Context, ids []uint64) ([]entities.User, error) {
	result := make([]entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// --- события ---

type fakeEventRepo struct {
	events   map[uint64]*entities.Event
	trips    map[uint64][]entities.Event
	tripsErr error
	nextID   uint64
}

var _ repositories.EventRepositoryInterface = (*fakeEventRepo)(nil)

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[uint64]*entities.Event),
		trips:  make(map[uint64][]entities.Event),
	}
}

func (r *fakeEventRepo) add(event entities.Event) *entities.Event {
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = &event
	return &event
}

func (r *fakeEventRepo) GetEvents(_ context.Context, _ types.Filter, _ repositories.EventVisibilityScope) ([]entities.Event, uint64, error) {
	result := make([]entities.Event, 0, len(r.events))
	for _, e := range r.events {
		result = append(result, *e)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeEventRepo) FindEvent(_ context.Context, id uint64) (*entities.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) CreateEvent(_ context.Context, event entities.Event) (*entities.Event, error) {
	return r.add(event), nil
}

func (r *fakeEventRepo) UpdateEvent(_ context.Context, id uint64, payload dto.UpdateEventDTO) (*entities.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.Title != nil {
		e.Title = *payload.Title
	}
	if payload.Description != nil {
		e.Description = null.StringFrom(*payload.Description)
	}
	if payload.StartTime != nil {
		e.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		e.EndTime = *payload.EndTime
	}
	if payload.RoomID != nil {
		e.RoomID = payload.RoomID
	}
	if payload.IsGlobal != nil {
		e.IsGlobal = *payload.IsGlobal
	}
	if payload.Repeat != nil {
		e.Repeat = null.StringFrom(*payload.Repeat)
	}
	e.UpdatedAt = time.Now()
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) UpdateEventStatus(_ context.Context, id uint64, status string) error {
	e, ok := r.events[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeEventRepo) DeleteEvent(_ context.Context, id uint64) error {
	if _, ok := r.events[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FindRoomConflict(_ context.Context, roomID uint64, start, end time.Time, excludeID uint64) (*entities.Event, error) {
	for _, e := range r.events {
		if e.ID == excludeID || e.RoomID == nil || *e.RoomID != roomID {
			continue
		}
		if e.Status != constants.EventStatusPending && e.Status != constants.EventStatusApproved {
			continue
		}
		if start.Before(e.EndTime) && e.StartTime.Before(end) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEventRepo) FindApprovedTrips(_ context.Context, userID uint64, start, end time.Time) ([]entities.Event, error) {
	if r.tripsErr != nil {
		return nil, r.tripsErr
	}
	result := make([]entities.Event, 0)
	for _, trip := range r.trips[userID] {
		// Границы включительно, точную проверку делает вызывающая сторона.
		if !trip.EndTime.Before(start) && !trip.StartTime.After(end) {
			result = append(result, trip)
		}
	}
	return result, nil
}

func (r *fakeEventRepo) FindEventsInWindow(_ context.Context, from, to time.Time, statuses []string) ([]entities.Event, error) {
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	result := make([]entities.Event, 0)
	for _, e := range r.events {
		if len(allowed) > 0 && !allowed[e.Status] {
			continue
		}
		if !e.StartTime.Before(from) && e.StartTime.Before(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

// --- участники событий ---

type fakeParticipantRepo struct {
	items  []*entities.Participant
	nextID uint64
}

var _ repositories.ParticipantRepositoryInterface = (*fakeParticipantRepo)(nil)

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{}
}

func (r *fakeParticipantRepo) GetByEvent(_ context.Context, eventID uint64) ([]entities.Participant, error) {
	result := make([]entities.Participant, 0)
	for _, p := range r.items {
		if p.EventID == eventID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeParticipantRepo) FindByEventAndUser(_ context.Context, eventID, userID uint64) (*entities.Participant, error) {
	for _, p := range r.items {
		if p.EventID == eventID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) AddParticipants(_ context.Context, eventID uint64, userIDs []uint64) error {
	for _, userID := range userIDs {
		exists := false
		for _, p := range r.items {
			if p.EventID == eventID && p.UserID == userID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.nextID++
		r.items = append(r.items, &entities.Participant{
			ID:      r.nextID,
			EventID: eventID,
			UserID:  userID,
			Status:  constants.ParticipantStatusPending,
		})
	}
	return nil
}

func (r *fakeParticipantRepo) UpdateStatus(_ context.Context, eventID, userID uint64, status string) error {
	for _, p := range r.items {
		if p.EventID == eventID && p.UserID == userID {
			p.Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) UpdateAdjustmentNote(_ context.Context, eventID, userID uint64, note string) error {
	for _, p := range r.items {
		if p.EventID == eventID && p.UserID == userID {
			p.AdjustmentNote = null.StringFrom(note)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) Remove(_ context.Context, eventID, userID uint64) error {
	for i, p := range r.items {
		if p.EventID == eventID && p.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) GetUserIDsByEvent(_ context.Context, eventID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	for _, p := range r.items {
		if p.EventID == eventID {
			ids = append(ids, p.UserID)
		}
	}
	return ids, nil
}

// --- комментарии ---

type fakeCommentRepo struct {
	items  []*entities.TaskComment
	nextID uint64
}

var _ repositories.CommentRepositoryInterface = (*fakeCommentRepo)(nil)

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) GetByTask(_ context.Context, taskID uint64) ([]entities.TaskComment, error) {
	result := make([]entities.TaskComment, 0)
	for _, c := range r.items {
		if c.TaskID == taskID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment entities.TaskComment) (*entities.TaskComment, error) {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.items = append(r.items, &comment)
	copied := comment
	return &copied, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id uint64) error {
	for i, c := range r.items {
		if c.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeCommentRepo) FindComment(_ context.Context, id uint64) (*entities.TaskComment, error) {
	for _, c := range r.items {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- проверка командировок ---

type fakeTripService struct {
	results map[uint64]dto.ConflictResultDTO
}

var _ BusinessTripServiceInterface = (*fakeTripService)(nil)

func newFakeTripService() *fakeTripService {
	return &fakeTripService{results: make(map[uint64]dto.ConflictResultDTO)}
}

func (s *fakeTripService) setConflict(userID uint64, message string) {
	s.results[userID] = dto.ConflictResultDTO{UserID: userID, HasConflict: true, Message: &message}
}

func (s *fakeTripService) CheckConflict(_ context.Context, userID uint64, _ time.Time, _ *time.Time) dto.ConflictResultDTO {
	if result, ok := s.results[userID]; ok {
		return result
	}
	return dto.ConflictResultDTO{UserID: userID}
}

func (s *fakeTripService) CheckConflictBatch(ctx context.Context, userIDs []uint64, start time.Time, end *time.Time) []dto.ConflictResultDTO {
	results := make([]dto.ConflictResultDTO, len(userIDs))
	for i, userID := range userIDs {
		results[i] = s.CheckConflict(ctx, userID, start, end)
	}
	return results
}
