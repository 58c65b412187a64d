package constants

// Роли пользователей
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Статусы событий (односторонняя решётка: pending -> approved/rejected, approved -> completed)
const (
	EventStatusPending   = "pending"
	EventStatusApproved  = "approved"
	EventStatusRejected  = "rejected"
	EventStatusCompleted = "completed"
)

// Типы событий
const (
	EventTypeWork    = "work"
	EventTypeMeeting = "meeting"
)

// Статусы задач
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Приоритеты задач
const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Типы назначения задач
const (
	AssignmentTypeOpen   = "open"
	AssignmentTypeDirect = "direct"
)

// Статусы назначений
const (
	AssignmentStatusApplied   = "applied"
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusAccepted  = "accepted"
	AssignmentStatusRejected  = "rejected"
	AssignmentStatusCompleted = "completed"
)

// Статусы участия (RSVP)
const (
	ParticipantStatusPending  = "pending"
	ParticipantStatusAccepted = "accepted"
	ParticipantStatusDeclined = "declined"
)

// Максимальная длина причины отказа от задачи
const RejectReasonMaxLen = 1000
