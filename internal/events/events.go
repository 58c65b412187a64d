// Файл: internal/events/events.go
package events

// ResourceChangedEvent — сигнал об изменении ресурса для рассылки
// в реальном времени (websocket).
type ResourceChangedEvent struct {
	Resource string
	Action   string
	ID       uint64
}

func (e ResourceChangedEvent) Name() string {
	return "resource.changed"
}

// NotifyRequestedEvent — запрос на доставку уведомления списку
// пользователей. Доставка "выстрелил и забыл": сбой доставки не влияет
// на операцию, породившую событие.
type NotifyRequestedEvent struct {
	UserIDs []uint64
	Title   string
	Message string
	RefType string
	RefID   uint64
}

func (e NotifyRequestedEvent) Name() string {
	return "notify.requested"
}
