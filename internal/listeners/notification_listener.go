// Файл: internal/listeners/notification_listener.go
package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/events"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
)

// NotificationListener превращает запросы на уведомление из шины в
// записи в хранилище и push по веб-сокету.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notificationService: notificationService, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.NotifyRequestedEvent{}.Name(), l.handleNotifyRequested)
}

func (l *NotificationListener) handleNotifyRequested(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.NotifyRequestedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	if len(e.UserIDs) == 0 {
		return nil
	}

	l.notificationService.Notify(ctx, e.UserIDs, e.Title, e.Message, e.RefType, e.RefID)
	return nil
}
