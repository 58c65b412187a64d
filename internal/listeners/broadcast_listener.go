// Файл: internal/listeners/broadcast_listener.go
package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/events"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
)

// BroadcastListener транслирует изменения ресурсов всем подключённым
// клиентам, чтобы интерфейс обновлялся без перезагрузки.
type BroadcastListener struct {
	broadcaster services.BroadcasterInterface
	logger      *zap.Logger
}

func NewBroadcastListener(broadcaster services.BroadcasterInterface, logger *zap.Logger) *BroadcastListener {
	return &BroadcastListener{broadcaster: broadcaster, logger: logger}
}

func (l *BroadcastListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ResourceChangedEvent{}.Name(), l.handleResourceChanged)
}

func (l *BroadcastListener) handleResourceChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ResourceChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	l.broadcaster.EmitResourceChanged(e.Resource, e.Action, e.ID)
	return nil
}
