// Файл: internal/services/broadcaster.go
package services

import (
	"github.com/wwwwwwmw/DA-BE/pkg/websocket"
)

// BroadcasterInterface — канал доставки событий в реальном времени.
// Внедряется зависимостью, чтобы в тестах подставлять no-op реализацию.
type BroadcasterInterface interface {
	EmitResourceChanged(resource, action string, id uint64)
	PushToUser(userID uint64, payload interface{}, messageType string)
}

type hubBroadcaster struct {
	hub *websocket.Hub
}

func NewHubBroadcaster(hub *websocket.Hub) BroadcasterInterface {
	return &hubBroadcaster{hub: hub}
}

func (b *hubBroadcaster) EmitResourceChanged(resource, action string, id uint64) {
	b.hub.Broadcast(websocket.ResourceChangedPayload{
		Resource: resource,
		Action:   action,
		ID:       id,
	}, "resource_changed")
}

func (b *hubBroadcaster) PushToUser(userID uint64, payload interface{}, messageType string) {
	b.hub.SendMessageToUser(userID, payload, messageType)
}

// NopBroadcaster — заглушка для тестов и фоновых задач без websocket.
type NopBroadcaster struct{}

func (NopBroadcaster) EmitResourceChanged(resource, action string, id uint64)            {}
func (NopBroadcaster) PushToUser(userID uint64, payload interface{}, messageType string) {}
