package websocket

import "time"

// Envelope — обёртка каждого исходящего сообщения.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ResourceChangedPayload — сигнал "ресурс изменился" для живого обновления клиентов.
type ResourceChangedPayload struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       uint64 `json:"id"`
}

// NotificationPayload — персональное уведомление пользователю.
type NotificationPayload struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	RefType   *string `json:"ref_type,omitempty"`
	RefID     *uint64 `json:"ref_id,omitempty"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}
