package dto

type NotificationResponseDTO struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	RefType   *string `json:"ref_type,omitempty"`
	RefID     *uint64 `json:"ref_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}
