package dto

type CreateTaskCommentDTO struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type TaskCommentResponseDTO struct {
	ID        uint64       `json:"id"`
	TaskID    uint64       `json:"task_id"`
	Author    ShortUserDTO `json:"author"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at"`
}
