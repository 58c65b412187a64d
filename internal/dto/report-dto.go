// Файл: internal/dto/report-dto.go
package dto

// TaskReportItemDTO — строка сводного отчёта по задачам.
type TaskReportItemDTO struct {
	TaskID      uint64  `json:"task_id"`
	Title       string  `json:"title"`
	ProjectName *string `json:"project_name,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Weight      *int    `json:"weight,omitempty"`
	Assignees   string  `json:"assignees"`
	Progress    int     `json:"progress"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
