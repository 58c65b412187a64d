// Файл: internal/controllers/report.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

type ReportController struct {
	reportService    services.ReportServiceInterface
	principalService services.PrincipalServiceInterface
	logger           *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, principalService services.PrincipalServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, principalService: principalService, logger: logger}
}

// GetTaskReport отдаёт сводку по задачам; format=xlsx выгружает файл.
func (c *ReportController) GetTaskReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		// Выгружаем всё без пагинации
		filter.Offset = 0
		filter.Limit = 100000
	}

	data, total, err := c.reportService.GetTaskReport(reqCtx, principal, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}
	return utils.SuccessResponse(ctx, data, "Отчёт успешно сформирован", http.StatusOK, total)
}

var taskReportHeaders = []string{
	"№", "Задача", "Проект", "Статус", "Приоритет", "Вес", "Исполнители",
	"Прогресс (%)", "Начало", "Окончание", "Создана",
}

func taskReportRow(n int, item dto.TaskReportItemDTO) []interface{} {
	timeFmt := "02.01.2006 15:04"
	formatTime := func(v *string) string {
		if v == nil {
			return ""
		}
		if t, err := time.Parse(time.RFC3339, *v); err == nil {
			return t.Format(timeFmt)
		}
		return *v
	}

	var project, weight string
	if item.ProjectName != nil {
		project = *item.ProjectName
	}
	if item.Weight != nil {
		weight = fmt.Sprintf("%d", *item.Weight)
	} else {
		weight = "авто"
	}

	createdAt := ""
	if t, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
		createdAt = t.Format(timeFmt)
	}

	return []interface{}{
		n, item.Title, project, item.Status, item.Priority, weight,
		item.Assignees, item.Progress, formatTime(item.StartTime), formatTime(item.EndTime), createdAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.TaskReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Отчёт по задачам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &taskReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := taskReportRow(i+1, item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 30)
	f.SetColWidth(sheet, "D", "F", 14)
	f.SetColWidth(sheet, "G", "G", 35)
	f.SetColWidth(sheet, "I", "K", 18)

	fileName := fmt.Sprintf("tasks_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
