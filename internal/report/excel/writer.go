// Package excel provides Excel report generation for the resource tracker.
// It implements the report.ReportWriter interface to generate .xlsx files
// with stored device data, derived usage, and threshold alerts.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"resource-tracker/internal/model"
)

const (
	// Sheet names
	sheetOverview  = "用量概览"
	sheetInventory = "设备清单"
	sheetUsage     = "资源用量"
	sheetAlerts    = "告警汇总"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorWarningBg = "FFEB9C" // Yellow background for warning
	colorWarningFg = "9C6500" // Dark yellow text for warning
	colorDangerBg  = "FFC7CE" // Red background for danger
	colorDangerFg  = "9C0006" // Dark red text for danger
	colorHeaderBg  = "4472C4" // Blue background for header
	colorHeaderFg  = "FFFFFF" // White text for header
	colorInfoBg    = "C6EFCE" // Green background for info
	colorInfoFg    = "006100" // Dark green text for info
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to Asia/Shanghai.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel report from the snapshot.
func (w *Writer) Write(snapshot *model.Snapshot, outputPath string) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	// Create worksheets
	if err := w.createOverviewSheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create overview sheet: %w", err)
	}

	if err := w.createInventorySheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create inventory sheet: %w", err)
	}

	if err := w.createUsageSheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create usage sheet: %w", err)
	}

	if err := w.createAlertsSheet(f, snapshot); err != nil {
		return fmt.Errorf("failed to create alerts sheet: %w", err)
	}

	// Remove default Sheet1
	f.DeleteSheet(defaultSheet)

	// Set active sheet to overview
	idx, _ := f.GetSheetIndex(sheetOverview)
	f.SetActiveSheet(idx)

	// Save the file
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createOverviewSheet creates the summary worksheet.
func (w *Writer) createOverviewSheet(f *excelize.File, snapshot *model.Snapshot) error {
	// Create sheet
	idx, err := f.NewSheet(sheetOverview)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	// Create title style
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 18,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Create label style
	labelStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	// Create value style
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 12,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Set column widths
	f.SetColWidth(sheetOverview, "A", "A", 20)
	f.SetColWidth(sheetOverview, "B", "B", 30)

	// Title
	f.MergeCell(sheetOverview, "A1", "B1")
	f.SetCellValue(sheetOverview, "A1", "设备资源用量报告")
	f.SetCellStyle(sheetOverview, "A1", "B1", titleStyle)
	f.SetRowHeight(sheetOverview, 1, 30)

	// Overview data
	overviewData := []struct {
		label string
		value interface{}
	}{
		{"生成时间", snapshot.GeneratedAt.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"设备总数", len(snapshot.Entries)},
		{"告警总数", snapshot.AlertSummary.TotalAlerts},
		{"严重告警", snapshot.AlertSummary.DangerCount},
		{"警告告警", snapshot.AlertSummary.WarningCount},
		{"提示告警", snapshot.AlertSummary.InfoCount},
	}

	if snapshot.Version != "" {
		overviewData = append(overviewData, struct {
			label string
			value interface{}
		}{"工具版本", snapshot.Version})
	}

	// Write overview data
	for i, item := range overviewData {
		row := i + 3 // Start from row 3
		f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", row), item.label)
		f.SetCellValue(sheetOverview, fmt.Sprintf("B%d", row), item.value)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), valueStyle)
		f.SetRowHeight(sheetOverview, row, 22)
	}

	return nil
}

// createInventorySheet creates the device inventory worksheet.
func (w *Writer) createInventorySheet(f *excelize.File, snapshot *model.Snapshot) error {
	// Create sheet
	_, err := f.NewSheet(sheetInventory)
	if err != nil {
		return err
	}

	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	// Define headers
	headers := []string{
		"标识", "用户名", "主机名", "上报时间", "制造商", "型号", "序列号",
		"CPU", "核心数", "主频", "内存总量(GB)", "可用内存(MB)",
		"存储总量(GB)", "可用存储(GB)", "位置", "客户端IP",
	}

	// Set column widths
	colWidths := []float64{18, 15, 20, 20, 15, 20, 18, 30, 10, 12, 14, 14, 14, 14, 22, 15}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetInventory, col, col, width)
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetInventory, cell, header)
		f.SetCellStyle(sheetInventory, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheetInventory, 1, 25)

	// Freeze header row
	f.SetPanes(sheetInventory, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	// Write entry data
	for i, entry := range snapshot.Entries {
		s := entry.Summary
		if s == nil {
			continue
		}
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetInventory, "A"+rowStr, entry.IdentityKey)
		f.SetCellValue(sheetInventory, "B"+rowStr, s.Username)
		f.SetCellValue(sheetInventory, "C"+rowStr, s.ComputerName)
		f.SetCellValue(sheetInventory, "D"+rowStr, s.Timestamp)
		f.SetCellValue(sheetInventory, "E"+rowStr, s.Hardware.Manufacturer)
		f.SetCellValue(sheetInventory, "F"+rowStr, s.Hardware.Model)
		f.SetCellValue(sheetInventory, "G"+rowStr, s.Hardware.Serial)
		f.SetCellValue(sheetInventory, "H"+rowStr, s.CPU.Name)
		f.SetCellValue(sheetInventory, "I"+rowStr, s.CPU.Cores.String())
		f.SetCellValue(sheetInventory, "J"+rowStr, s.CPU.MaxClockSpeed)
		f.SetCellValue(sheetInventory, "K"+rowStr, s.Memory.TotalRAMGB.String())
		f.SetCellValue(sheetInventory, "L"+rowStr, s.Memory.AvailableRAMMB.String())
		f.SetCellValue(sheetInventory, "M"+rowStr, s.Storage.TotalGB.String())
		f.SetCellValue(sheetInventory, "N"+rowStr, s.Storage.AvailableGB.String())
		f.SetCellValue(sheetInventory, "O"+rowStr, s.Location.GPS)
		f.SetCellValue(sheetInventory, "P"+rowStr, s.ClientIP)
	}

	return nil
}

// createUsageSheet creates the derived usage worksheet.
func (w *Writer) createUsageSheet(f *excelize.File, snapshot *model.Snapshot) error {
	// Create sheet
	_, err := f.NewSheet(sheetUsage)
	if err != nil {
		return err
	}

	// Create styles
	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	warningStyle, err := w.createWarningStyle(f)
	if err != nil {
		return err
	}

	dangerStyle, err := w.createDangerStyle(f)
	if err != nil {
		return err
	}

	// Define headers
	headers := []string{
		"标识", "用户名", "主机名", "内存总量(GB)", "内存使用率",
		"存储总量(GB)", "存储使用率", "更新时间",
	}

	// Set column widths
	colWidths := []float64{18, 15, 20, 14, 12, 14, 12, 20}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetUsage, col, col, width)
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetUsage, cell, header)
		f.SetCellStyle(sheetUsage, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheetUsage, 1, 25)

	// Freeze header row
	f.SetPanes(sheetUsage, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	// Index alert levels by user and category so usage cells can pick up
	// the severity the alert engine assigned.
	levels := alertLevelIndex(snapshot.Alerts)

	// Write sample data
	for i, sample := range snapshot.Samples {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetUsage, "A"+rowStr, sample.IdentityKey)
		f.SetCellValue(sheetUsage, "B"+rowStr, sample.Username)
		f.SetCellValue(sheetUsage, "C"+rowStr, sample.ComputerName)
		f.SetCellValue(sheetUsage, "D"+rowStr, sample.RAMTotalGB)
		f.SetCellValue(sheetUsage, "E"+rowStr, fmt.Sprintf("%.1f%%", sample.RAMUsedPct))
		f.SetCellValue(sheetUsage, "F"+rowStr, sample.StorageTotalGB)
		f.SetCellValue(sheetUsage, "G"+rowStr, fmt.Sprintf("%.1f%%", sample.StorageUsedPct))
		if !sample.LastUpdated.IsZero() {
			f.SetCellValue(sheetUsage, "H"+rowStr, sample.LastUpdated.In(w.timezone).Format("2006-01-02 15:04:05"))
		}

		user := sample.Username
		if user == "" {
			user = sample.IdentityKey
		}
		if style := levelStyle(levels[alertKey(user, model.AlertCategoryRAM)], warningStyle, dangerStyle); style > 0 {
			f.SetCellStyle(sheetUsage, "E"+rowStr, "E"+rowStr, style)
		}
		if style := levelStyle(levels[alertKey(user, model.AlertCategoryStorage)], warningStyle, dangerStyle); style > 0 {
			f.SetCellStyle(sheetUsage, "G"+rowStr, "G"+rowStr, style)
		}
	}

	return nil
}

// createAlertsSheet creates the alerts summary worksheet.
func (w *Writer) createAlertsSheet(f *excelize.File, snapshot *model.Snapshot) error {
	// Create sheet
	_, err := f.NewSheet(sheetAlerts)
	if err != nil {
		return err
	}

	// Create styles
	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	warningStyle, err := w.createWarningStyle(f)
	if err != nil {
		return err
	}

	dangerStyle, err := w.createDangerStyle(f)
	if err != nil {
		return err
	}

	// Define headers
	headers := []string{"用户", "告警级别", "类别", "当前值", "阈值", "告警消息", "处理建议"}

	// Set column widths
	colWidths := []float64{18, 12, 10, 10, 10, 35, 45}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetAlerts, col, col, width)
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetAlerts, cell, header)
		f.SetCellStyle(sheetAlerts, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheetAlerts, 1, 25)

	// Freeze header row
	f.SetPanes(sheetAlerts, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	// Sort alerts by level (danger first) then by user
	alerts := make([]model.Alert, len(snapshot.Alerts))
	copy(alerts, snapshot.Alerts)
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Type != alerts[j].Type {
			return alertLevelPriority(alerts[i].Type) > alertLevelPriority(alerts[j].Type)
		}
		return alerts[i].User < alerts[j].User
	})

	// Write alert data
	for i, alert := range alerts {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetAlerts, "A"+rowStr, alert.User)
		f.SetCellValue(sheetAlerts, "B"+rowStr, alertLevelText(alert.Type))
		f.SetCellValue(sheetAlerts, "C"+rowStr, string(alert.Category))
		f.SetCellValue(sheetAlerts, "D"+rowStr, fmt.Sprintf("%.1f%%", alert.Value))
		f.SetCellValue(sheetAlerts, "E"+rowStr, fmt.Sprintf("%.0f%%", alert.Threshold))
		f.SetCellValue(sheetAlerts, "F"+rowStr, alert.Message)
		f.SetCellValue(sheetAlerts, "G"+rowStr, alert.Recommendation)

		// Apply style based on alert level
		var style int
		if alert.Type == model.AlertLevelDanger {
			style = dangerStyle
		} else if alert.Type == model.AlertLevelWarning {
			style = warningStyle
		}
		if style > 0 {
			f.SetCellStyle(sheetAlerts, "B"+rowStr, "B"+rowStr, style)
		}
	}

	return nil
}

// Helper functions

func (w *Writer) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (w *Writer) createWarningStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: colorWarningFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorWarningBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (w *Writer) createDangerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: colorDangerFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorDangerBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// alertKey builds the lookup key for alertLevelIndex.
func alertKey(user string, category model.AlertCategory) string {
	return user + "\x00" + string(category)
}

// alertLevelIndex maps user+category to the alert level assigned by the engine.
func alertLevelIndex(alerts []model.Alert) map[string]model.AlertLevel {
	index := make(map[string]model.AlertLevel, len(alerts))
	for _, a := range alerts {
		index[alertKey(a.User, a.Category)] = a.Type
	}
	return index
}

// levelStyle maps an alert level to the cell style to apply. Info-level
// alerts keep the default cell style to avoid visual clutter.
func levelStyle(level model.AlertLevel, warningStyle, dangerStyle int) int {
	switch level {
	case model.AlertLevelDanger:
		return dangerStyle
	case model.AlertLevelWarning:
		return warningStyle
	default:
		return 0
	}
}

// columnName converts a 1-based column index to Excel column name (A, B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

// alertLevelText converts alert level to Chinese text.
func alertLevelText(level model.AlertLevel) string {
	switch level {
	case model.AlertLevelDanger:
		return "严重"
	case model.AlertLevelWarning:
		return "警告"
	case model.AlertLevelInfo:
		return "提示"
	default:
		return "未知"
	}
}

// alertLevelPriority returns a numeric priority for sorting (higher = more severe).
func alertLevelPriority(level model.AlertLevel) int {
	switch level {
	case model.AlertLevelDanger:
		return 2
	case model.AlertLevelWarning:
		return 1
	default:
		return 0
	}
}
