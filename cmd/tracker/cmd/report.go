// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resource-tracker/internal/config"
	"resource-tracker/internal/report"
)

// Command flags
var (
	reportOutputDir string   // Output directory for reports
	reportFormats   []string // Output formats (excel, csv)
	reportRulesPath string   // Path to alert rules file
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "生成用量报告",
	Long: `根据当前存储的数据生成用量报告，包括：
1. 设备清单与硬件信息
2. 内存/存储用量及使用率
3. 按阈值评估的资源告警

示例:
  # 使用默认配置生成 Excel 和 CSV 报告
  tracker report -c config.yaml

  # 仅生成 Excel 报告
  tracker report -c config.yaml -f excel

  # 指定输出目录
  tracker report -c config.yaml -o ./reports

  # 使用自定义告警阈值
  tracker report -c config.yaml --rules configs/alert-rules.yaml`,
	Run: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringSliceVarP(&reportFormats, "format", "f", nil, "输出格式 (excel,csv)，可用逗号分隔多个")
	reportCmd.Flags().StringVarP(&reportOutputDir, "output", "o", "", "输出目录")
	reportCmd.Flags().StringVar(&reportRulesPath, "rules", "", "告警阈值文件路径（默认使用内置阈值）")
}

// runReport executes the report generation workflow.
func runReport(cmd *cobra.Command, args []string) {
	printBanner()

	cfg, logger := loadRuntime()

	st, _, _, err := openPipeline(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open data pipeline")
		fmt.Fprintf(os.Stderr, "❌ 初始化数据目录失败: %v\n", err)
		os.Exit(1)
	}

	agg, engine, err := buildAnalytics(reportRulesPath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build analytics")
		fmt.Fprintf(os.Stderr, "❌ 加载告警阈值失败: %v\n", err)
		os.Exit(1)
	}

	// Determine output settings
	formats := resolveReportFormats(cfg)
	outputDir := resolveReportOutputDir(cfg)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Error().Err(err).Str("dir", outputDir).Msg("failed to create output directory")
		fmt.Fprintf(os.Stderr, "❌ 创建输出目录失败: %v\n", err)
		os.Exit(1)
	}

	tz := reportTimezone(cfg)
	snapshot := report.BuildSnapshot(st, agg, engine, Version)

	fmt.Printf("📊 设备总数: %d, 告警总数: %d\n", len(snapshot.Entries), snapshot.AlertSummary.TotalAlerts)

	registry := report.NewRegistry(tz)
	filename := renderFilename(cfg.Report.FilenameTemplate, tz)

	var failed int
	for _, format := range formats {
		writer, err := registry.Get(format)
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("unsupported report format")
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			failed++
			continue
		}

		outputPath := filepath.Join(outputDir, filename)
		if err := writer.Write(snapshot, outputPath); err != nil {
			logger.Error().Err(err).Str("format", format).Msg("failed to write report")
			fmt.Fprintf(os.Stderr, "❌ 生成 %s 报告失败: %v\n", format, err)
			failed++
			continue
		}

		fmt.Printf("✅ %s 报告已生成: %s\n", format, outputPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// resolveReportFormats determines the output formats to use.
// Command line flags take precedence over config file.
func resolveReportFormats(cfg *config.Config) []string {
	if len(reportFormats) > 0 {
		return reportFormats
	}
	if len(cfg.Report.Formats) > 0 {
		return cfg.Report.Formats
	}
	return []string{"excel", "csv"} // default
}

// resolveReportOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveReportOutputDir(cfg *config.Config) string {
	if reportOutputDir != "" {
		return reportOutputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports" // default
}

// renderFilename creates a filename from the template.
// Supports {{.Date}} placeholder for current date.
func renderFilename(template string, tz *time.Location) string {
	if template == "" {
		template = "usage_report_{{.Date}}"
	}

	// Get current date in the configured timezone
	now := time.Now().In(tz)
	dateStr := now.Format("2006-01-02")

	// Replace placeholders
	filename := strings.ReplaceAll(template, "{{.Date}}", dateStr)
	filename = strings.ReplaceAll(filename, "{{ .Date }}", dateStr)

	return filename
}
