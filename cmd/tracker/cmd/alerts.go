// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resource-tracker/internal/model"
	"resource-tracker/internal/notify"
)

// Command flags
var (
	alertsRulesPath string // Path to alert rules file
	alertsPublish   bool   // Publish alerts to the message queue
)

// alertsCmd represents the alerts command.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "评估并输出资源告警",
	Long: `读取当前存储的数据，计算内存/存储使用率并按阈值评估告警。
配合 --publish 可将告警批量推送到消息队列，供外部系统消费。

示例:
  # 输出当前告警
  tracker alerts -c config.yaml

  # 使用自定义阈值
  tracker alerts -c config.yaml --rules configs/alert-rules.yaml

  # 推送告警到消息队列（需要 notify.enabled: true）
  tracker alerts -c config.yaml --publish`,
	Run: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.Flags().StringVar(&alertsRulesPath, "rules", "", "告警阈值文件路径（默认使用内置阈值）")
	alertsCmd.Flags().BoolVar(&alertsPublish, "publish", false, "推送告警到消息队列")
}

// runAlerts evaluates current usage and prints (optionally publishes) alerts.
func runAlerts(cmd *cobra.Command, args []string) {
	cfg, logger := loadRuntime()

	st, _, _, err := openPipeline(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open data pipeline")
		fmt.Fprintf(os.Stderr, "❌ 初始化数据目录失败: %v\n", err)
		os.Exit(1)
	}

	agg, engine, err := buildAnalytics(alertsRulesPath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build analytics")
		fmt.Fprintf(os.Stderr, "❌ 加载告警阈值失败: %v\n", err)
		os.Exit(1)
	}

	samples := agg.Samples(st.GetAll())
	alerts := engine.Evaluate(samples)
	summary := model.NewAlertSummary(alerts)

	if len(alerts) == 0 {
		fmt.Println("✅ 无告警，所有设备资源用量正常")
		return
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, a := range alerts {
		fmt.Printf("%s [%s/%s] %s\n", alertIcon(a.Type), a.Category, a.User, a.Message)
		fmt.Printf("   建议: %s\n", a.Recommendation)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("   告警总数: %d\n", summary.TotalAlerts)
	fmt.Printf("   严重级别: %d\n", summary.DangerCount)
	fmt.Printf("   警告级别: %d\n", summary.WarningCount)
	fmt.Printf("   提示级别: %d\n", summary.InfoCount)

	if !alertsPublish {
		return
	}

	if !cfg.Notify.Enabled {
		fmt.Fprintf(os.Stderr, "❌ 告警推送未启用，请在配置文件中设置 notify.enabled: true\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publisher := notify.NewPublisher(cfg.Notify.URL, cfg.Notify.Queue, logger)
	defer publisher.Close()

	if err := publisher.Connect(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to connect to broker")
		fmt.Fprintf(os.Stderr, "❌ 连接消息队列失败: %v\n", err)
		os.Exit(1)
	}

	if err := publisher.PublishAlerts(ctx, alerts); err != nil {
		logger.Error().Err(err).Msg("failed to publish alerts")
		fmt.Fprintf(os.Stderr, "❌ 推送告警失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📤 已推送 %d 条告警到队列 %s\n", len(alerts), cfg.Notify.Queue)
}

// alertIcon maps an alert level to its console marker.
func alertIcon(level model.AlertLevel) string {
	switch level {
	case model.AlertLevelDanger:
		return "🔴"
	case model.AlertLevelWarning:
		return "🟡"
	default:
		return "🔵"
	}
}
