// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command.
var ingestCmd = &cobra.Command{
	Use:   "ingest <日志文件>...",
	Short: "从本地文件导入日志",
	Long: `绕过 HTTP 接口，直接将本地日志文件送入解析与存储管道。
适用于批量导入历史数据或在无服务端的环境下处理日志。

示例:
  # 导入单个日志文件
  tracker ingest user001.log

  # 批量导入
  tracker ingest logs/*.log`,
	Args: cobra.MinimumNArgs(1),
	Run:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// runIngest processes each file through the local ingestion pipeline.
func runIngest(cmd *cobra.Command, args []string) {
	cfg, logger := loadRuntime()

	_, _, svc, err := openPipeline(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open data pipeline")
		fmt.Fprintf(os.Stderr, "❌ 初始化数据目录失败: %v\n", err)
		os.Exit(1)
	}

	var failed int
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("failed to read log file")
			fmt.Fprintf(os.Stderr, "❌ 读取失败 %s: %v\n", path, err)
			failed++
			continue
		}

		rec, err := svc.Ingest(raw, "local")
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ 处理失败 %s: %v\n", path, err)
			failed++
			continue
		}

		fmt.Printf("✅ %s → %s\n", path, rec.IdentityKey)
	}

	fmt.Printf("完成: %d 成功, %d 失败\n", len(args)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
