// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resource-tracker/internal/directory"
	"resource-tracker/internal/server"
)

// Command flags
var (
	serveListen    string // Listen address override
	serveRulesPath string // Path to alert rules file
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动追踪服务",
	Long: `启动 HTTP 服务，提供日志接收和仪表盘查询接口：
  POST /admin                  接收客户端日志
  GET  /api/analytics          用量分析数据
  GET  /api/alerts             资源告警
  GET  /api/users              已追踪标识列表
  GET  /api/user/{key}         单个标识的汇总数据
  GET  /api/device/{id}/logs   按设备序列号关联日志数据
  GET  /api/directory/...      设备目录查询（只读）

示例:
  # 使用默认配置启动
  tracker serve -c config.yaml

  # 指定监听地址
  tracker serve -c config.yaml --listen :8000

  # 使用自定义告警阈值
  tracker serve -c config.yaml --rules configs/alert-rules.yaml`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "监听地址（覆盖配置文件）")
	serveCmd.Flags().StringVar(&serveRulesPath, "rules", "", "告警阈值文件路径（默认使用内置阈值）")
}

// runServe starts the HTTP server with graceful shutdown.
func runServe(cmd *cobra.Command, args []string) {
	printBanner()

	cfg, logger := loadRuntime()

	st, _, svc, err := openPipeline(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open data pipeline")
		fmt.Fprintf(os.Stderr, "❌ 初始化数据目录失败: %v\n", err)
		os.Exit(1)
	}

	agg, engine, err := buildAnalytics(serveRulesPath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build analytics")
		fmt.Fprintf(os.Stderr, "❌ 加载告警阈值失败: %v\n", err)
		os.Exit(1)
	}

	// Directory is optional; disabled or unreachable directories degrade
	// to empty dashboard sections.
	dir := directory.Disabled(logger)
	if cfg.Directory.Enabled {
		dir = directory.Open(cfg.Directory.Path, logger)
	}

	listen := cfg.Server.Listen
	if serveListen != "" {
		listen = serveListen
	}

	srv := server.New(cfg.Server, svc, st, agg, engine, dir, logger)
	httpServer := &http.Server{
		Addr:    listen,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("🚀 服务已启动: http://%s\n", displayAddr(listen))
		logger.Info().Str("listen", listen).Msg("http server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		fmt.Fprintf(os.Stderr, "❌ 服务异常退出: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ 服务已停止")
}

// displayAddr turns a listen address into something clickable in logs.
func displayAddr(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "localhost" + listen
	}
	return listen
}
