// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resource-tracker/internal/client/push"
)

// Command flags
var (
	pushEndpoint    string // Server endpoint override
	pushConcurrency int    // Concurrent upload limit override
)

// pushCmd represents the push command.
var pushCmd = &cobra.Command{
	Use:   "push <日志文件>...",
	Short: "上传日志到追踪服务",
	Long: `将本地日志文件并发上传到追踪服务的接收接口（POST /admin）。
上传失败时按照配置的重试策略自动重试（仅限超时和 5xx 错误）。

示例:
  # 上传单个日志文件
  tracker push -c config.yaml device.log

  # 批量并发上传
  tracker push -c config.yaml logs/*.log

  # 指定服务端地址
  tracker push --endpoint http://tracker.example.com:5000 device.log`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringVar(&pushEndpoint, "endpoint", "", "服务端地址（覆盖配置文件）")
	pushCmd.Flags().IntVar(&pushConcurrency, "concurrency", 0, "并发上传数（覆盖配置文件）")
}

// runPush uploads each file concurrently through the push client.
func runPush(cmd *cobra.Command, args []string) {
	cfg, logger := loadRuntime()

	if pushEndpoint != "" {
		cfg.Push.Endpoint = pushEndpoint
	}
	if cfg.Push.Endpoint == "" {
		fmt.Fprintf(os.Stderr, "❌ 未配置服务端地址，请设置 push.endpoint 或使用 --endpoint\n")
		os.Exit(1)
	}

	concurrency := cfg.Push.Concurrency
	if pushConcurrency > 0 {
		concurrency = pushConcurrency
	}
	if concurrency <= 0 {
		concurrency = 5
	}

	client := push.NewClient(&cfg.Push, &cfg.HTTP.Retry, logger)

	// Collect per-file results under a lock; uploads run concurrently.
	var (
		mu      sync.Mutex
		results = make(map[string]string) // path → identity key
		errs    = make(map[string]error)  // path → failure
	)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(concurrency)

	for _, path := range args {
		path := path
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				errs[path] = err
				mu.Unlock()
				return nil
			}

			result, err := client.Push(ctx, raw)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[path] = err
				return nil
			}
			results[path] = result.UserID
			return nil
		})
	}

	// Errors are collected per file, never propagated, so Wait cannot fail.
	_ = g.Wait()

	paths := make([]string, 0, len(args))
	paths = append(paths, args...)
	sort.Strings(paths)

	for _, path := range paths {
		if key, ok := results[path]; ok {
			fmt.Printf("✅ %s → %s\n", path, key)
		} else if err, ok := errs[path]; ok {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", path, err)
		}
	}

	fmt.Printf("完成: %d 成功, %d 失败\n", len(results), len(errs))
	if len(errs) > 0 {
		os.Exit(1)
	}
}
