// Package cmd implements CLI commands for the resource tracker.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resource-tracker/internal/config"
)

// Command flags
var (
	validateRulesPath string // Path to alert rules file
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证配置文件",
	Long:  "加载并验证配置文件，检查格式、必填字段、数值范围和业务逻辑约束。配合 --rules 可同时验证告警阈值文件。",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateRulesPath, "rules", "", "告警阈值文件路径")
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, args []string) {
	configPath := GetConfigFile()

	// Load and validate configuration (Load internally calls Validate)
	_, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 配置验证失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 配置文件验证通过: %s\n", configPath)

	if validateRulesPath != "" {
		if _, err := config.LoadAlertRules(validateRulesPath); err != nil {
			fmt.Fprintf(os.Stderr, "❌ 告警阈值验证失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ 告警阈值验证通过: %s\n", validateRulesPath)
	}
}
