// Package config provides configuration management for the resource tracker.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resource-tracker/internal/model"
)

// LoadAlertRules reads alert thresholds from the specified YAML file.
// An empty path returns the built-in defaults. Rules left at zero in the
// file are filled in from the defaults, so a file may override only the
// thresholds it cares about.
func LoadAlertRules(rulesPath string) (*model.AlertRules, error) {
	defaults := model.DefaultAlertRules()
	if rulesPath == "" {
		return defaults, nil
	}

	// Check if file exists
	if _, err := os.Stat(rulesPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("alert rules file not found: %s", rulesPath)
	}

	// Read file content
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read alert rules file: %w", err)
	}

	// Parse YAML
	var rules model.AlertRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse alert rules file: %w", err)
	}

	fillRuleDefaults(&rules.RAM.HighUsage, defaults.RAM.HighUsage)
	fillRuleDefaults(&rules.RAM.LowUtilization, defaults.RAM.LowUtilization)
	fillRuleDefaults(&rules.Storage.CriticalUsage, defaults.Storage.CriticalUsage)
	fillRuleDefaults(&rules.Storage.HighUsage, defaults.Storage.HighUsage)
	fillRuleDefaults(&rules.Storage.LowUtilization, defaults.Storage.LowUtilization)

	if err := validateAlertRules(&rules); err != nil {
		return nil, err
	}

	return &rules, nil
}

// fillRuleDefaults copies default values into rule fields the file left unset.
func fillRuleDefaults(rule *model.AlertRule, def model.AlertRule) {
	if rule.Threshold == 0 {
		rule.Threshold = def.Threshold
	}
	if rule.Recommendation == "" {
		rule.Recommendation = def.Recommendation
	}
}

// validateAlertRules checks that the threshold chains are ordered sensibly.
func validateAlertRules(rules *model.AlertRules) error {
	var errors ValidationErrors

	checks := []struct {
		field string
		low   float64
		high  float64
	}{
		{"ram", rules.RAM.LowUtilization.Threshold, rules.RAM.HighUsage.Threshold},
		{"storage (low/high)", rules.Storage.LowUtilization.Threshold, rules.Storage.HighUsage.Threshold},
		{"storage (high/critical)", rules.Storage.HighUsage.Threshold, rules.Storage.CriticalUsage.Threshold},
	}

	for _, c := range checks {
		if c.low >= c.high {
			errors = append(errors, &ValidationError{
				Field:   c.field,
				Tag:     "threshold_order",
				Value:   fmt.Sprintf("low=%v, high=%v", c.low, c.high),
				Message: fmt.Sprintf("lower threshold (%.2f) must be less than higher threshold (%.2f)", c.low, c.high),
			})
		}
	}

	for _, c := range []struct {
		field string
		value float64
	}{
		{"ram.high_usage.threshold", rules.RAM.HighUsage.Threshold},
		{"ram.low_utilization.threshold", rules.RAM.LowUtilization.Threshold},
		{"storage.critical_usage.threshold", rules.Storage.CriticalUsage.Threshold},
		{"storage.high_usage.threshold", rules.Storage.HighUsage.Threshold},
		{"storage.low_utilization.threshold", rules.Storage.LowUtilization.Threshold},
	} {
		if c.value < 0 || c.value > 100 {
			errors = append(errors, &ValidationError{
				Field:   c.field,
				Tag:     "percentage",
				Value:   c.value,
				Message: fmt.Sprintf("threshold must be a percentage between 0 and 100, got %.2f", c.value),
			})
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}
