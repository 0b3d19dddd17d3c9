package model

// AlertRule pairs a usage-percentage threshold with the recommendation
// attached to alerts it produces.
type AlertRule struct {
	Threshold      float64 `yaml:"threshold"`
	Recommendation string  `yaml:"recommendation"`
}

// RAMRules holds the memory evaluation chain. HighUsage is checked first;
// LowUtilization only fires when HighUsage did not.
type RAMRules struct {
	HighUsage      AlertRule `yaml:"high_usage"`      // 内存过高
	LowUtilization AlertRule `yaml:"low_utilization"` // 内存利用率过低
}

// StorageRules holds the storage evaluation chain, checked in order:
// CriticalUsage, HighUsage, LowUtilization.
type StorageRules struct {
	CriticalUsage  AlertRule `yaml:"critical_usage"`
	HighUsage      AlertRule `yaml:"high_usage"`
	LowUtilization AlertRule `yaml:"low_utilization"`
}

// AlertRules is the full threshold configuration for the alert engine.
type AlertRules struct {
	RAM     RAMRules     `yaml:"ram"`
	Storage StorageRules `yaml:"storage"`
}

// DefaultAlertRules returns the built-in thresholds and recommendations.
func DefaultAlertRules() *AlertRules {
	return &AlertRules{
		RAM: RAMRules{
			HighUsage: AlertRule{
				Threshold:      85,
				Recommendation: "Consider closing unused applications or upgrading RAM",
			},
			LowUtilization: AlertRule{
				Threshold:      20,
				Recommendation: "Device may be over-provisioned for user needs",
			},
		},
		Storage: StorageRules{
			CriticalUsage: AlertRule{
				Threshold:      90,
				Recommendation: "Immediate cleanup or storage expansion needed",
			},
			HighUsage: AlertRule{
				Threshold:      75,
				Recommendation: "Plan for storage cleanup soon",
			},
			LowUtilization: AlertRule{
				Threshold:      15,
				Recommendation: "Device storage may be over-provisioned",
			},
		},
	}
}
