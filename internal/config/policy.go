package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// policyFile mirrors the YAML layout. Absent keys keep the defaults.
type policyFile struct {
	StandardHours       *string `yaml:"standard_hours"`
	ExpectedWorkDays    *int    `yaml:"expected_work_days"`
	HoursPerAbsentDay   *string `yaml:"hours_per_absent_day"`
	DefaultOvertimeRate *string `yaml:"default_overtime_rate"`
	DefaultBaseSalary   *string `yaml:"default_base_salary"`
	Late                struct {
		PenaltyPerLateCheckIn *string `yaml:"penalty_per_late_check_in"`
		GraceMinutes          *int    `yaml:"grace_minutes"`
	} `yaml:"late"`
}

// LoadPayrollPolicy reads the policy from path. An empty path yields
// payroll.DefaultPolicy.
func LoadPayrollPolicy(path string) (payroll.Policy, error) {
	policy := payroll.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read payroll policy: %w", err)
	}
	return ParsePayrollPolicy(raw)
}

// ParsePayrollPolicy overlays a YAML document on the default policy.
func ParsePayrollPolicy(raw []byte) (payroll.Policy, error) {
	policy := payroll.DefaultPolicy()

	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return policy, fmt.Errorf("failed to parse payroll policy: %w", err)
	}

	decimals := []struct {
		key string
		src *string
		dst *decimal.Decimal
	}{
		{"standard_hours", file.StandardHours, &policy.StandardHours},
		{"hours_per_absent_day", file.HoursPerAbsentDay, &policy.HoursPerAbsentDay},
		{"default_overtime_rate", file.DefaultOvertimeRate, &policy.DefaultOvertimeRate},
		{"default_base_salary", file.DefaultBaseSalary, &policy.DefaultBaseSalary},
		{"late.penalty_per_late_check_in", file.Late.PenaltyPerLateCheckIn, &policy.Late.PenaltyPerLateCheckIn},
	}
	for _, d := range decimals {
		if d.src == nil {
			continue
		}
		v, err := decimal.NewFromString(*d.src)
		if err != nil {
			return policy, fmt.Errorf("invalid payroll policy %s: %w", d.key, err)
		}
		if v.IsNegative() {
			return policy, fmt.Errorf("invalid payroll policy %s: must not be negative", d.key)
		}
		*d.dst = v
	}

	if file.ExpectedWorkDays != nil {
		policy.ExpectedWorkDays = *file.ExpectedWorkDays
	}
	if file.Late.GraceMinutes != nil {
		policy.Late.GraceMinutes = *file.Late.GraceMinutes
	}

	if !policy.StandardHours.IsPositive() {
		return policy, fmt.Errorf("invalid payroll policy standard_hours: must be positive")
	}
	if policy.ExpectedWorkDays < 0 || policy.Late.GraceMinutes < 0 {
		return policy, fmt.Errorf("invalid payroll policy: day and minute counts must not be negative")
	}
	if policy.DefaultOvertimeRate.LessThan(decimal.NewFromInt(1)) {
		return policy, fmt.Errorf("invalid payroll policy default_overtime_rate: must be at least 1")
	}

	return policy, nil
}
