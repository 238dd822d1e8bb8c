package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"kiosk/internal/hours"
)

// HoursConfig is the root of hours.yaml: opening intervals keyed by weekday name.
//
//	days:
//	  Mo: [["08:00", "00:00"]]
//	  So: [["Geschlossen", " "]]
type HoursConfig struct {
	Days map[string][][]string `yaml:"days"`
}

// LoadHoursConfig loads and validates hours from a YAML file.
func LoadHoursConfig(path string) (*HoursConfig, error) {
	if path == "" {
		path = "configs/hours.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hours config: %w", err)
	}
	return ParseHours(data)
}

// ParseHours decodes and validates raw hours YAML.
func ParseHours(data []byte) (*HoursConfig, error) {
	var cfg HoursConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse hours config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate hours config: %w", err)
	}
	return &cfg, nil
}

// Validate checks day names and interval shapes. Interval contents are not
// checked: unparseable bounds mark closed days and are skipped at evaluation.
func (c *HoursConfig) Validate() error {
	seen := make(map[int]string, len(c.Days))
	for _, name := range c.dayNames() {
		idx, err := hours.ParseWeekday(name)
		if err != nil {
			return fmt.Errorf("days.%s: %w", name, err)
		}
		if prev, dup := seen[idx]; dup {
			return fmt.Errorf("days.%s: duplicates days.%s", name, prev)
		}
		seen[idx] = name

		for i, pair := range c.Days[name] {
			if len(pair) != 2 {
				return fmt.Errorf("days.%s[%d]: expected [start, end], got %d values", name, i, len(pair))
			}
		}
	}
	return nil
}

// Schedule converts the config into a weekly schedule. Missing days are closed.
func (c *HoursConfig) Schedule() (hours.WeeklySchedule, error) {
	var schedule hours.WeeklySchedule
	for _, name := range c.dayNames() {
		idx, err := hours.ParseWeekday(name)
		if err != nil {
			return hours.WeeklySchedule{}, fmt.Errorf("days.%s: %w", name, err)
		}
		pairs := c.Days[name]
		day := make(hours.DaySchedule, 0, len(pairs))
		for i, pair := range pairs {
			if len(pair) != 2 {
				return hours.WeeklySchedule{}, fmt.Errorf("days.%s[%d]: expected [start, end]", name, i)
			}
			day = append(day, hours.Interval{Start: pair[0], End: pair[1]})
		}
		schedule[idx] = day
	}
	return schedule, nil
}

// String returns a summary of the configuration.
func (c *HoursConfig) String() string {
	open := 0
	if s, err := c.Schedule(); err == nil {
		for _, day := range s {
			if len(day.Valid()) > 0 {
				open++
			}
		}
	}
	return fmt.Sprintf("HoursConfig: %d days configured (%d open)", len(c.Days), open)
}

// dayNames returns keys in a stable order so errors are reproducible.
func (c *HoursConfig) dayNames() []string {
	names := make([]string, 0, len(c.Days))
	for name := range c.Days {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
