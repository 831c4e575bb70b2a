package main

import (
	"defects-register/controller"
	"defects-register/models"
	"defects-register/utils"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// criteriaPreset is the YAML shape accepted by --criteria
type criteriaPreset struct {
	Vessels     []string `yaml:"vessels"`
	Status      string   `yaml:"status"`
	Criticality string   `yaml:"criticality"`
	Search      string   `yaml:"search"`
	From        string   `yaml:"from"`
	To          string   `yaml:"to"`
}

// filterFlags are the filter options shared by stats and export
type filterFlags struct {
	user        string
	preset      string
	vessels     []string
	status      string
	criticality string
	search      string
	from        string
	to          string
	now         string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.user, "user", "", "user id whose assigned vessels scope the query")
	flags.StringVar(&f.preset, "criteria", "", "YAML file with a saved filter preset")
	flags.StringSliceVar(&f.vessels, "vessel", nil, "vessel id (repeatable or comma separated)")
	flags.StringVar(&f.status, "status", "", "status filter (OPEN, IN PROGRESS, CLOSED)")
	flags.StringVar(&f.criticality, "criticality", "", "criticality filter (Low, Medium, High)")
	flags.StringVar(&f.search, "search", "", "free text search")
	flags.StringVar(&f.from, "from", "", "earliest report date (YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "latest report date (YYYY-MM-DD)")
	flags.StringVar(&f.now, "now", "", "reference date for the trend and report stamp (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")
}

// criteria merges the preset file with explicit flags, flags winning
func (f *filterFlags) criteria(fallback time.Time) (models.FilterCriteria, time.Time, error) {
	q := models.ListQuery{}
	if f.preset != "" {
		preset, err := loadPreset(f.preset)
		if err != nil {
			return models.FilterCriteria{}, time.Time{}, err
		}
		q = models.ListQuery{
			Vessels:     preset.Vessels,
			Status:      preset.Status,
			Criticality: preset.Criticality,
			Search:      preset.Search,
			From:        preset.From,
			To:          preset.To,
		}
	}

	if len(f.vessels) > 0 {
		q.Vessels = f.vessels
	}
	if f.status != "" {
		q.Status = f.status
	}
	if f.criticality != "" {
		q.Criticality = f.criticality
	}
	if f.search != "" {
		q.Search = f.search
	}
	if f.from != "" {
		q.From = f.from
	}
	if f.to != "" {
		q.To = f.to
	}
	q.Now = f.now

	if err := utils.NewValidator().Struct(&q); err != nil {
		return models.FilterCriteria{}, time.Time{}, fmt.Errorf("invalid filter: %w", err)
	}
	return controller.CriteriaFromQuery(q, fallback)
}

func loadPreset(path string) (*criteriaPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read criteria preset: %w", err)
	}
	var preset criteriaPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse criteria preset %s: %w", path, err)
	}
	return &preset, nil
}
