package models

import (
	"time"

	"github.com/huanfeng/apkhub-split/pkg/apk"
	"github.com/huanfeng/apkhub-split/pkg/split"
)

// PlanReport is the outcome of planning which packages a device needs
type PlanReport struct {
	Source      string              `json:"source" yaml:"source"`
	SourceKind  string              `json:"source_kind" yaml:"source_kind"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Device      split.DeviceProfile `json:"device" yaml:"device"`
	App         *apk.BaseInfo       `json:"app,omitempty" yaml:"app,omitempty"`
	Packages    []PlannedPackage    `json:"packages" yaml:"packages"`
	Summary     PlanSummary         `json:"summary" yaml:"summary"`
	Warnings    []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PlannedPackage describes one package file and whether it was selected
type PlannedPackage struct {
	Name      string `json:"name" yaml:"name"`
	Size      int64  `json:"size" yaml:"size"`
	Base      bool   `json:"base" yaml:"base"`
	Kind      string `json:"kind" yaml:"kind"`
	Qualifier string `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`
	Selected  bool   `json:"selected" yaml:"selected"`
}

// PlanSummary totals a plan
type PlanSummary struct {
	Total         int   `json:"total" yaml:"total"`
	Selected      int   `json:"selected" yaml:"selected"`
	TotalSize     int64 `json:"total_size" yaml:"total_size"`
	SelectedSize  int64 `json:"selected_size" yaml:"selected_size"`
	BaseCount     int   `json:"base_count" yaml:"base_count"`
	ABISplits     int   `json:"abi_splits" yaml:"abi_splits"`
	DensitySplits int   `json:"density_splits" yaml:"density_splits"`
	LocaleSplits  int   `json:"locale_splits" yaml:"locale_splits"`
}

// NewPlanReport tallies entries against the selected set
func NewPlanReport(source, kind string, device split.DeviceProfile, entries []split.PackageEntry, selection *split.Selection) *PlanReport {
	report := &PlanReport{
		Source:      source,
		SourceKind:  kind,
		GeneratedAt: time.Now().UTC(),
		Device:      device,
		Packages:    make([]PlannedPackage, 0, len(entries)),
	}

	for _, e := range entries {
		selected := selection.Contains(e.Name)
		report.Packages = append(report.Packages, PlannedPackage{
			Name:      e.Name,
			Size:      e.Size,
			Base:      e.IsBase,
			Kind:      e.Config.Kind().String(),
			Qualifier: e.Config.Qualifier(),
			Selected:  selected,
		})

		s := &report.Summary
		s.Total++
		s.TotalSize += e.Size
		if selected {
			s.Selected++
			s.SelectedSize += e.Size
		}
		if e.IsBase {
			s.BaseCount++
		}
		switch e.Config.Kind() {
		case split.KindABI:
			s.ABISplits++
		case split.KindDensity:
			s.DensitySplits++
		case split.KindLanguage:
			s.LocaleSplits++
		}
	}

	return report
}
