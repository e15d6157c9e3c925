package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Output formats a report can be rendered to.
const (
	FormatPDF      = "pdf"
	FormatDocs     = "docs"
	FormatWorkbook = "workbook"
	FormatJSON     = "json"
)

// Report types.
const (
	ReportProfessional = "professional"
	ReportBasic        = "basic"
)

// Formats lists every supported output format.
var Formats = []string{FormatPDF, FormatDocs, FormatWorkbook, FormatJSON}

const (
	EnvOutputsFormats    = "OTREPORT_OUTPUTS_FORMATS"
	EnvOutputsReportType = "OTREPORT_OUTPUTS_REPORT_TYPE"
	EnvOutputsDirectory  = "OTREPORT_OUTPUTS_DIRECTORY"
)

// OutputsConfig holds the default rendering choices. A request may narrow
// the formats; it cannot enable one missing from Formats.
type OutputsConfig struct {
	Formats    []string `toml:"formats"`
	ReportType string   `toml:"report_type"`
	// Directory is where the CLI writes artifacts.
	Directory string `toml:"directory"`
}

// Enabled reports whether format is one of the configured formats.
func (c *OutputsConfig) Enabled(format string) bool {
	return slices.Contains(c.Formats, format)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OutputsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *OutputsConfig) Merge(overlay *OutputsConfig) {
	if overlay.Formats != nil {
		c.Formats = overlay.Formats
	}
	if overlay.ReportType != "" {
		c.ReportType = overlay.ReportType
	}
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
}

func (c *OutputsConfig) loadDefaults() {
	if len(c.Formats) == 0 {
		c.Formats = []string{FormatPDF, FormatJSON}
	}
	if c.ReportType == "" {
		c.ReportType = ReportProfessional
	}
	if c.Directory == "" {
		c.Directory = "reports"
	}
}

func (c *OutputsConfig) loadEnv() {
	if v := os.Getenv(EnvOutputsFormats); v != "" {
		c.Formats = SplitList(v)
	}
	if v := os.Getenv(EnvOutputsReportType); v != "" {
		c.ReportType = v
	}
	if v := os.Getenv(EnvOutputsDirectory); v != "" {
		c.Directory = v
	}
}

func (c *OutputsConfig) validate() error {
	for _, f := range c.Formats {
		if !slices.Contains(Formats, f) {
			return fmt.Errorf("unknown format %q", f)
		}
	}
	if c.ReportType != ReportProfessional && c.ReportType != ReportBasic {
		return fmt.Errorf("invalid report_type %q: must be %s or %s", c.ReportType, ReportProfessional, ReportBasic)
	}
	return nil
}

// SplitList splits a comma-separated value, trimming and lower-casing each
// entry and dropping empty ones.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
