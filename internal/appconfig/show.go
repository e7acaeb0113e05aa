package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	width, height := cfg.ChartSize()
	timeout := "none"
	if d := cfg.RequestTimeout(); d > 0 {
		timeout = d.String()
	}
	origins := "(none)"
	if len(cfg.AllowedOrigins) > 0 {
		origins = strings.Join(cfg.AllowedOrigins, ", ")
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Base URL:        %s\n", cfg.ServiceURL())
	fmt.Fprintf(out, "  Timeout:         %s\n", timeout)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Output:          %s\n", cfg.Output)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Serve Address:   %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Allowed Origins: %s\n", origins)
	fmt.Fprintf(out, "  Chart Size:      %dx%d\n", width, height)
}
