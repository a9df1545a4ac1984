package main

import "testing"

func TestParsePrepareFlags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		check          func(t *testing.T, f *prepareFlags)
		wantPositional []string
		wantErr        bool
	}{
		{
			name: "defaults",
			args: nil,
			check: func(t *testing.T, f *prepareFlags) {
				if f.output != "" || f.workers != 0 || f.timeout != "" {
					t.Errorf("unexpected defaults: %+v", f)
				}
			},
		},
		{
			name:           "positional input with output",
			args:           []string{"-o", "out/", "docs/report.docx"},
			wantPositional: []string{"docs/report.docx"},
			check: func(t *testing.T, f *prepareFlags) {
				if f.output != "out/" {
					t.Errorf("output = %q", f.output)
				}
			},
		},
		{
			name: "short flags",
			args: []string{"-c", "portal.yaml", "-q", "-w", "4", "-t", "90s"},
			check: func(t *testing.T, f *prepareFlags) {
				if f.common.config != "portal.yaml" {
					t.Errorf("config = %q", f.common.config)
				}
				if !f.common.quiet {
					t.Error("quiet not set")
				}
				if f.workers != 4 {
					t.Errorf("workers = %d", f.workers)
				}
				if f.timeout != "90s" {
					t.Errorf("timeout = %q", f.timeout)
				}
			},
		},
		{
			name: "limit flags",
			args: []string{"--max-size-mb", "10", "--margin", "0.85", "--max-attempts", "30"},
			check: func(t *testing.T, f *prepareFlags) {
				if f.limits.maxSizeMB != 10 {
					t.Errorf("maxSizeMB = %d", f.limits.maxSizeMB)
				}
				if f.limits.margin != 0.85 {
					t.Errorf("margin = %f", f.limits.margin)
				}
				if f.limits.maxAttempts != 30 {
					t.Errorf("maxAttempts = %d", f.limits.maxAttempts)
				}
			},
		},
		{
			name: "validation and tool flags",
			args: []string{"--no-validate", "--qpdf", "/opt/qpdf", "--gs", "/opt/gs"},
			check: func(t *testing.T, f *prepareFlags) {
				if !f.validation.disabled {
					t.Error("no-validate not set")
				}
				if f.tools.qpdf != "/opt/qpdf" {
					t.Errorf("qpdf = %q", f.tools.qpdf)
				}
				if f.tools.ghostscript != "/opt/gs" {
					t.Errorf("gs = %q", f.tools.ghostscript)
				}
			},
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, positional, err := parsePrepareFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if tt.check != nil {
				tt.check(t, flags)
			}
			if len(tt.wantPositional) > 0 {
				if len(positional) != len(tt.wantPositional) || positional[0] != tt.wantPositional[0] {
					t.Errorf("positional = %v, want %v", positional, tt.wantPositional)
				}
			}
		})
	}
}
