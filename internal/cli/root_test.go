package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("expected help output, got empty string")
	}
	for _, want := range []string{"mapbench", "Sessions:", "Ordering:", "move", "ui"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	resetFlags(t)
	SetVersion("1.2.3")
	rootCmd.SetArgs([]string{"--version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	SetVersion("4.5.6")
	rootCmd.SetArgs([]string{"version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "4.5.6" {
		t.Errorf("version = %q, want 4.5.6", buf.String())
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"invalid-command"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"normal version", "1.2.3"},
		{"empty version", ""}, // Should not change if empty
		{"dev version", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := rootCmd.Version
			SetVersion(tt.version)
			want := tt.version
			if want == "" {
				want = before
			}
			if rootCmd.Version != want {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := [][]string{
		{"init"}, {"session", "ls"}, {"session", "rm"}, {"session", "show"},
		{"add"}, {"rm"}, {"ls"}, {"show"}, {"hide"}, {"opacity"},
		{"move"}, {"raise"}, {"lower"}, {"ui"}, {"version"}, {"completion", "bash"},
	}

	for _, args := range subcommands {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			subCmd, _, err := rootCmd.Find(args)
			if err != nil {
				t.Errorf("Find(%v) error = %v", args, err)
			}
			if subCmd == nil || subCmd.Name() != args[len(args)-1] {
				t.Errorf("Find(%v) returned %v", args, subCmd)
			}
		})
	}
}
