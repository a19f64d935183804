// Package cmd implements the command-line interface for goflix.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/goflix/goflix/constant"
	"github.com/goflix/goflix/icon"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits with an install hint when the configured mpv executable is not on PATH.
func CheckDependencies() {
	if engine := viper.GetString(key.PlayerEngine); engine != constant.EngineMPV {
		handleErr(fmt.Errorf("unsupported player engine %q, available engines: %s", engine, constant.EngineMPV))
	}

	mpv := viper.GetString(key.PlayerMPVPath)
	if mpv == "" {
		mpv = constant.EngineMPV
	}

	if _, err := exec.LookPath(mpv); err != nil {
		printMissingDependencyError(mpv)
		os.Exit(1)
	}
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The video player '%s' was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}
	suggestion += fmt.Sprintf("\n\nOr point %s at an existing binary.", style.Fg(style.AccentColor)(key.PlayerMPVPath))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
