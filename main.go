// GlacierTerm – a multi-session SSH terminal with an AI side panel.
//
// Stack: Go · Bubbletea · Lipgloss · golang.org/x/crypto/ssh
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glacierterm/glacierterm/internal/app"
	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/ui"
)

func main() {
	cfg := config.Load()
	ui.SetTheme(cfg.Theme)

	health := config.LoadHealth()
	config.MarkStarting(&health)
	if config.HasRepeatedCrashes(&health, cfg.ReconnectRetryLimit) && !health.LoggingAuto {
		log.Printf("[Startup] %d consecutive dirty shutdowns, enabling auto-logging", cfg.ReconnectRetryLimit)
		config.EnableAutoLogging(&health)
	}
	config.SaveHealth(health)

	p := tea.NewProgram(app.New(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	config.MarkCleanShutdown(&health)
	log.Println("[Shutdown] clean shutdown recorded")
	if config.ShouldAutoDisableLogging(&health, cfg.ReconnectRetryLimit) {
		log.Printf("[Shutdown] auto-logging disabled after %d clean shutdowns", cfg.ReconnectRetryLimit)
		config.DisableAutoLogging(&health)
	}
	config.SaveHealth(health)

	if err != nil {
		log.Printf("[Shutdown] exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "glacierterm:", err)
		os.Exit(1)
	}
}
