package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"casamento/internal/config"
	"casamento/internal/flipclock"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(flipclock.New(cfg.WeddingDate, nil))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
