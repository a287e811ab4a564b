package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"paperqa/internal/answer"
	"paperqa/internal/config"
	"paperqa/internal/logging"
	"paperqa/internal/service"
	"paperqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, question string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/paperqa/config.yaml if not provided)")
	flag.StringVar(&question, "q", "", "Answer a single question and exit instead of starting the chat")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) != 1 {
		fmt.Println("Usage: paperqa [--config=config.yaml] [-q \"question\"] document.pdf")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// the chat owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if question != "" {
		logOut = os.Stderr
	} else if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(cfg.Log.Level, logOut)

	ctx := context.Background()
	session, err := buildSession(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to assemble components: %v", err)
	}
	ing, err := session.IngestFile(ctx, inputs[0])
	if err != nil {
		log.Fatal(service.UserMessage(err))
	}

	if question != "" {
		ans, err := session.Ask(ctx, question)
		if err != nil {
			fmt.Fprintln(os.Stderr, service.UserMessage(err))
			os.Exit(1)
		}
		printAnswer(os.Stdout, ans)
		return
	}

	m := tui.New(ctx, session, "paperqa · "+filepath.Base(ing.Path), ing.Caption(), ing.Summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func printAnswer(w io.Writer, ans answer.Answer) {
	fmt.Fprintln(w, ans.Text)
	if len(ans.Citations) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, c := range ans.Citations {
		fmt.Fprintf(w, "[%s] fragmento %d (score=%.3f, %s)\n", c.Tag, c.Position+1, c.Score, ans.Mode)
		fmt.Fprintf(w, "    %s\n", strings.TrimSpace(c.Text))
	}
}
