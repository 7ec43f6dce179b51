package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"taskboard/internal/board"
	"taskboard/internal/tui"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("BOARD_API_URL", "http://localhost:8080"), "task API base URL")
	token := flag.String("token", os.Getenv("BOARD_TOKEN"), "bearer token (see create_user)")
	perPage := flag.Int("per-page", envInt("BOARD_PAGE_SIZE", 50), "tasks per page")
	rollback := flag.Bool("rollback", os.Getenv("BOARD_ROLLBACK") == "true", "undo moves whose status update fails")
	logFile := flag.String("log", envOr("BOARD_LOG", "board.log"), "log file (the terminal is taken by the board)")
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer f.Close()
	log := slog.New(slog.NewTextHandler(f, nil))

	client := board.NewClient(*apiURL, *token)
	err = tui.Run(context.Background(), client, tui.Options{
		PerPage:  *perPage,
		Rollback: *rollback,
		Logger:   log,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}
