package main

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/breakout/internal/config"
	gameconfig "github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/store"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
}).Parse(htmlPage))

// pageData is what index.html renders.
type pageData struct {
	SSHHost string
	Scores  []store.Record
}

// scoresSource is the part of the leaderboard the web host reads.
type scoresSource interface {
	Top(n int) ([]store.Record, error)
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})

	addr := net.JoinHostPort(config.GetEnv("WEB_HOST", defaultHost), config.GetEnv("WEB_PORT", defaultPort))
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scores := store.NewLeaderboard(config.GetEnv("BREAKOUT_SCORES", "score.txt"))

	logger.Info("starting web server", "addr", "http://"+addr, "scores", scores.Path())
	if err := http.ListenAndServe(addr, newMux(scores, sshHost, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func newMux(scores scoresSource, sshHost string, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		top, err := scores.Top(gameconfig.LeaderboardSize)
		if err != nil {
			logger.Error("leaderboard read failed", "err", err)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, pageData{SSHHost: sshHost, Scores: top}); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	mux.HandleFunc("GET /leaderboard.json", func(w http.ResponseWriter, r *http.Request) {
		top, err := scores.Top(gameconfig.LeaderboardSize)
		if err != nil {
			logger.Error("leaderboard read failed", "err", err)
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		if top == nil {
			top = []store.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(top)
	})

	return mux
}
