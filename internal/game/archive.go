package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/ito/internal/fileutil"
)

// ArchiveWriter saves every finished game to a directory as game_<id>.json
// (the full final state) and game_<id>.txt (the readable history).
type ArchiveWriter struct {
	directory string
	logger    *log.Logger
}

// NewArchiveWriter creates a subscriber that archives games under directory.
func NewArchiveWriter(directory string, logger *log.Logger) *ArchiveWriter {
	if logger == nil {
		logger = log.Default()
	}
	return &ArchiveWriter{directory: directory, logger: logger.WithPrefix("archive")}
}

// OnEvent implements EventSubscriber.
func (w *ArchiveWriter) OnEvent(event GameEvent) {
	end, ok := event.(GameEndEvent)
	if !ok {
		return
	}
	if err := w.Write(end.State); err != nil {
		w.logger.Error("Failed to archive game", "game", end.State.ID, "error", err)
	}
}

// Write stores one game state.
func (w *ArchiveWriter) Write(s *GameState) error {
	base := filepath.Join(w.directory, "game_"+s.ID)
	if err := fileutil.WriteJSONAtomic(base+".json", s); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(base+".txt", []byte(Transcript(s)), 0o644); err != nil {
		return err
	}
	w.logger.Debug("Archived game", "game", s.ID, "path", base+".json")
	return nil
}

// LoadState reads a state previously written by ArchiveWriter.
func LoadState(path string) (*GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game archive: %w", err)
	}
	var s GameState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse game archive %s: %w", path, err)
	}
	return &s, nil
}

// Transcript renders the history followed by a short summary.
func Transcript(s *GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s\n", s.ID)
	fmt.Fprintf(&b, "Theme: %s\n", s.Theme)
	fmt.Fprintf(&b, "Agents: %s\n\n", strings.Join(s.Agents, ", "))
	for _, line := range s.HistoryLines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(Summary(s))
	return b.String()
}

// Summary reports the outcome, the cards on the table and the cards still
// held when the game ended.
func Summary(s *GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s after %d turns\n", s.Status, s.TurnCount)
	fmt.Fprintf(&b, "Played: %s (%d of %d)\n", formatCards(s.PlayedCards), len(s.FinishedAgents), len(s.Agents))
	if len(s.Hands) > 0 {
		b.WriteString("Still held:")
		for _, id := range s.Agents {
			if v, ok := s.Hands[id]; ok {
				fmt.Fprintf(&b, " %s=%d", id, v)
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Reward: %.2f\n", s.Reward())
	return b.String()
}

func formatCards(cards []int) string {
	if len(cards) == 0 {
		return "none"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, " ")
}
