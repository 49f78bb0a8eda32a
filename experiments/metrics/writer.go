package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"boxcars/bot"
)

// Writer persists exhibition records as CSV files in a timestamped run
// directory.
type Writer struct {
	baseDir string
}

func NewWriter(name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteProfiles(profiles []bot.Profile) error {
	path := filepath.Join(w.baseDir, "profiles.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profiles file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"name", "archetype", "skill"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write profiles header: %w", err)
	}

	for _, p := range profiles {
		row := []string{
			p.Name,
			p.Archetype.String(),
			strconv.FormatFloat(p.Skill, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write profile row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "profile1", "profile2", "winner", "turns", "start_time", "end_time", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Profile1,
			record.Profile2,
			record.Winner,
			strconv.Itoa(record.Turns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	path := filepath.Join(w.baseDir, "turn_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create turn records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "turn", "bot", "action", "options", "rejected", "latency", "net_cash"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write turn records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			record.Bot,
			record.Action,
			strconv.Itoa(record.Options),
			strconv.Itoa(record.Rejected),
			record.Latency.String(),
			strconv.Itoa(record.NetCash),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write turn record row: %w", err)
		}
	}

	return nil
}
