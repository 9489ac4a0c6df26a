package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cichat/config"
)

// Message is one exported transcript entry.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the on-disk export format.
type Transcript struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Server     string    `json:"server"`
	ExportedAt time.Time `json:"exported_at"`
	Messages   []Message `json:"messages"`
}

func NewTranscript(name, server string, messages []Message) *Transcript {
	if messages == nil {
		messages = []Message{}
	}
	return &Transcript{
		ID:         uuid.New().String(),
		Name:       name,
		Server:     server,
		ExportedAt: time.Now(),
		Messages:   messages,
	}
}

// ExportTranscript writes t as indented JSON to exportPath, creating the
// parent directory.
func ExportTranscript(t *Transcript, exportPath string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	// 0700/0600 - transcripts hold the whole conversation
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadTranscript reads an export back.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	return &t, nil
}

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\n', '\r', '\t':
			return '-'
		}
		return r
	}, name)

	name = strings.Trim(name, "-.")

	if runes := []rune(name); len(runes) > 50 {
		name = strings.TrimRight(string(runes[:50]), "-.")
	}

	if name == "" {
		name = "transcript"
	}

	return name
}

// GenerateExportPath returns a timestamped file in the Downloads directory.
func GenerateExportPath(name string, at time.Time) string {
	filename := fmt.Sprintf("cichat-%s-%s.json", SanitizeFilename(name), at.Format("20060102-150405"))
	return filepath.Join(config.GetDownloadsDir(), filename)
}

// TranscriptName names a transcript after its first question.
func TranscriptName(firstQuestion string, at time.Time) string {
	name := strings.Join(strings.Fields(firstQuestion), " ")
	if name == "" {
		return fmt.Sprintf("Chat %s", at.Format("Jan 2, 3:04 PM"))
	}

	if runes := []rune(name); len(runes) > 30 {
		name = string(runes[:30]) + "..."
	}
	return name
}
