package scenario

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/phenomenon/internal/system"
)

// DefaultDir is where decks are looked up when none is named.
var DefaultDir = filepath.Join("input", "decks")

// GenerateDeckPath creates a timestamped deck filename inside dir
func GenerateDeckPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("deck_%s.yaml", timestamp))
}

// FindLatestDeck finds the most recently modified deck file in dir
func FindLatestDeck(dir string) (string, error) {
	return system.FindLatest(dir, ".yaml", ".yml")
}
