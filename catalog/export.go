package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayam04/game-rec-live/shared"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const indent = "    "

// WriteJSON writes games as an indented JSON array. Non-ASCII text is kept
// as is.
func WriteJSON(path string, games []Game) error {
	if games == nil {
		games = []Game{}
	}
	data, err := sonic.ConfigDefault.MarshalIndent(games, "", indent)
	if err != nil {
		return fmt.Errorf("encoding games: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

func ReadJSON(path string) ([]Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var games []Game
	if err := sonic.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return games, nil
}

func ChunkFileName(n int) string {
	return fmt.Sprintf("games_%d.json", n)
}

// Split writes games in consecutive chunks of chunkSize to
// outputDir/games_<n>.json, n starting at 1, and returns the written paths.
func Split(logger shared.LoggerAdapter, games []Game, chunkSize int, outputDir string) ([]string, error) {
	if logger == nil {
		return nil, shared.ErrNoLogger
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", chunkSize)
	}
	var paths []string
	for i := 0; i*chunkSize < len(games); i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(games))
		path := filepath.Join(outputDir, ChunkFileName(i+1))
		if err := WriteJSON(path, games[start:end]); err != nil {
			return paths, err
		}
		logger.Info("chunk written", zap.String("file", path), zap.Int("games", end-start))
		paths = append(paths, path)
	}
	return paths, nil
}

func SplitFile(logger shared.LoggerAdapter, inputFile string, chunkSize int, outputDir string) ([]string, error) {
	games, err := ReadJSON(inputFile)
	if err != nil {
		return nil, err
	}
	return Split(logger, games, chunkSize, outputDir)
}
