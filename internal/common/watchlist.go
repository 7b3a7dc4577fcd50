package common

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadWatchlist reads a newline-delimited ticker list. Blank lines and
// lines starting with '#' are ignored; duplicates keep first position.
func LoadWatchlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchlist %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var tickers []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ticker := strings.ToUpper(line)
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}

	return tickers, nil
}
