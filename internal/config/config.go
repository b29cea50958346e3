// Package config parses the receiver's minimal key=value configuration
// file. This is a deliberately small, hand-rolled scanner rather than a
// structured-config library: the format is a narrow external contract
// (three recognized keys, '#' comment truncation, unknown keys silently
// ignored) that a general-purpose config library would not simplify.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds the three settings the receiver reads from its config file.
type Config struct {
	DBPath   string
	WebPort  int
	LogLevel string
}

// Defaults matches the receiver's built-in fallback values, used for any
// key the file omits.
func Defaults() Config {
	return Config{
		DBPath:   "hf-decoder.db",
		WebPort:  8080,
		LogLevel: "info",
	}
}

// Load reads and parses a key=value config file at path, starting from
// Defaults and overriding only the keys present in the file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads key=value pairs from r. Lines are trimmed, '#' and anything
// after it on a line is discarded, blank lines are skipped, and any key
// other than db_path, web_port, or log_level is silently ignored.
func Parse(r io.Reader) (Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "db_path":
			cfg.DBPath = value
		case "web_port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("invalid web_port %q: %w", value, err)
			}
			cfg.WebPort = port
		case "log_level":
			cfg.LogLevel = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("scan config: %w", err)
	}
	return cfg, nil
}
