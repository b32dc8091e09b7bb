package main

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the settings a feather session can be pre-loaded with: an
// initial set of variables and the prompts the REPL shows.
type Config struct {
	Vars               map[string]any `yaml:"vars"`
	Prompt             string         `yaml:"prompt"`
	ContinuationPrompt string         `yaml:"continuation_prompt"`
	HistoryFile        string         `yaml:"history_file"`
}

func defaultConfig() Config {
	return Config{
		Prompt:             "% ",
		ContinuationPrompt: "> ",
	}
}

// loadConfig reads a YAML config file, if a path was given. A missing
// --config flag is not an error: it just means the defaults apply.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "% "
	}
	if cfg.ContinuationPrompt == "" {
		cfg.ContinuationPrompt = "> "
	}
	return cfg, nil
}
