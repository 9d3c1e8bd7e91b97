package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/tdewolff/sanitize/html"
	"github.com/tdewolff/sanitize/selector"
	"github.com/tdewolff/sanitize/tag"
)

// Config holds the sanitizer options. Defaults are read from the environment and an optional .env file, command line flags take precedence.
type Config struct {
	Allow        string   `env:"SANITIZE_ALLOW"`
	AllowAttr    []string `env:"SANITIZE_ALLOW_ATTR" envSeparator:","`
	AllowScheme  []string `env:"SANITIZE_ALLOW_SCHEME" envSeparator:","`
	FrameHost    []string `env:"SANITIZE_FRAME_HOST" envSeparator:","`
	DropUnknown  bool     `env:"SANITIZE_DROP_UNKNOWN"`
	KeepComments bool     `env:"SANITIZE_KEEP_COMMENTS"`
}

// LoadConfig loads the given env files, or .env in the working directory, if they exist and parses the SANITIZE_* environment variables.
func LoadConfig(filenames ...string) (Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// NewSanitizer returns the default sanitizer extended by the options in cfg.
func NewSanitizer(cfg Config) (*html.Sanitizer, error) {
	s := html.DefaultSanitizer()
	if strings.TrimSpace(cfg.Allow) != "" {
		allowed, err := selector.Parse(cfg.Allow)
		if err != nil {
			return nil, fmt.Errorf("allowed elements: %w", err)
		}
		s.AllowedTags = s.AllowedTags.Union(allowed)
	}
	for _, attr := range splitList(cfg.AllowAttr) {
		s.AllowedAttrs[attr] = true
	}
	for _, scheme := range splitList(cfg.AllowScheme) {
		s.AllowedSchemes[scheme] = true
	}
	if hosts := splitList(cfg.FrameHost); 0 < len(hosts) {
		s.AllowedTags.Add(tag.Iframe)
		s.FrameFunc = html.SameHost(hosts...)
	}
	s.DropUnknown = cfg.DropUnknown
	s.KeepComments = cfg.KeepComments
	return s, nil
}

// splitList splits comma-separated items, trims and lowercases them and removes empty ones.
func splitList(items []string) []string {
	list := []string{}
	for _, item := range items {
		for _, s := range strings.Split(item, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				list = append(list, s)
			}
		}
	}
	return list
}
