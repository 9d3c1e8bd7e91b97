package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/sanitize/html"
	"github.com/tdewolff/sanitize/tag"
	"github.com/tdewolff/test"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SANITIZE_ALLOW", "iframe, meta")
	t.Setenv("SANITIZE_ALLOW_ATTR", "Style,data-id")
	t.Setenv("SANITIZE_FRAME_HOST", "www.youtube.com,player.vimeo.com")
	t.Setenv("SANITIZE_DROP_UNKNOWN", "true")

	cfg, err := LoadConfig()
	test.Error(t, err)
	test.String(t, cfg.Allow, "iframe, meta")
	test.T(t, cfg.AllowAttr, []string{"Style", "data-id"})
	test.T(t, cfg.FrameHost, []string{"www.youtube.com", "player.vimeo.com"})
	test.That(t, cfg.DropUnknown)
	test.That(t, !cfg.KeepComments)

	t.Setenv("SANITIZE_KEEP_COMMENTS", "maybe")
	_, err = LoadConfig()
	test.That(t, err != nil, "invalid bool must fail")
}

func TestLoadConfigFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	test.Error(t, err)

	filename := filepath.Join(t.TempDir(), "bad.env")
	test.Error(t, os.WriteFile(filename, []byte("SANITIZE_ALLOW=\"iframe\n"), 0644))
	_, err = LoadConfig(filename)
	test.That(t, err != nil, "malformed env file must fail")
}

func TestNewSanitizer(t *testing.T) {
	s, err := NewSanitizer(Config{})
	test.Error(t, err)
	test.T(t, s.AllowedTags, html.DefaultSanitizer().AllowedTags)
	test.That(t, s.FrameFunc == nil)

	s, err = NewSanitizer(Config{
		Allow:        "meta",
		AllowAttr:    []string{" Style ,data-id", ""},
		AllowScheme:  []string{"FTP"},
		FrameHost:    []string{"www.youtube.com"},
		KeepComments: true,
	})
	test.Error(t, err)
	test.That(t, s.AllowedTags.Match(tag.Meta))
	test.That(t, s.AllowedTags.Match(tag.Iframe), "frame hosts allow iframes")
	test.That(t, s.AllowedTags.Match(tag.P), "defaults are kept")
	test.That(t, s.AllowedAttrs["style"])
	test.That(t, s.AllowedAttrs["data-id"])
	test.That(t, s.AllowedSchemes["ftp"])
	test.That(t, s.FrameFunc != nil)
	test.That(t, s.KeepComments)
	test.That(t, !s.DropUnknown)

	_, err = NewSanitizer(Config{Allow: "script,,style"})
	var perr *parse.Error
	test.That(t, errors.As(err, &perr), "must wrap *parse.Error")
}

