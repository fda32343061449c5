package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtractorScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extractor.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestSocialExtractor_Extract(t *testing.T) {
	t.Run("should decode caption and image from stdout", func(t *testing.T) {
		script := writeExtractorScript(t, `echo '{"caption":"Best pasta ever. 500g spaghetti, 4 eggs.","image_url":"https://cdn.example.com/post.jpg"}'`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		post, err := extractor.Extract(context.Background(), "https://social.example.com/p/abc123")
		require.NoError(t, err)
		assert.Equal(t, "Best pasta ever. 500g spaghetti, 4 eggs.", post.Caption)
		assert.Equal(t, "https://cdn.example.com/post.jpg", post.ImageURL)
	})

	t.Run("should pass post URL and scratch directory as arguments", func(t *testing.T) {
		script := writeExtractorScript(t, `printf '{"caption":"args: %s %s","image_url":""}' "$1" "$2"`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		post, err := extractor.Extract(context.Background(), "https://social.example.com/p/xyz")
		require.NoError(t, err)
		assert.Contains(t, post.Caption, "https://social.example.com/p/xyz")
		assert.Contains(t, post.Caption, "social-extract-")
	})

	t.Run("should remove scratch directory after the run", func(t *testing.T) {
		// Redirect temp files so the test can enumerate leftovers.
		tmpRoot := t.TempDir()
		t.Setenv("TMPDIR", tmpRoot)

		script := writeExtractorScript(t, `echo '{"caption":"done","image_url":""}' && touch "$2/frame.jpg"`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		_, err := extractor.Extract(context.Background(), "https://social.example.com/p/clean")
		require.NoError(t, err)

		leftovers, err := filepath.Glob(filepath.Join(tmpRoot, "social-extract-*"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("should remove scratch directory when the extractor fails", func(t *testing.T) {
		tmpRoot := t.TempDir()
		t.Setenv("TMPDIR", tmpRoot)

		script := writeExtractorScript(t, `touch "$2/partial.jpg" && exit 1`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		_, err := extractor.Extract(context.Background(), "https://social.example.com/p/fail")
		assert.Error(t, err)

		leftovers, err := filepath.Glob(filepath.Join(tmpRoot, "social-extract-*"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("should return ErrNoCaption for blank caption", func(t *testing.T) {
		script := writeExtractorScript(t, `echo '{"caption":"  ","image_url":"https://cdn.example.com/post.jpg"}'`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		_, err := extractor.Extract(context.Background(), "https://social.example.com/p/nocap")
		assert.ErrorIs(t, err, ErrNoCaption)
	})

	t.Run("should fail on unparseable output", func(t *testing.T) {
		script := writeExtractorScript(t, `echo 'extractor crashed mid-write'`)
		extractor := NewSocialExtractor(script, 5*time.Second)

		_, err := extractor.Extract(context.Background(), "https://social.example.com/p/garbage")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoCaption)
	})

	t.Run("should kill the extractor on timeout", func(t *testing.T) {
		script := writeExtractorScript(t, `sleep 10`)
		extractor := NewSocialExtractor(script, 100*time.Millisecond)

		start := time.Now()
		_, err := extractor.Extract(context.Background(), "https://social.example.com/p/slow")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
