package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoCaption means the social post had no retrievable caption text.
var ErrNoCaption = errors.New("no caption found in social post")

// SocialPost is the extractor's output: the post caption and its primary
// image address.
type SocialPost struct {
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
}

// SocialExtractor resolves social-media posts through an out-of-process
// extractor command. The command receives the post URL and a scratch
// directory and prints a single JSON object on stdout.
type SocialExtractor struct {
	command string
	timeout time.Duration
}

// NewSocialExtractor creates a new SocialExtractor instance
func NewSocialExtractor(command string, timeout time.Duration) *SocialExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SocialExtractor{
		command: command,
		timeout: timeout,
	}
}

// Extract runs the extractor for the given post URL. The invocation is
// time-bounded and the scratch directory is removed on every path.
func (e *SocialExtractor) Extract(ctx context.Context, postURL string) (*SocialPost, error) {
	workDir, err := os.MkdirTemp("", "social-extract-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Printf("[SocialExtractor] failed to remove scratch directory %s: %v", workDir, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.command, postURL, workDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("social extractor timed out after %s", e.timeout)
		}
		log.Printf("[SocialExtractor] extractor failed for %s: %v: %s", postURL, err, stderr.String())
		return nil, fmt.Errorf("social extractor failed: %w", err)
	}

	var post SocialPost
	if err := json.Unmarshal(stdout.Bytes(), &post); err != nil {
		log.Printf("[SocialExtractor] unparseable extractor output for %s: %s", postURL, stdout.String())
		return nil, fmt.Errorf("failed to decode extractor output: %w", err)
	}

	post.Caption = strings.TrimSpace(post.Caption)
	if post.Caption == "" {
		return nil, ErrNoCaption
	}

	return &post, nil
}
