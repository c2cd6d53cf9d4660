package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"
)

const digestPrompt = `You are an analyst monitoring short-wave and internet radio broadcasts. Based on the raw transcript below, write a CONCISE digest in ENGLISH.

Requirements:
- Start with a one-sentence overview naming the likely topic of the broadcast
- List the main news items or program segments in order of appearance
- Note names of people, places and organizations that are mentioned
- The transcript may be machine-generated from a noisy signal; ignore obvious hallucinated repetitions and garbled fragments
- If the source language is not English, summarize in English but keep proper names as spoken
- Use markdown: headings, bullet points, bold for key names

Transcript:
---
%s
---`

// SummarizeAll reads transcript .txt files from transcriptDir, asks Gemini
// for a digest of each, and writes individual .md files into destDir.
// Transcripts that already have a digest are skipped, so the pass can run
// after every batch.
func (s *implSummarizer) SummarizeAll(ctx context.Context, transcriptDir, destDir string) error {
	transcripts, err := s.discoverTranscripts(transcriptDir)
	if err != nil {
		return fmt.Errorf("discover transcripts: %w", err)
	}

	if len(transcripts) == 0 {
		s.logger.Info(ctx, "No transcripts found in %s", transcriptDir)
		return nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d transcript(s) to summarize", len(transcripts))

	successCount := 0
	failCount := 0

	for i, txtPath := range transcripts {
		name := strings.TrimSuffix(filepath.Base(txtPath), ".txt")
		mdPath := filepath.Join(destDir, name+".md")

		if _, err := os.Stat(mdPath); err == nil {
			s.logger.Debug(ctx, "[%d/%d] Digest exists, skipping: %s", i+1, len(transcripts), name)
			continue
		}

		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(transcripts), name)

		content, err := os.ReadFile(txtPath)
		if err != nil {
			s.logger.Error(ctx, "Failed to read %s: %v", txtPath, err)
			failCount++
			continue
		}

		digest, err := s.callGemini(ctx, string(content))
		if err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", name, err)
			failCount++
			continue
		}

		md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
			name,
			time.Now().Format("2006-01-02 15:04"),
			strings.TrimSpace(digest),
		)

		if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
			s.logger.Error(ctx, "Failed to write %s: %v", mdPath, err)
			failCount++
			continue
		}

		if s.docx {
			docxPath := filepath.Join(destDir, name+".docx")
			if err := markdownToDocx(name, md, docxPath); err != nil {
				s.logger.Warn(ctx, "Failed to render docx for %s: %v", name, err)
			}
		}

		s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
		successCount++
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", successCount, failCount)
	return nil
}

// callGemini sends the transcript to Gemini and returns the digest text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(digestPrompt, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

func (s *implSummarizer) discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) == ".txt" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
