package main

import (
	"fmt"
	"time"

	"github.com/invariante/zeit/internal/capture/idle"
	"github.com/invariante/zeit/internal/capture/screen"
	"github.com/invariante/zeit/internal/capture/window"
	"github.com/invariante/zeit/internal/classify"
	"github.com/invariante/zeit/internal/llm"
	"github.com/invariante/zeit/internal/platform"
	"github.com/invariante/zeit/internal/store"
	"github.com/invariante/zeit/internal/trace"
	"github.com/invariante/zeit/internal/tracker"
)

const dateLayout = "2006-01-02"

func (c *commandContext) openStore() (*store.Store, error) {
	if err := c.cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	return store.Open(c.cfg.Paths.DataDir, c.log)
}

func (c *commandContext) llmClient() *llm.Client {
	return llm.NewClient(c.cfg.Ollama.Host, c.log)
}

func (c *commandContext) textModel() llm.TextModel {
	return llm.TextModel{
		Client:  c.llmClient(),
		Model:   c.cfg.Models.Text,
		Timeout: c.cfg.Ollama.Timeout(),
	}
}

func (c *commandContext) gate() *tracker.Gate {
	return tracker.NewGate(c.cfg.WorkHours, c.cfg.Paths.StopFlag)
}

// buildRunner assembles the full tick pipeline against the detected
// platform.
func (c *commandContext) buildRunner(s *store.Store) (*tracker.Runner, error) {
	plat, err := platform.Detect()
	if err != nil {
		return nil, err
	}
	if !plat.CanCaptureScreen() {
		return nil, fmt.Errorf("screen capture is not available on %s", plat)
	}
	for _, hint := range plat.CheckRequirements() {
		c.log.Warn().Str("missing", hint).Msg("optional tool not found")
	}

	classifier := classify.New(
		c.llmClient(),
		screen.New(plat, c.log),
		window.New(plat, c.log),
		c.cfg.Models.Vision,
		c.cfg.Models.Text,
		c.cfg.Ollama.Timeout(),
		trace.LogHook{Logger: c.log},
		c.log,
	)

	return tracker.NewRunner(
		c.gate(),
		idle.New(c.log),
		classifier,
		s,
		c.cfg.IdleThreshold(),
		c.log,
	), nil
}

// resolveDate turns "today", "yesterday", an empty argument (today), or
// a YYYY-MM-DD string into a concrete date.
func resolveDate(arg string) (string, error) {
	switch arg {
	case "", "today":
		return time.Now().Format(dateLayout), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1).Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, arg); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD, today, or yesterday", arg)
	}
	return arg, nil
}
