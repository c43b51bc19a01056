// Command quotegen generates one quotation from the command line and prints
// it as JSON.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/observability"
	"github.com/Domenick1991/travelquote/internal/pipeline"
)

type attachFlag []string

func (a *attachFlag) String() string { return strings.Join(*a, ",") }

func (a *attachFlag) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "quotegen:", domain.UserMessage(err))
		fmt.Fprintln(os.Stderr, "detail:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("quotegen", flag.ContinueOnError)
	var (
		cfgPath  = fs.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to config file")
		notes    = fs.String("notes", "", "trip notes; use - to read from stdin")
		out      = fs.String("out", "", "write JSON to this file instead of stdout")
		provider = fs.String("provider", "", "override model provider (gemini, openai, deepseek, mock)")
		attach   attachFlag
	)
	fs.Var(&attach, "attach", "image or PDF to attach (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *provider != "" {
		cfg.Model.Provider = *provider
	}

	text := *notes
	if text == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read notes: %w", err)
		}
		text = string(data)
	}

	attachments, err := readAttachments(attach)
	if err != nil {
		return err
	}

	// stdout carries the quotation JSON.
	logger, err := observability.NewLogger(cfg.Log.Level, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := pipeline.FromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	q, err := generator.Generate(ctx, text, attachments)
	if err != nil {
		return err
	}
	logger.Debug("generated", zap.String("kind", string(q.Kind())))

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}

// loadConfig falls back to defaults when the default config file is absent.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config.yaml" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

func readAttachments(paths []string) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
		att, err := domain.DecodeAttachment(filepath.Base(p), mimeType, base64.StdEncoding.EncodeToString(data))
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
