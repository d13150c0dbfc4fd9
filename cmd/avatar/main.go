package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrianliechti/avatar/config"
	"github.com/adrianliechti/avatar/pkg/avatar"
	"github.com/adrianliechti/avatar/pkg/otel"
)

var version = "dev"

// defaultInput is wrapped in ssml for the selected voice.
const defaultInput = "مرحبا, أنا أعربلي, مساعدك الذكي للإعراب"

func main() {
	configFlag := flag.String("config", "", "config file (environment only when empty)")
	synthesizerFlag := flag.String("synthesizer", "", "synthesizer id")
	inputFlag := flag.String("input", defaultInput, "text or ssml to synthesize")
	voiceFlag := flag.String("voice", "", "voice name")
	protocolFlag := flag.String("otlp-protocol", "", "otlp exporter protocol (grpc or http/protobuf)")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo

	if otel.EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	// a single job finishes in minutes, so export metrics more often than the sdk default
	shutdown, err := otel.Setup(ctx, "avatar", version,
		otel.WithProtocol(*protocolFlag),
		otel.WithMetricInterval(10*time.Second),
	)

	if err != nil {
		slog.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}

	url, err := run(ctx, *configFlag, *synthesizerFlag, *inputFlag, *voiceFlag)

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := shutdown(flushCtx); err != nil {
		slog.Warn("failed to flush telemetry", "error", err)
	}

	if err != nil {
		slog.Error("batch avatar synthesis failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Avatar synthesis result URL: " + url)
}

func run(ctx context.Context, path, id, input, voice string) (string, error) {
	cfg, err := loadConfig(path)

	if err != nil {
		return "", err
	}

	p, err := cfg.Synthesizer(id)

	if err != nil {
		return "", err
	}

	result, err := p.Synthesize(ctx, input, &avatar.SynthesizeOptions{
		Voice: voice,
	})

	if err != nil {
		return "", err
	}

	slog.Info("batch avatar synthesis finished", "id", result.ID, "outcome", result.Outcome, "status", result.Status, "polls", result.Polls)

	return result.URL.OrElse("<none>"), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnvironment()
	}

	return config.Parse(path)
}
