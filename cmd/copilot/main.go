// Copilot is an in-car voice command interpreter. It accepts utterances in
// sixteen languages, resolves them to a vehicle intent with parameters,
// answers in the speaker's language and forwards the command to actuation
// services on request.
//
// Usage:
//
//	copilot [flags]
//	copilot --config /path/to/copilot.yaml
//
//	@title			copilot API
//	@version		1.0
//	@description	Multilingual in-car voice command interpreter.
//	@BasePath		/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nadzzz/copilot/internal/action"
	"github.com/nadzzz/copilot/internal/bridge"
	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/health"
	"github.com/nadzzz/copilot/internal/pipeline"
	"github.com/nadzzz/copilot/internal/session"
	"github.com/nadzzz/copilot/internal/translate"
	"github.com/nadzzz/copilot/internal/translate/google"
	"github.com/nadzzz/copilot/internal/translate/libre"
	openaitranslate "github.com/nadzzz/copilot/internal/translate/openai"
	"github.com/nadzzz/copilot/internal/transport"
	grpctransport "github.com/nadzzz/copilot/internal/transport/grpc"
	httptransport "github.com/nadzzz/copilot/internal/transport/http"
	natstransport "github.com/nadzzz/copilot/internal/transport/nats"
	"github.com/nadzzz/copilot/internal/tts/piper"
)

// version is set at build time via ldflags.
var version = "dev"

// service joins the interpreter and the executor behind transport.Service.
type service struct {
	*pipeline.Pipeline
	*action.Executor
}

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("copilot", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Printf("copilot %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("copilot starting", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	healthServer := health.New(cfg.Server.HealthPort)

	translator, err := newTranslator(cfg.Translation)
	if err != nil {
		slog.Error("failed to initialize translator", "error", err)
		os.Exit(1)
	}
	b := bridge.New(translator, cfg.Translation.Canonical, cfg.Translation.Timeout)

	// Session state, optionally mirrored to Redis.
	var mirror session.Mirror
	var restored *session.Snapshot
	if cfg.Session.Redis.Enabled {
		rm, err := session.NewRedisMirror(ctx, cfg.Session.Redis)
		if err != nil {
			slog.Warn("redis mirror unavailable, keeping context in memory only", "error", err)
		} else {
			defer rm.Close()
			mirror = rm
			healthServer.AddCheck("redis", rm.Ping)
			if snap, ok, err := rm.Load(ctx); err != nil {
				slog.Warn("failed to load last context from redis", "error", err)
			} else if ok {
				restored = &snap
			}
		}
	}
	state := session.New(mirror)
	if restored != nil {
		state.Restore(*restored)
		slog.Info("restored last context", "request_id", restored.RequestID, "intent", restored.Intent)
	}

	var opts []pipeline.Option
	if cfg.TTS.Enabled {
		switch cfg.TTS.Backend {
		case "piper":
			synth := piper.New(cfg.TTS.Piper)
			defer synth.Close()
			opts = append(opts, pipeline.WithSynthesizer(synth))
			healthServer.AddCheck("piper", synth.Ping)
			slog.Info("TTS enabled", "backend", "piper", "endpoint", cfg.TTS.Piper.Endpoint)
		default:
			slog.Warn("unknown TTS backend, speech output disabled", "backend", cfg.TTS.Backend)
		}
	}
	p := pipeline.New(b, state, opts...)

	// Initialize enabled transports.
	var transports []transport.Transport
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}
	if cfg.Transports.NATS.Enabled {
		nt := natstransport.New(cfg.Transports.NATS)
		if err := nt.Connect(); err != nil {
			slog.Error("failed to start nats transport", "error", err)
			os.Exit(1)
		}
		healthServer.AddCheck("nats", nt.Ping)
		transports = append(transports, nt)
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled, enable at least one in config")
		os.Exit(1)
	}

	senders := make([]action.Sender, 0, len(transports))
	for _, t := range transports {
		senders = append(senders, t)
	}
	executor := action.New(p, action.TargetsFromConfig(cfg.Targets), senders...)
	svc := &service{Pipeline: p, Executor: executor}

	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, svc); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	healthServer.SetReady(true)
	slog.Info("copilot ready",
		"transports", len(transports),
		"targets", len(cfg.Targets),
		"translation", cfg.Translation.Backend,
		"health_port", cfg.Server.HealthPort)

	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("copilot stopped")
}

// newTranslator builds the configured translation backend. "none" returns a
// nil translator, which makes the bridge pass text through.
func newTranslator(cfg config.TranslationConfig) (translate.Translator, error) {
	if cfg.Backend == "none" {
		slog.Info("translation disabled, commands must be given in the canonical language")
		return nil, nil
	}

	client, err := translate.NewHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	var t translate.Translator
	switch cfg.Backend {
	case "google":
		t = google.New(cfg.Google, client)
	case "libre":
		t = libre.New(cfg.Libre, client)
	case "openai":
		t = openaitranslate.New(cfg.OpenAI, client)
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Backend)
	}
	slog.Info("using translator", "backend", t.Name(), "canonical", cfg.Canonical, "proxy", cfg.Proxy != "")
	return t, nil
}

var _ transport.Service = (*service)(nil)
