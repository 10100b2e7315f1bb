// visionai opens the local webcam, shows the live feed in a window,
// and describes the scene with a local vision model on demand.
//
// Keys: SPACE saves a snapshot and asks the model about it, Q or ESC
// quits. Exits 0 on a clean quit, non-zero on device or resource
// errors.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andlarsen/vision-ai/internal/config"
	"github.com/andlarsen/vision-ai/internal/log"
	"github.com/andlarsen/vision-ai/pkg/analyze"
	"github.com/andlarsen/vision-ai/pkg/capture"
	"github.com/andlarsen/vision-ai/pkg/display"
	"github.com/andlarsen/vision-ai/pkg/overlay"
	"github.com/andlarsen/vision-ai/pkg/pipeline"
	"github.com/andlarsen/vision-ai/pkg/process"
	"github.com/andlarsen/vision-ai/pkg/snapshot"
)

func main() {
	log.Init(config.LogLevel())
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("signal received, shutting down")
		cancel()
	}()

	// Acquisition order: source, fonts, sink. The driver releases them
	// in reverse on teardown.
	capCfg := capture.DefaultConfig()
	capCfg.DeviceIndex = config.DeviceIndex()
	source, err := capture.Open(capCfg)
	if err != nil {
		log.Error("no capture device", "error", err)
		return 1
	}

	fonts, err := overlay.LoadFontDir(config.FontDir())
	if err != nil {
		log.Error("font load failed", "dir", config.FontDir(), "error", err)
		source.Close()
		return 1
	}
	renderer := overlay.NewRenderer(fonts)
	log.Info("fonts loaded", "faces", fonts.Names())

	sink := display.OpenWindow("Vision AI Feed")

	driver := pipeline.New(source, buildProcessor(), renderer, sink, pipelineConfig())

	if provider := buildAnalyzer(ctx); provider != nil {
		photos, err := snapshot.NewStore(config.PhotoDir())
		if err != nil {
			log.Warn("photo dir unavailable, snapshots disabled", "error", err)
		}
		driver.AttachAnalyzer(provider, photos)
		defer provider.Close()
	}

	log.Info("system online", "keys", "SPACE=analyze Q=quit")
	if err := driver.Run(ctx); err != nil {
		return 1
	}
	return 0
}

func buildProcessor() process.Processor {
	switch config.Filter() {
	case "grayscale":
		return process.Grayscale()
	case "blur":
		return process.BoxBlur()
	case "", "none":
		return process.Identity()
	default:
		log.Warn("unknown filter, using none", "filter", config.Filter())
		return process.Identity()
	}
}

func pipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.AsyncCapture = config.AsyncCapture()
	return cfg
}

// buildAnalyzer connects to the local model server. Analysis is an
// enhancement: if the server is unreachable the app still runs, it
// just cannot describe snapshots.
func buildAnalyzer(ctx context.Context) analyze.Provider {
	client, err := analyze.NewClient(
		analyze.WithBaseURL(config.OllamaHost()+"/v1"),
		analyze.WithModel(config.Model()),
		analyze.WithLogger(log.L()),
	)
	if err != nil {
		log.Warn("analyzer disabled", "error", err)
		return nil
	}
	if err := client.Health(ctx); err != nil {
		log.Warn("model server unreachable, analysis disabled",
			"host", config.OllamaHost(), "error", err)
		client.Close()
		return nil
	}
	log.Info("model server ready", "host", config.OllamaHost(), "model", config.Model())
	return client
}
