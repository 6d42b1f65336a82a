package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/nirazp1/asha/internal/assistant"
	"github.com/nirazp1/asha/internal/calendar"
	"github.com/nirazp1/asha/internal/chat"
	"github.com/nirazp1/asha/internal/config"
	"github.com/nirazp1/asha/internal/httpserver"
	"github.com/nirazp1/asha/internal/llm"
	"github.com/nirazp1/asha/internal/mail"
	"github.com/nirazp1/asha/internal/pipeline"
	"github.com/nirazp1/asha/internal/speech"
	"github.com/nirazp1/asha/internal/stt"
	"github.com/nirazp1/asha/internal/style"
)

var (
	addrFlag = pflag.String("addr", "", "HTTP listen address (overrides HTTP_ADDRESS)")
	muteFlag = pflag.Bool("mute", false, "synthesize speech but skip audio playback")
	noVoice  = pflag.Bool("no-voice", false, "disable the voice capture pipeline")
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	pflag.Parse()

	cfg := config.Load()
	if *addrFlag != "" {
		cfg.HTTPAddress = *addrFlag
	}

	store := chat.NewStore()
	indicator := chat.NewIndicator()

	model := llm.NewOllamaClient(cfg.LLMBaseURL, cfg.LLMModel)
	calClient := calendar.NewClient(cfg.CalendarURL, cfg.GoogleAccessToken)
	mailClient := mail.NewClient(cfg.MailURL, cfg.GoogleAccessToken)

	var speaker assistant.Speaker
	var speakerState pipeline.SpeakerState
	if cfg.TTSURL != "" {
		var player speech.Player = speech.NewBeepPlayer()
		if *muteFlag {
			player = speech.NopPlayer{}
		}
		sp := speech.NewSpeaker(speech.NewTTSClient(cfg.TTSURL), player, nil, indicator.SetSpeaking)
		speaker = sp
		speakerState = sp
	}

	responder := assistant.NewResponder(model, calClient, mailClient, speaker, store, style.NewStyler(nil)).
		WithLocation(cfg.TimeZone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go indicator.Run(ctx)

	var state httpserver.StateSource
	if cfg.STTURL != "" && !*noVoice {
		p := pipeline.New(stt.NewRecognizer(cfg.STTURL), responder, speakerState, indicator.SetListening)
		state = p
		go func() {
			if err := p.Run(ctx); err != nil {
				log.Printf("voice pipeline disabled: %v", err)
			}
		}()
	}

	srv := httpserver.New(store, indicator, state, responder)

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- srv.Start(cfg.HTTPAddress)
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
