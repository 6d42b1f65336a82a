package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string

	STTURL string

	LLMBaseURL string
	LLMModel   string

	CalendarURL string
	MailURL     string
	TTSURL      string

	GoogleAccessToken string

	TimeZone *time.Location
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	sttURL := os.Getenv("STT_URL")
	if sttURL == "" {
		log.Println("Warning: STT_URL not set - voice capture will not work")
	}

	llmBase := os.Getenv("LLM_BASE_URL")
	if llmBase == "" {
		llmBase = "http://localhost:11434"
	}
	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = "llama3.1"
	}

	calendarURL := os.Getenv("CALENDAR_URL")
	mailURL := os.Getenv("MAIL_URL")
	ttsURL := os.Getenv("TTS_URL")
	if ttsURL == "" {
		log.Println("Warning: TTS_URL not set - spoken replies are disabled")
	}

	accessToken := os.Getenv("GOOGLE_ACCESS_TOKEN")
	if accessToken == "" {
		log.Println("Warning: GOOGLE_ACCESS_TOKEN not set - calendar and email will not work")
	}

	tzName := os.Getenv("TIME_ZONE")
	loc := time.Local
	if tzName != "" {
		l, err := time.LoadLocation(tzName)
		if err != nil {
			log.Printf("Warning: invalid TIME_ZONE %q, using local time", tzName)
		} else {
			loc = l
		}
	}

	log.Printf("config: HTTP_ADDRESS=%s LLM_MODEL=%s", addr, llmModel)
	return Config{
		HTTPAddress:       addr,
		STTURL:            sttURL,
		LLMBaseURL:        llmBase,
		LLMModel:          llmModel,
		CalendarURL:       calendarURL,
		MailURL:           mailURL,
		TTSURL:            ttsURL,
		GoogleAccessToken: accessToken,
		TimeZone:          loc,
	}
}
