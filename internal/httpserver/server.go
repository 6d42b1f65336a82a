package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nirazp1/asha/internal/chat"
	"github.com/nirazp1/asha/internal/pipeline"
)

// Responder generates a reply for a typed message.
type Responder interface {
	Respond(ctx context.Context, query string) string
	StyleContext() (emotion, voiceStyle string)
}

// StateSource exposes the voice pipeline's observable state.
type StateSource interface {
	Snapshot() pipeline.Snapshot
}

// Server bundles the HTTP API and its dependencies.
type Server struct {
	e         *echo.Echo
	store     *chat.Store
	indicator *chat.Indicator
	state     StateSource
	responder Responder
}

// New constructs the HTTP server with routes. state may be nil when the
// voice pipeline is disabled.
func New(store *chat.Store, indicator *chat.Indicator, state StateSource, responder Responder) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{e: e, store: store, indicator: indicator, state: state, responder: responder}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")
	api.GET("/state", s.handleState)
	api.GET("/chats", s.handleListChats)
	api.POST("/chats", s.handleNewChat)
	api.POST("/chats/:id/activate", s.handleActivateChat)
	api.POST("/message", s.handleMessage)
	api.POST("/toggles/dark", s.handleToggleDark)
	api.POST("/toggles/sidebar", s.handleToggleSidebar)
	api.POST("/toggles/transcript", s.handleShowTranscript)

	return s
}

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error { return s.e.Start(addr) }

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

type stateResponse struct {
	Pipeline       pipeline.Snapshot   `json:"pipeline"`
	Indicator      chat.IndicatorState `json:"indicator"`
	ActiveChatID   string              `json:"activeChatId"`
	DarkMode       bool                `json:"darkMode"`
	SidebarOpen    bool                `json:"sidebarOpen"`
	ShowTranscript bool                `json:"showTranscript"`
	Emotion        string              `json:"emotion"`
	VoiceStyle     string              `json:"voiceStyle"`
}

func (s *Server) handleState(c echo.Context) error {
	var resp stateResponse
	if s.state != nil {
		resp.Pipeline = s.state.Snapshot()
	}
	if s.indicator != nil {
		resp.Indicator = s.indicator.State()
	}
	resp.ActiveChatID = s.store.Active().ID
	resp.DarkMode, resp.SidebarOpen, resp.ShowTranscript = s.store.Flags()
	if s.responder != nil {
		resp.Emotion, resp.VoiceStyle = s.responder.StyleContext()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListChats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Conversations())
}

func (s *Server) handleNewChat(c echo.Context) error {
	return c.JSON(http.StatusCreated, s.store.NewConversation())
}

func (s *Server) handleActivateChat(c echo.Context) error {
	s.store.Switch(c.Param("id"))
	return c.JSON(http.StatusOK, s.store.Active())
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply     string `json:"reply"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// handleMessage answers a typed message. Re-sending the exact text of the
// previous user turn returns the stored reply instead of generating again.
func (s *Server) handleMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	if reply, ok := s.lastReplyFor(text); ok {
		return c.JSON(http.StatusOK, messageResponse{Reply: reply, Duplicate: true})
	}

	reply := s.responder.Respond(c.Request().Context(), text)
	return c.JSON(http.StatusOK, messageResponse{Reply: reply})
}

// lastReplyFor reports the stored reply when text repeats the previous user
// turn of the active conversation.
func (s *Server) lastReplyFor(text string) (string, bool) {
	turns := s.store.LastTurns(2)
	if len(turns) != 2 {
		return "", false
	}
	if turns[0].Role != chat.RoleUser || turns[1].Role != chat.RoleAI {
		return "", false
	}
	if !strings.EqualFold(strings.TrimSpace(turns[0].Content), text) {
		return "", false
	}
	return turns[1].Content, true
}

func (s *Server) handleToggleDark(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"darkMode": s.store.ToggleDarkMode()})
}

func (s *Server) handleToggleSidebar(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"sidebarOpen": s.store.ToggleSidebar()})
}

type transcriptRequest struct {
	Show bool `json:"show"`
}

func (s *Server) handleShowTranscript(c echo.Context) error {
	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	s.store.SetShowTranscript(req.Show)
	return c.JSON(http.StatusOK, map[string]bool{"showTranscript": req.Show})
}
