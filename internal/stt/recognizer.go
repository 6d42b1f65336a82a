package stt

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrCodeAborted is the error code the service sends for an intentional
// abort; callers treat it as a stop rather than a failure.
const ErrCodeAborted = "aborted"

// Recognizer is a client for a streaming speech-recognition session over
// WebSocket. The service pushes transcript fragments as the user speaks;
// Start/Stop toggle recognition inside one connection.
type Recognizer struct {
	url string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	transcripts chan string
	errs        chan string
	ends        chan struct{}
	stopCh      chan struct{}
	closeOnce   sync.Once
}

// serverMessage is the wire format pushed by the recognition service.
type serverMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript,omitempty"`
	Final      bool   `json:"final,omitempty"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// controlMessage starts or stops recognition within the session.
type controlMessage struct {
	Type string `json:"type"`
}

func NewRecognizer(url string) *Recognizer {
	return &Recognizer{
		url:         url,
		transcripts: make(chan string, 100),
		errs:        make(chan string, 10),
		ends:        make(chan struct{}, 10),
		stopCh:      make(chan struct{}),
	}
}

// Connect dials the recognition service and starts the read loop. A dial
// failure here means the engine is unavailable; callers disable the voice
// pipeline and carry on.
func (r *Recognizer) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connected {
		return nil
	}
	if r.url == "" {
		return fmt.Errorf("recognizer url is empty")
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(r.url, nil)
	if err != nil {
		return fmt.Errorf("dial recognition service: %w", err)
	}
	r.conn = conn
	r.connected = true
	go r.readLoop(conn)
	log.Printf("stt: connected to %s", r.url)
	return nil
}

// Start begins a recognition session.
func (r *Recognizer) Start() error { return r.send("start") }

// Stop ends the current recognition session without closing the connection.
func (r *Recognizer) Stop() error { return r.send("stop") }

func (r *Recognizer) send(typ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.connected {
		return fmt.Errorf("recognizer not connected")
	}
	return r.conn.WriteJSON(controlMessage{Type: typ})
}

// Transcripts delivers interim and final transcript fragments.
func (r *Recognizer) Transcripts() <-chan string { return r.transcripts }

// Errors delivers recognition error codes.
func (r *Recognizer) Errors() <-chan string { return r.errs }

// Ends signals that a recognition session ended on the service side.
func (r *Recognizer) Ends() <-chan struct{} { return r.ends }

func (r *Recognizer) readLoop(conn *websocket.Conn) {
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-r.stopCh:
			default:
				log.Printf("stt: read error: %v", err)
				r.deliverEnd()
			}
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("stt: bad message: %v", err)
			continue
		}
		switch msg.Type {
		case "transcript":
			if msg.Transcript != "" {
				select {
				case r.transcripts <- msg.Transcript:
				default:
					// drop when the consumer lags; newer fragments supersede
				}
			}
		case "end":
			r.deliverEnd()
		case "error":
			code := msg.Code
			if code == "" {
				code = msg.Error
			}
			select {
			case r.errs <- code:
			default:
			}
		}
	}
}

func (r *Recognizer) deliverEnd() {
	select {
	case r.ends <- struct{}{}:
	default:
	}
}

// Close tears the connection down and stops the read loop.
func (r *Recognizer) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.stopCh)
		r.mu.Lock()
		if r.conn != nil {
			err = r.conn.Close()
		}
		r.connected = false
		r.mu.Unlock()
	})
	return err
}
