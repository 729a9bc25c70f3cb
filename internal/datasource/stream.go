package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// QuoteStream handles a WebSocket connection to a live quote feed.
// The screener uses it to refresh the last traded price and volume of
// subscribed symbols between daily bars.
type QuoteStream struct {
	conn            *websocket.Conn
	apiKey          string
	streamURL       string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []QuoteHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// QuoteHandler is called for each quote received from the stream
type QuoteHandler func(quote Quote) error

// Quote is one tick from the feed
type Quote struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"ltp"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"ts"`
}

type streamEnvelope struct {
	Op     string  `json:"op"`
	Quotes []Quote `json:"quotes,omitempty"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewQuoteStream creates a new quote stream client
func NewQuoteStream(streamURL, apiKey string, logger *logrus.Logger) *QuoteStream {
	return &QuoteStream{
		apiKey:          apiKey,
		streamURL:       streamURL,
		handlers:        make([]QuoteHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop
func (s *QuoteStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	wsURL := fmt.Sprintf("wss://%s/stream", s.streamURL)
	s.logger.WithField("url", wsURL).Info("Connecting to quote stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()
	return nil
}

// Subscribe requests live quotes for the given symbols
func (s *QuoteStream) Subscribe(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to subscribe")
	}

	subMsg := map[string]interface{}{
		"op":        "subscribe",
		"authToken": s.apiKey,
		"symbols":   symbols,
		"heartbeat": true,
	}

	s.logger.WithField("symbols", len(symbols)).Info("Subscribing to quote stream")
	return s.sendMessage(subMsg)
}

// AddHandler registers a quote handler
func (s *QuoteStream) AddHandler(handler QuoteHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection
func (s *QuoteStream) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.logger.WithError(err).Warn("Quote stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		handlers := s.handlers
		s.mu.Unlock()

		var envelope streamEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.logger.WithError(err).Warn("Dropping malformed stream message")
			continue
		}
		if envelope.Op == "heartbeat" {
			continue
		}

		for _, quote := range envelope.Quotes {
			for _, handler := range handlers {
				if err := handler(quote); err != nil {
					s.logger.WithFields(logrus.Fields{
						"symbol": quote.Symbol,
						"error":  err,
					}).Warn("Quote handler failed")
				}
			}
		}
	}
}

// sendMessage sends a JSON message to the stream
func (s *QuoteStream) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *QuoteStream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *QuoteStream) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *QuoteStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	s.isConnected = false
	return s.conn.Close()
}
