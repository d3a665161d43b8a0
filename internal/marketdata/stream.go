package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultStreamURL is the Alpaca real-time stream endpoint for the IEX feed.
const DefaultStreamURL = "wss://stream.data.alpaca.markets/v2/iex"

// StreamConfig configures stream client behavior.
type StreamConfig struct {
	// URL is the websocket endpoint.
	URL string
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		URL:               DefaultStreamURL,
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// TradeStream maintains a websocket subscription to real-time trades and
// tracks the last traded price per symbol. Used to follow intraday fill
// progress of gaps detected in the morning scan.
type TradeStream struct {
	keyID     string
	secretKey string
	config    StreamConfig
	symbols   []string

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	prices   map[string]float64
	pricesMu sync.RWMutex

	reconnecting atomic.Bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewTradeStream connects, authenticates, and subscribes to trades for the
// given symbols. The returned stream keeps itself connected until Close.
func NewTradeStream(ctx context.Context, keyID, secretKey string, symbols []string, config *StreamConfig) (*TradeStream, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &TradeStream{
		keyID:     keyID,
		secretKey: secretKey,
		config:    cfg,
		symbols:   append([]string(nil), symbols...),
		prices:    make(map[string]float64),
		done:      make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	return s, nil
}

// LastPrice returns the most recent traded price seen for a symbol.
// The second return is false if no trade has been observed yet.
func (s *TradeStream) LastPrice(symbol string) (float64, bool) {
	s.pricesMu.RLock()
	defer s.pricesMu.RUnlock()

	price, ok := s.prices[symbol]
	return price, ok
}

// Close closes the websocket connection.
func (s *TradeStream) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

// connect dials the endpoint, authenticates, and subscribes.
func (s *TradeStream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.config.URL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	auth := streamRequest{
		Action: "auth",
		Key:    s.keyID,
		Secret: s.secretKey,
	}
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		return fmt.Errorf("write auth: %w", err)
	}

	sub := streamRequest{
		Action: "subscribe",
		Trades: s.symbols,
	}
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("write subscribe: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// readLoop reads messages and tracks trade prices, reconnecting on error.
func (s *TradeStream) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect waits and re-establishes the connection and subscription.
func (s *TradeStream) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		log.Printf("[stream] reconnect failed: %v", err)
	}
}

// handleMessage processes one websocket frame. Alpaca delivers frames as
// JSON arrays of typed messages.
func (s *TradeStream) handleMessage(message []byte) {
	var msgs []streamMessage
	if err := json.Unmarshal(message, &msgs); err != nil {
		return
	}

	for _, m := range msgs {
		switch m.Type {
		case "t":
			if m.Symbol == "" {
				continue
			}
			s.pricesMu.Lock()
			s.prices[m.Symbol] = m.Price
			s.pricesMu.Unlock()
		case "error":
			log.Printf("[stream] error message: code=%d msg=%s", m.Code, m.Message)
		}
	}
}

// Stream message types

type streamRequest struct {
	Action string   `json:"action"`
	Key    string   `json:"key,omitempty"`
	Secret string   `json:"secret,omitempty"`
	Trades []string `json:"trades,omitempty"`
}

type streamMessage struct {
	Type    string  `json:"T"`
	Symbol  string  `json:"S,omitempty"`
	Price   float64 `json:"p,omitempty"`
	Size    int64   `json:"s,omitempty"`
	Code    int     `json:"code,omitempty"`
	Message string  `json:"msg,omitempty"`
}
