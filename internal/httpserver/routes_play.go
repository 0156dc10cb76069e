// internal/httpserver/routes_play.go
//
// GET /play: one WebSocket connection drives one round engine.
//
// Flow:
//   - The ticket (query, bearer or cookie) is verified before upgrading.
//   - A game.Engine is created for the connection and registered in the store.
//   - Client commands (start/restart/input/end) are applied to the engine.
//   - Engine notifications are queued to a per-connection writer goroutine.
//   - On disconnect the engine is closed and unregistered.
//
// Engine callbacks run while the engine holds its lock, so they only enqueue;
// a client that stops reading long enough to fill its queue is dropped.

package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/typerush/internal/game"
	"github.com/robalobadob/typerush/internal/protocol"
	"github.com/robalobadob/typerush/internal/words"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	maxFrameSize = 4 << 10
	sendQueue    = 64
)

// playServer tracks live play connections.
type playServer struct {
	srv      *Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*playClient]struct{}
}

func newPlayServer(s *Server) *playServer {
	p := &playServer{srv: s, clients: make(map[*playClient]struct{})}
	p.upgrader = websocket.Upgrader{CheckOrigin: p.checkOrigin}
	return p
}

// checkOrigin accepts same-host pages, the configured client origin, and
// non-browser clients that send no Origin.
func (p *playServer) checkOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" || o == p.srv.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(o)
	return err == nil && u.Host == r.Host
}

func (p *playServer) handlePlay(w http.ResponseWriter, r *http.Request) {
	pl, err := p.srv.playerFromRequest(r)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid ticket"})
		return
	}

	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}

	sessionID := uuid.NewString()
	c := &playClient{
		conn:   conn,
		player: pl,
		send:   make(chan []byte, sendQueue),
		done:   make(chan struct{}),
		log: log.With().
			Str("session", sessionID).
			Str("player", pl.ID).
			Logger(),
	}
	c.engine = game.New(
		game.WithID(sessionID),
		game.WithPicker(p.srv.picker),
		game.WithObserver(c),
		game.WithLogger(c.log),
	)

	ctx := context.Background()
	if err := p.srv.store.Save(ctx, c.engine); err != nil {
		c.log.Error().Err(err).Msg("register engine")
		_ = conn.Close()
		return
	}
	p.track(c)
	c.log.Info().Str("name", pl.Name).Msg("player connected")

	go c.writePump()
	c.enqueue(protocol.MsgWelcome, protocol.Welcome{
		SessionID:    sessionID,
		PlayerID:     pl.ID,
		Name:         pl.Name,
		RoundSeconds: game.RoundDuration,
	})

	c.readPump()

	c.engine.Close()
	_ = p.srv.store.Delete(ctx, sessionID)
	p.untrack(c)
	c.close()
	c.log.Info().Msg("player disconnected")
}

func (p *playServer) track(c *playClient) {
	p.mu.Lock()
	p.clients[c] = struct{}{}
	p.mu.Unlock()
}

func (p *playServer) untrack(c *playClient) {
	p.mu.Lock()
	delete(p.clients, c)
	p.mu.Unlock()
}

func (p *playServer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// closeAll drops every connection; each handler then cleans up its engine.
func (p *playServer) closeAll() {
	p.mu.Lock()
	all := make([]*playClient, 0, len(p.clients))
	for c := range p.clients {
		all = append(all, c)
	}
	p.mu.Unlock()
	for _, c := range all {
		c.close()
	}
}

// playClient is one WebSocket connection and the engine it drives.
// It implements game.Observer.
type playClient struct {
	conn   *websocket.Conn
	player player
	engine *game.Engine
	log    zerolog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *playClient) OnUpdate(u game.Update) { c.enqueue(protocol.MsgState, u) }

func (c *playClient) OnRoundEnd(r game.Result) {
	c.log.Info().
		Int("score", r.Score).
		Int("wpm", r.WPM).
		Int("accuracy", r.Accuracy).
		Str("difficulty", string(r.Difficulty)).
		Msg("round finished")
	c.enqueue(protocol.MsgRoundEnd, r)
}

// enqueue never blocks.
func (c *playClient) enqueue(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		c.log.Error().Err(err).Str("type", t).Msg("encode frame")
		return
	}
	select {
	case <-c.done:
	case c.send <- b:
	default:
		c.log.Warn().Str("type", t).Msg("send queue full, dropping client")
		c.close()
	}
}

func (c *playClient) sendError(msg string) {
	c.enqueue(protocol.MsgError, protocol.Error{Message: msg})
}

func (c *playClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump applies client commands until the connection fails.
func (c *playClient) readPump() {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("ws read")
			}
			return
		}
		c.handle(msg)
	}
}

func (c *playClient) handle(msg []byte) {
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	switch env.T {
	case protocol.MsgStart, protocol.MsgRestart:
		p, err := protocol.DecodePayload[protocol.Start](env)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		d := words.ParseDifficulty(p.Difficulty)
		if env.T == protocol.MsgRestart {
			c.engine.Restart(d)
			return
		}
		if !c.engine.Start(d) {
			c.sendError("round already running")
		}
	case protocol.MsgInput:
		p, err := protocol.DecodePayload[protocol.Input](env)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if c.engine.HandleInput(p.Text) {
			c.enqueue(protocol.MsgClear, protocol.Clear{})
		}
	case protocol.MsgEnd:
		c.engine.End()
	}
}

// writePump serializes writes and keeps the connection alive with pings.
func (c *playClient) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Debug().Err(err).Msg("ws write")
				c.close()
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}
