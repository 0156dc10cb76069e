package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// player is the identity carried by a play ticket.
type player struct {
	ID   string
	Name string
}

type sessionReq struct {
	Name string `json:"name"`
}

type sessionResp struct {
	Ticket    string    `json:"ticket"`
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var errInvalidTicket = errors.New("invalid ticket")

// handleSession issues a signed play ticket and stores it in a cookie.
// The body is optional; without a name the player is called guest-XXXXXX.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var body sessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
			return
		}
	}

	id := uuid.NewString()
	name := normalizeName(body.Name)
	if name == "" {
		name = "guest-" + id[:6]
	} else if err := validateName(name); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	tok, exp, err := s.signTicket(player{ID: id, Name: name})
	if err != nil {
		log.Error().Err(err).Msg("sign ticket")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sign_failed"})
		return
	}
	s.setTicketCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, sessionResp{Ticket: tok, PlayerID: id, Name: name, ExpiresAt: exp})
}

// normalizeName trims whitespace.
func normalizeName(n string) string {
	return strings.TrimSpace(n)
}

// validateName enforces basic display name rules.
func validateName(n string) error {
	if len(n) < 3 || len(n) > 24 {
		return errors.New("name must be 3–24 chars")
	}
	for _, r := range n {
		if !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("name: letters, numbers, dash, underscore only")
		}
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// signTicket creates an HS256 JWT with id/name that expires after TicketTTL.
func (s *Server) signTicket(p player) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TicketTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   p.ID,
		"name": p.Name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.TicketSecret))
	return ss, exp, err
}

// parseTicket verifies signature and expiry and returns the player.
func (s *Server) parseTicket(tok string) (player, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TicketSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return player{}, errInvalidTicket
	}
	id, _ := claims["id"].(string)
	name, _ := claims["name"].(string)
	if id == "" || name == "" {
		return player{}, errInvalidTicket
	}
	return player{ID: id, Name: name}, nil
}

// playerFromRequest reads the ticket from ?ticket=, the Authorization header,
// or the ticket cookie, in that order.
func (s *Server) playerFromRequest(r *http.Request) (player, error) {
	tok := r.URL.Query().Get("ticket")
	if tok == "" {
		tok = s.bearerOrCookie(r)
	}
	if tok == "" {
		return player{}, errInvalidTicket
	}
	return s.parseTicket(tok)
}

// setTicketCookie writes the ticket cookie with appropriate security attributes.
func (s *Server) setTicketCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.TicketCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or ticket cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.TicketCookie); err == nil {
		return c.Value
	}
	return ""
}
