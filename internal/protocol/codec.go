package protocol

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("protocol: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("protocol: nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses a client frame and checks that its type is a known command.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("protocol: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if err := validate.Struct(e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: invalid envelope: %w", err)
	}
	return e, nil
}

// DecodePayload unmarshals and validates env.P. A missing payload decodes to the zero T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) > 0 {
		if err := json.Unmarshal(env.P, &out); err != nil {
			return out, fmt.Errorf("protocol: decode %s payload: %w", env.T, err)
		}
	}
	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("protocol: invalid %s payload: %w", env.T, err)
	}
	return out, nil
}
