package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message tags
const (
	TagSubmitCode        = "submit_code"
	TagRunTest           = "run_test"
	TagUpdateCode        = "update_code"
	TagGetSubmissionCode = "get_submission_code"
)

// ErrProtocol marks a malformed payload or a wrong field set. The offender
// gets an error_message reply and the connection stays open.
var ErrProtocol = errors.New("protocol error")

// requiredFields is the exact field set per tag. Extra or missing fields
// reject the whole message; there are no optional fields on this protocol.
var requiredFields = map[string][]string{
	TagSubmitCode:        {"id", "code", "language"},
	TagRunTest:           {"id", "code", "language"},
	TagUpdateCode:        {"id", "code", "language"},
	TagGetSubmissionCode: {"id", "player_nickname"},
}

// Handshake is the first frame a client must send after connecting
type Handshake struct {
	Nickname string `json:"nickname"`
	Token    string `json:"token"`
}

// InboundMessage is one decoded client message. Only the fields belonging to
// its tag are populated.
type InboundMessage struct {
	Tag            string
	Code           string
	Language       string
	PlayerNickname string
}

// DecodeHandshake parses the handshake frame: exactly {nickname, token},
// both non-empty strings.
func DecodeHandshake(data []byte) (*Handshake, error) {
	fields, err := decodeFields(data)
	if err != nil {
		return nil, err
	}

	if err := checkFieldSet(fields, []string{"nickname", "token"}); err != nil {
		return nil, err
	}

	hs := &Handshake{}
	if err := decodeString(fields, "nickname", &hs.Nickname); err != nil {
		return nil, err
	}
	if err := decodeString(fields, "token", &hs.Token); err != nil {
		return nil, err
	}

	if hs.Nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrProtocol)
	}
	if hs.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrProtocol)
	}

	return hs, nil
}

// DecodeInbound parses one tagged client message, enforcing the exact field
// set for its tag
func DecodeInbound(data []byte) (*InboundMessage, error) {
	fields, err := decodeFields(data)
	if err != nil {
		return nil, err
	}

	msg := &InboundMessage{}
	if err := decodeString(fields, "id", &msg.Tag); err != nil {
		return nil, err
	}

	required, known := requiredFields[msg.Tag]
	if !known {
		return nil, fmt.Errorf("%w: unknown message id %q", ErrProtocol, msg.Tag)
	}

	if err := checkFieldSet(fields, required); err != nil {
		return nil, err
	}

	switch msg.Tag {
	case TagSubmitCode, TagRunTest, TagUpdateCode:
		if err := decodeString(fields, "code", &msg.Code); err != nil {
			return nil, err
		}
		if err := decodeString(fields, "language", &msg.Language); err != nil {
			return nil, err
		}
	case TagGetSubmissionCode:
		if err := decodeString(fields, "player_nickname", &msg.PlayerNickname); err != nil {
			return nil, err
		}
	}

	return msg, nil
}

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: wrong message structure", ErrProtocol)
	}
	return fields, nil
}

func checkFieldSet(fields map[string]json.RawMessage, required []string) error {
	if len(fields) != len(required) {
		return fmt.Errorf("%w: wrong message structure", ErrProtocol)
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrProtocol, name)
		}
	}
	return nil
}

func decodeString(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: missing field %q", ErrProtocol, name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %q must be a string", ErrProtocol, name)
	}
	return nil
}
