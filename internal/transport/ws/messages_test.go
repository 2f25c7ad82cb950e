package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHandshake(t *testing.T) {
	hs, err := DecodeHandshake([]byte(`{"nickname": "alice", "token": "secret"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", hs.Nickname)
	assert.Equal(t, "secret", hs.Token)
}

func TestDecodeHandshake_Rejections(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing token", `{"nickname": "alice"}`},
		{"missing nickname", `{"token": "secret"}`},
		{"extra field", `{"nickname": "alice", "token": "secret", "extra": 1}`},
		{"empty nickname", `{"nickname": "", "token": "secret"}`},
		{"empty token", `{"nickname": "alice", "token": ""}`},
		{"non-string nickname", `{"nickname": 5, "token": "secret"}`},
		{"not an object", `[1, 2]`},
		{"malformed", `{nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHandshake([]byte(tt.data))
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestDecodeInbound_SubmitCode(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"id": "submit_code", "code": "print(1)", "language": "python"}`))
	require.NoError(t, err)
	assert.Equal(t, TagSubmitCode, msg.Tag)
	assert.Equal(t, "print(1)", msg.Code)
	assert.Equal(t, "python", msg.Language)
}

func TestDecodeInbound_GetSubmissionCode(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"id": "get_submission_code", "player_nickname": "bob"}`))
	require.NoError(t, err)
	assert.Equal(t, TagGetSubmissionCode, msg.Tag)
	assert.Equal(t, "bob", msg.PlayerNickname)
}

func TestDecodeInbound_ExactFieldSets(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown id", `{"id": "dance"}`},
		{"missing id", `{"code": "x", "language": "python"}`},
		{"missing language", `{"id": "update_code", "code": "x"}`},
		{"extra field", `{"id": "run_test", "code": "x", "language": "python", "verbose": true}`},
		{"wrong fields for tag", `{"id": "get_submission_code", "code": "x"}`},
		{"field count matches but wrong names", `{"id": "update_code", "code": "x", "lang": "python"}`},
		{"non-string code", `{"id": "update_code", "code": 42, "language": "python"}`},
		{"non-string id", `{"id": 0, "code": "x", "language": "python"}`},
		{"malformed", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.data))
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestDecodeInbound_AllTagsAccepted(t *testing.T) {
	valid := map[string]string{
		TagSubmitCode:        `{"id": "submit_code", "code": "x", "language": "python"}`,
		TagRunTest:           `{"id": "run_test", "code": "x", "language": "python"}`,
		TagUpdateCode:        `{"id": "update_code", "code": "x", "language": "python"}`,
		TagGetSubmissionCode: `{"id": "get_submission_code", "player_nickname": "bob"}`,
	}

	for tag, data := range valid {
		msg, err := DecodeInbound([]byte(data))
		require.NoError(t, err, tag)
		assert.Equal(t, tag, msg.Tag)
	}
}
