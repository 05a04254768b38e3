package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOrdersKeys(t *testing.T) {
	msg := NewMessage(MsgLogin)
	msg.Set("username", "alice")
	msg.Set("password", "secret")

	encoded := Encode(msg)
	assert.Equal(t, `{"type":"LOGIN","password":"secret","username":"alice"}`, encoded)

	// Same content encodes the same way regardless of insertion order.
	again := NewMessage(MsgLogin)
	again.Set("password", "secret")
	again.Set("username", "alice")
	assert.Equal(t, encoded, Encode(again))
}

func TestEncodeNestedObject(t *testing.T) {
	msg := CreateMoveMessage("g1", "0", "2")
	assert.Equal(t, `{"type":"MOVE","gameId":"g1","data":{"x":"0","y":"2"}}`, Encode(msg))
}

func TestEncodeErrorMessage(t *testing.T) {
	msg := CreateErrorMessage("Not your turn")
	assert.Equal(t, `{"type":"ERROR","message":"Not your turn"}`, Encode(msg))
}

func TestRoundTrip(t *testing.T) {
	update := NewMessage(MsgUpdate)
	update.Set("gameId", "game-7")
	update.Set("currentPlayer", "bob")
	update.SetObject("board", map[string]string{
		"0,0": "X", "0,1": " ", "0,2": "O",
		"1,0": " ", "1,1": "X", "1,2": " ",
		"2,0": " ", "2,1": " ", "2,2": " ",
	})

	result := NewMessage(MsgResult)
	result.Set("gameId", "game-7")
	result.Set("result", "WIN")
	result.SetObject("board", map[string]string{"0,0": "X"})

	players := NewMessage(MsgPlayersList)
	players.Set("players", "alice,bob,carol")

	tests := []struct {
		name string
		msg  *Message
	}{
		{"register", CreateAuthMessage(MsgRegister, "alice", "secret")},
		{"logout", NewMessage(MsgLogout)},
		{"challenge", CreateChallengeMessage("bob")},
		{"challenge response", CreateChallengeResponseMessage("alice", ResponseAccept)},
		{"rematch response", CreateRematchResponseMessage("alice", ResponseReject)},
		{"players list with commas", players},
		{"update with board", update},
		{"result", result},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(Encode(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.msg, decoded)
		})
	}
}

func TestDecodeHandlesAnyKeyOrder(t *testing.T) {
	msg, err := Decode(`{"username":"alice","type":"LOGIN","password":"secret"}`)
	require.NoError(t, err)

	assert.Equal(t, MsgLogin, msg.Type)
	assert.Equal(t, "alice", msg.Get("username"))
	assert.Equal(t, "secret", msg.Get("password"))
}

func TestDecodeBoardCoordinateKeys(t *testing.T) {
	msg, err := Decode(`{"type":"UPDATE","board":{"0,2":"X","1,1":"O"},"currentPlayer":"alice"}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"0,2": "X", "1,1": "O"}, msg.Object("board"))
}

func TestDecodeToleratesSpaces(t *testing.T) {
	msg, err := Decode(`  { "type" : "MOVE" , "gameId" : "g1" , "data" : { "x" : "1" , "y" : "2" } }  `)
	require.NoError(t, err)

	assert.Equal(t, MsgMove, msg.Type)
	assert.Equal(t, map[string]string{"x": "1", "y": "2"}, msg.Object("data"))
}

func TestDecodeWithoutType(t *testing.T) {
	msg, err := Decode(`{"username":"alice"}`)
	require.NoError(t, err)
	assert.Empty(t, msg.Type)

	empty, err := Decode(`{}`)
	require.NoError(t, err)
	assert.Empty(t, empty.Type)
	assert.Empty(t, empty.Fields)
	assert.Empty(t, empty.Objects)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"empty input", ``, ErrMissingBraces},
		{"no braces", `LOGIN alice secret`, ErrMissingBraces},
		{"missing closing brace", `{"type":"LOGIN"`, ErrMissingBraces},
		{"unterminated string", `{"type":"LOGIN}`, ErrUnterminatedString},
		{"missing colon", `{"type" "LOGIN"}`, ErrMissingColon},
		{"unquoted value", `{"type":LOGIN}`, ErrMissingQuote},
		{"unquoted key", `{type:"LOGIN"}`, ErrMissingQuote},
		{"missing comma", `{"a":"1" "b":"2"}`, ErrMissingComma},
		{"object nested too deep", `{"data":{"inner":{"x":"1"}}}`, ErrNestedObject},
		{"unclosed object", `{"data":{"x":"1"}`, ErrUnclosedObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, msg)
		})
	}
}

func TestMessageAccessorsOnZeroValue(t *testing.T) {
	var msg Message

	assert.Empty(t, msg.Get("missing"))
	assert.Nil(t, msg.Object("missing"))

	msg.Set("key", "value")
	assert.Equal(t, "value", msg.Get("key"))

	msg.SetObject("obj", map[string]string{"a": "1"})
	assert.Equal(t, map[string]string{"a": "1"}, msg.Object("obj"))
}
