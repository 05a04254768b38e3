// Package network defines the line-oriented wire protocol shared by the
// game server and client.
//
// Every message is a single line shaped like a flat JSON object whose
// values are strings, with at most one level of string-map nesting:
//
//	{"type":"MOVE","gameId":"42","data":{"x":"0","y":"2"}}
//
// Values are written without escaping, so a double quote inside a value
// corrupts the frame. Commas inside quoted strings are fine; board
// coordinates such as "0,2" rely on that.
package network

// MessageType identifies what a message means.
type MessageType string

const (
	// Client to server requests
	MsgRegister          MessageType = "REGISTER"
	MsgLogin             MessageType = "LOGIN"
	MsgListPlayers       MessageType = "LIST_PLAYERS"
	MsgChallenge         MessageType = "CHALLENGE"
	MsgChallengeResponse MessageType = "CHALLENGE_RESPONSE"
	MsgMove              MessageType = "MOVE"
	MsgLogout            MessageType = "LOGOUT"
	MsgRematchRequest    MessageType = "REMATCH_REQUEST"
	MsgRematchResponse   MessageType = "REMATCH_RESPONSE"
	MsgLeaderboard       MessageType = "LEADERBOARD"

	// Server to client responses and events. CHALLENGE, the two
	// response types, REMATCH_REQUEST and LEADERBOARD travel in both
	// directions.
	MsgSuccess              MessageType = "SUCCESS"
	MsgError                MessageType = "ERROR"
	MsgLoginSuccess         MessageType = "LOGIN_SUCCESS"
	MsgPlayersList          MessageType = "PLAYERS_LIST"
	MsgStartGame            MessageType = "START_GAME"
	MsgUpdate               MessageType = "UPDATE"
	MsgResult               MessageType = "RESULT"
	MsgOpponentDisconnected MessageType = "OPPONENT_DISCONNECTED"
)

// Challenge and rematch answer values. Anything other than ACCEPT is
// treated as a rejection.
const (
	ResponseAccept = "ACCEPT"
	ResponseReject = "REJECT"
)

// Message is one protocol frame. Fields holds the flat string values,
// Objects the nested string maps. The two share the wire's key
// namespace; a key must live in exactly one of them.
type Message struct {
	Type    MessageType
	Fields  map[string]string
	Objects map[string]map[string]string
}

// NewMessage creates an empty message of the given type.
func NewMessage(msgType MessageType) *Message {
	return &Message{
		Type:    msgType,
		Fields:  make(map[string]string),
		Objects: make(map[string]map[string]string),
	}
}

// Set stores a flat string field.
func (m *Message) Set(key, value string) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[key] = value
}

// Get retrieves a flat string field, or "" when absent.
func (m *Message) Get(key string) string {
	return m.Fields[key]
}

// SetObject stores a nested string map field.
func (m *Message) SetObject(key string, obj map[string]string) {
	if m.Objects == nil {
		m.Objects = make(map[string]map[string]string)
	}
	m.Objects[key] = obj
}

// Object retrieves a nested string map field, or nil when absent.
func (m *Message) Object(key string) map[string]string {
	return m.Objects[key]
}

// Helper functions for creating common messages

// CreateErrorMessage creates an ERROR message with the given text.
func CreateErrorMessage(text string) *Message {
	msg := NewMessage(MsgError)
	msg.Set("message", text)
	return msg
}

// CreateSuccessMessage creates a SUCCESS message with the given text.
func CreateSuccessMessage(text string) *Message {
	msg := NewMessage(MsgSuccess)
	msg.Set("message", text)
	return msg
}

// CreateAuthMessage creates a REGISTER or LOGIN request.
func CreateAuthMessage(msgType MessageType, username, password string) *Message {
	msg := NewMessage(msgType)
	msg.Set("username", username)
	msg.Set("password", password)
	return msg
}

// CreateChallengeMessage creates a challenge request against opponent.
func CreateChallengeMessage(opponent string) *Message {
	msg := NewMessage(MsgChallenge)
	msg.Set("opponent", opponent)
	return msg
}

// CreateChallengeResponseMessage creates the answer to challenger's
// pending challenge.
func CreateChallengeResponseMessage(challenger, response string) *Message {
	msg := NewMessage(MsgChallengeResponse)
	msg.Set("challenger", challenger)
	msg.Set("response", response)
	return msg
}

// CreateMoveMessage creates a move at row x, column y in the given game.
func CreateMoveMessage(gameID string, x, y string) *Message {
	msg := NewMessage(MsgMove)
	msg.Set("gameId", gameID)
	msg.SetObject("data", map[string]string{"x": x, "y": y})
	return msg
}

// CreateRematchResponseMessage creates the answer to requester's
// pending rematch offer. The requester travels in the "opponent" field.
func CreateRematchResponseMessage(requester, response string) *Message {
	msg := NewMessage(MsgRematchResponse)
	msg.Set("opponent", requester)
	msg.Set("response", response)
	return msg
}
