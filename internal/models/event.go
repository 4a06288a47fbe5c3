package models

import (
	"encoding/json"
	"time"
)

// Realtime event types exchanged over the websocket channel.
const (
	EventJoin              = "join"
	EventSendMessage       = "send_message"
	EventNewMessage        = "new_message"
	EventMessageSent       = "message_sent"
	EventTyping            = "typing"
	EventUserTyping        = "user_typing"
	EventUserOnline        = "user_online"
	EventUserOffline       = "user_offline"
	EventSendFriendRequest = "send_friend_request"
	EventNewFriendRequest  = "new_friend_request"
	EventFriendRequestSent = "friend_request_sent"
	EventFriendRequestErr  = "friend_request_error"
	EventRespondFriendReq  = "respond_friend_request"
	EventFriendReqAccepted = "friend_request_accepted"
	EventFriendReqRejected = "friend_request_rejected"
)

// Event is the wire envelope for realtime traffic in both directions.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps a payload into an envelope. Marshal failures are
// programming errors on our own payload types, so they surface as an
// empty data field rather than an error return.
func NewEvent(eventType string, payload any) Event {
	data, _ := json.Marshal(payload)
	return Event{Type: eventType, Data: data}
}

// PresencePayload announces an identity going online or offline.
type PresencePayload struct {
	Identity string `json:"identity"`
}

// TypingPayload is forwarded to the receiver while a sender types.
type TypingPayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// MessageSentPayload acknowledges a send_message event to the sender.
type MessageSentPayload struct {
	Success   bool   `json:"success"`
	MessageID int    `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FriendRequestPayload notifies the recipient of a new pending request.
type FriendRequestPayload struct {
	RequestID int       `json:"requestId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendRequestAckPayload acknowledges a send_friend_request event.
type FriendRequestAckPayload struct {
	Success   bool   `json:"success"`
	RequestID int    `json:"requestId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FriendDecisionPayload notifies a party about an accepted or rejected
// request; Counterpart is the other identity in the pair.
type FriendDecisionPayload struct {
	RequestID   int    `json:"requestId"`
	Counterpart string `json:"counterpart"`
}
