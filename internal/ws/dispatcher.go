package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"relay-service/internal/models"
	"relay-service/internal/observability"
	"relay-service/internal/presence"
	"relay-service/internal/services"
)

// Dispatcher binds inbound realtime events to the relay components and
// routes acknowledgments back over the originating connection. Each
// connection's events are handled sequentially by its own read loop;
// connections run concurrently with each other.
type Dispatcher struct {
	registry *presence.Registry
	messages *services.MessageService
	friends  *services.FriendService
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(registry *presence.Registry, messages *services.MessageService, friends *services.FriendService) *Dispatcher {
	return &Dispatcher{registry: registry, messages: messages, friends: friends}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type sendMessageRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Payload  string `json:"payload"`
}

type friendRequestRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type respondRequest struct {
	RequestID int    `json:"requestId"`
	Decision  string `json:"decision"`
	Requester string `json:"requester,omitempty"`
}

// Handle upgrades the connection and starts its event loop.
func (d *Dispatcher) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("relay-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	client := newClient(conn)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	d.publishLifecycle(ctx, "ws_connect", "", info, "")

	// The request context is canceled as soon as this handler returns, but
	// the connection and its store calls live on. Detach before spawning.
	go d.readLoop(context.WithoutCancel(ctx), client, info)
}

func (d *Dispatcher) readLoop(ctx context.Context, client *Client, info ConnInfo) {
	var closeReason string
	defer func() {
		// A stale connection that was already superseded by a newer join
		// must not evict the newer binding; Unregister handles that.
		identity, _ := d.registry.Unregister(client)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		d.publishLifecycle(ctx, "ws_disconnect", identity, info, closeReason)
		client.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				d.publishLifecycle(ctx, "ws_error", "", info, closeReason)
			}
			return
		}

		var event models.Event
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("ws: dropping malformed frame conn_id=%s: %v", info.ConnID, err)
			continue
		}
		d.dispatch(ctx, client, event)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, client *Client, event models.Event) {
	observability.IncWSEvent(event.Type)

	switch event.Type {
	case models.EventJoin:
		var payload models.PresencePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.Identity == "" {
			log.Printf("ws: join without identity, ignoring")
			return
		}
		prev, superseded := d.registry.Register(payload.Identity, client)
		if superseded && prev != presence.Conn(client) {
			// Kick the replaced session so its read loop ends; its late
			// disconnect is then a registry no-op.
			prev.Close()
		}

	case models.EventSendMessage:
		var payload sendMessageRequest
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			d.ack(client, models.EventMessageSent, models.MessageSentPayload{Success: false, Error: "invalid payload"})
			return
		}
		msg, err := d.messages.Send(ctx, payload.Sender, payload.Receiver, payload.Payload)
		if err != nil {
			d.ack(client, models.EventMessageSent, models.MessageSentPayload{Success: false, Error: clientError(err)})
			return
		}
		d.ack(client, models.EventMessageSent, models.MessageSentPayload{Success: true, MessageID: msg.ID})

	case models.EventTyping:
		var payload models.TypingPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return
		}
		d.messages.Typing(payload.Sender, payload.Receiver, payload.IsTyping)

	case models.EventSendFriendRequest:
		var payload friendRequestRequest
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			d.ack(client, models.EventFriendRequestErr, models.FriendRequestAckPayload{Success: false, Error: "invalid payload"})
			return
		}
		rel, err := d.friends.SendRequest(ctx, payload.From, payload.To, true)
		if err != nil {
			d.ack(client, models.EventFriendRequestErr, models.FriendRequestAckPayload{Success: false, Error: clientError(err)})
			return
		}
		d.ack(client, models.EventFriendRequestSent, models.FriendRequestAckPayload{Success: true, RequestID: rel.ID})

	case models.EventRespondFriendReq:
		var payload respondRequest
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			d.ack(client, models.EventFriendRequestErr, models.FriendRequestAckPayload{Success: false, Error: "invalid payload"})
			return
		}
		// On success the responder gets no ack on this connection. Accepting
		// pushes friend_request_accepted to both parties through the registry;
		// rejecting notifies only the requester.
		if _, err := d.friends.Respond(ctx, payload.RequestID, payload.Decision); err != nil {
			d.ack(client, models.EventFriendRequestErr, models.FriendRequestAckPayload{Success: false, RequestID: payload.RequestID, Error: clientError(err)})
		}

	default:
		log.Printf("ws: unknown event type %q", event.Type)
	}
}

func (d *Dispatcher) ack(client *Client, eventType string, payload any) {
	if err := client.WriteJSON(models.NewEvent(eventType, payload)); err != nil {
		log.Printf("ws: ack write error: %v", err)
	}
}

func (d *Dispatcher) publishLifecycle(ctx context.Context, name, identity string, info ConnInfo, reason string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       name,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"username":  identity,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
	_ = observability.PublishEvent(ctx, "ws_events.relay", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload:   payload,
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

// clientError maps service errors to acknowledgment text. Anything outside
// the known taxonomy is a store-side failure and stays generic.
func clientError(err error) string {
	for _, known := range []error{
		services.ErrMissingFields,
		services.ErrSelfRequest,
		services.ErrInvalidDecision,
		services.ErrUserNotFound,
		services.ErrRequestNotFound,
		services.ErrDuplicateRequest,
		services.ErrAlreadyFriends,
		services.ErrReversePending,
		services.ErrNotPending,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}
