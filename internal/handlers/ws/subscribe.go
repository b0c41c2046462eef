package ws

// MessageSubscribe asks the hub to deliver a channel's events to this
// connection. Clients subscribe to the channel they are viewing and to the
// parent channel of any open thread panel.
type MessageSubscribe struct {
	ChannelID string `json:"channel_id"`
}

func (msg *MessageSubscribe) GetType() string {
	return "subscribe"
}

func (msg *MessageSubscribe) Process(ctx *MessageContext) error {
	if msg.ChannelID == "" {
		return SendError(ctx.Conn, "missing_channel", "channel_id is required", "")
	}
	ctx.Hub.Subscribe(ctx.UserID, msg.ChannelID)
	return ctx.Conn.WriteJSON(map[string]string{
		"type":       "subscribed",
		"channel_id": msg.ChannelID,
	})
}

// MessageUnsubscribe stops channel event delivery for this connection.
type MessageUnsubscribe struct {
	ChannelID string `json:"channel_id"`
}

func (msg *MessageUnsubscribe) GetType() string {
	return "unsubscribe"
}

func (msg *MessageUnsubscribe) Process(ctx *MessageContext) error {
	if msg.ChannelID == "" {
		return SendError(ctx.Conn, "missing_channel", "channel_id is required", "")
	}
	ctx.Hub.Unsubscribe(ctx.UserID, msg.ChannelID)
	return nil
}
