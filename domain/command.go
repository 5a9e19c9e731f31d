package domain

// Commands are built by the transport layer from an inbound request.
// Identity is the caller's claimed display name.

type JoinCommand struct {
	Name string
}

type HeartbeatCommand struct {
	Identity string
}

type PostMessageCommand struct {
	Identity string
	To       string
	Text     string
	Type     MessageType
}

// ListMessagesCommand carries an optional trailing window, nil means unrestricted.
type ListMessagesCommand struct {
	Identity string
	Limit    *int
}

type EditMessageCommand struct {
	ID       string
	Identity string
	To       string
	Text     string
	Type     MessageType
}

type DeleteMessageCommand struct {
	ID       string
	Identity string
}
