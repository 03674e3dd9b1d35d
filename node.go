package candb

import (
	"fmt"

	"github.com/stefanhoelzl/go-candb/attribute"
)

// Node is a CAN bus participant: it sends zero or more Messages, keyed by
// CAN-ID.
type Node struct {
	Name        string
	Messages    map[uint32]*Message
	Attributes  *attribute.Container
	Description string
}

// NewNode creates a Node with no messages yet.
func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Messages:   make(map[uint32]*Message),
		Attributes: attribute.NewContainer(attribute.ObjectTypeNode),
	}
}

// SetDescription sets the node's free-text description, as parsed from a
// CM_ BU_ line.
func (n *Node) SetDescription(desc string) {
	n.Description = desc
}

// AddMessage attaches message to the node, failing if the message already
// has a sender. On success the message's Sender back-reference and
// attribute parent are wired to this node and it is keyed by CAN-ID.
func (n *Node) AddMessage(message *Message) error {
	if message.Sender != nil {
		return fmt.Errorf("message %q already has sender %q: %w", message.Name, message.Sender.Name, ErrStructural)
	}
	message.Sender = n
	message.Attributes.SetParent(n.Attributes)
	n.Messages[message.CanID] = message
	return nil
}
