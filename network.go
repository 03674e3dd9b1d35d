package candb

import "github.com/stefanhoelzl/go-candb/attribute"

// Network is the root of the CAN database: its Nodes send Messages, which
// carry Signals, and it owns the shared ValueTables and attribute
// definitions referenced throughout the tree.
type Network struct {
	Version     string
	Speed       uint
	Nodes       map[string]*Node
	ValueTables map[string]*ValueTable
	Attributes  *attribute.Container
	Description string
}

// NewNetwork creates an empty Network pre-registering the
// GenMsgSendType/GenMsgCycleTime/GenMsgStartDelayTime/GenMsgDelayTime/
// GenSigStartValue attribute definitions that a Scheduler needs to operate
// even on databases that never declare BA_DEF_ lines for them.
func NewNetwork() *Network {
	n := &Network{
		Nodes:       make(map[string]*Node),
		ValueTables: make(map[string]*ValueTable),
		Attributes:  attribute.NewContainer(attribute.ObjectTypeNetwork),
	}

	// String, not an enum: real-world values combine flags such as
	// "Cyclic" and "IfActive" in one space-separated field, which a
	// Scheduler matches by substring rather than exact equality.
	sendType := attribute.NewStringDefinition("GenMsgSendType", attribute.ObjectTypeMessage)
	sendType.SetDefault("NoMsgSendType")
	n.Attributes.AddDefinition(sendType)

	cycleTime := attribute.NewIntDefinition("GenMsgCycleTime", attribute.ObjectTypeMessage, 0, 0)
	cycleTime.SetDefault(0)
	n.Attributes.AddDefinition(cycleTime)

	startDelay := attribute.NewIntDefinition("GenMsgStartDelayTime", attribute.ObjectTypeMessage, 0, 0)
	startDelay.SetDefault(0)
	n.Attributes.AddDefinition(startDelay)

	delayTime := attribute.NewIntDefinition("GenMsgDelayTime", attribute.ObjectTypeMessage, 0, 0)
	delayTime.SetDefault(0)
	n.Attributes.AddDefinition(delayTime)

	sigStart := attribute.NewIntDefinition("GenSigStartValue", attribute.ObjectTypeSignal, 0, 0)
	sigStart.SetDefault(0)
	n.Attributes.AddDefinition(sigStart)

	return n
}

// SetDescription sets the network's free-text description, as parsed from
// a bare CM_ "..."; line.
func (n *Network) SetDescription(desc string) {
	n.Description = desc
}

// AddNode inserts node into the network, replacing any previous node of
// the same name (last write wins) and wiring its attribute parent.
func (n *Network) AddNode(node *Node) {
	node.Attributes.SetParent(n.Attributes)
	n.Nodes[node.Name] = node
}

// AddValueTable registers a named ValueTable for later attachment to
// signals.
func (n *Network) AddValueTable(vt *ValueTable) {
	n.ValueTables[vt.Name] = vt
}

// GetMessage returns the message with the given CAN-ID across all nodes,
// or nil if none sends it.
func (n *Network) GetMessage(canID uint32) *Message {
	for _, node := range n.Nodes {
		if m, ok := node.Messages[canID]; ok {
			return m
		}
	}
	return nil
}

// GetSignal returns the named signal of the message with the given
// CAN-ID, or nil if either the message or the signal does not exist.
func (n *Network) GetSignal(canID uint32, name string) *Signal {
	m := n.GetMessage(canID)
	if m == nil {
		return nil
	}
	return m.Signals[name]
}

// GetConsumedMessages returns every message, across all senders, that
// lists node as a receiver of at least one of its signals.
func (n *Network) GetConsumedMessages(node *Node) []*Message {
	var consumed []*Message
	for _, sender := range n.Nodes {
		for _, m := range sender.Messages {
			if messageReceivedBy(m, node) {
				consumed = append(consumed, m)
			}
		}
	}
	return consumed
}

func messageReceivedBy(m *Message, node *Node) bool {
	for _, s := range m.Signals {
		for _, r := range s.Receivers {
			if r == node {
				return true
			}
		}
	}
	return false
}
