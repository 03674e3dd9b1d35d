package caniface

import (
	"fmt"
	"strconv"
	"strings"

	candb "github.com/stefanhoelzl/go-candb"
)

// Scheduler consumes a finished Network and an Interface, registering
// cyclic sends and incoming-frame routing. It never mutates the Network's
// structure, only reads its attributes and toggles nothing beyond what the
// caller does through the model itself.
type Scheduler struct {
	network *candb.Network
	iface   Interface

	registered map[uint32]bool
}

// NewScheduler creates a Scheduler over network, sending and receiving
// through iface.
func NewScheduler(network *candb.Network, iface Interface) *Scheduler {
	return &Scheduler{
		network:    network,
		iface:      iface,
		registered: make(map[uint32]bool),
	}
}

// Connect registers every message sent by the named nodes for scheduling,
// and tells the interface to deliver every message those nodes consume.
func (s *Scheduler) Connect(nodeNames []string) error {
	for _, name := range nodeNames {
		node, ok := s.network.Nodes[name]
		if !ok {
			return fmt.Errorf("caniface: unknown node %q", name)
		}
		for canID := range node.Messages {
			s.registered[canID] = true
		}
		for _, recvMsg := range s.network.GetConsumedMessages(node) {
			if err := s.iface.RegisterReceivingMessage(recvMsg.CanID); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterCycle is the token-redeeming scheduling hook: the caller's timer
// implementation invokes send for every registered cyclic message group at
// its cycle time.
type RegisterCycle func(cycleMs uint, send func())

// Initialize groups every registered cyclic message by its GenMsgCycleTime
// attribute and hands each group to registerCycle.
func (s *Scheduler) Initialize(registerCycle RegisterCycle) error {
	byCycle := make(map[uint][]*candb.Message)
	for canID := range s.registered {
		msg := s.network.GetMessage(canID)
		if msg == nil {
			continue
		}
		cycleMs, ok := s.cyclicCycleTime(msg)
		if !ok {
			continue
		}
		byCycle[cycleMs] = append(byCycle[cycleMs], msg)
	}
	for cycleMs, msgs := range byCycle {
		msgs := msgs
		registerCycle(cycleMs, func() { s.sendMessages(msgs) })
	}
	return nil
}

// cyclicCycleTime returns the message's cycle time and whether it should
// be scheduled at all: GenMsgSendType must mention "Cyclic" and
// GenMsgCycleTime must be positive.
func (s *Scheduler) cyclicCycleTime(msg *candb.Message) (uint, bool) {
	sendType := attrString(msg, "GenMsgSendType")
	if !strings.Contains(sendType, "Cyclic") {
		return 0, false
	}
	cycleAttr, ok := msg.Attributes.Lookup("GenMsgCycleTime")
	if !ok {
		return 0, false
	}
	raw, hasValue := cycleAttr.Value()
	if !hasValue {
		return 0, false
	}
	cycleMs, err := strconv.Atoi(raw)
	if err != nil || cycleMs <= 0 {
		return 0, false
	}
	return uint(cycleMs), true
}

func (s *Scheduler) sendMessages(msgs []*candb.Message) {
	for _, msg := range msgs {
		sendType := attrString(msg, "GenMsgSendType")
		if strings.Contains(sendType, "IfActive") && !msg.IsActive {
			continue
		}
		data := packBytes(msg.Pack(), msg.Length)
		_ = s.iface.SendMessage(msg.CanID, data)
	}
}

func attrString(msg *candb.Message, name string) string {
	attr, ok := msg.Attributes.Lookup(name)
	if !ok {
		return ""
	}
	value, _ := attr.Value()
	return value
}

// packBytes lays out a message's packed integer as little-endian bytes of
// the message's declared length, the wire order SocketCAN frames use.
func packBytes(packed uint64, length uint) []byte {
	data := make([]byte, length)
	for i := uint(0); i < length && i < 8; i++ {
		data[i] = byte(packed >> (8 * i))
	}
	return data
}
