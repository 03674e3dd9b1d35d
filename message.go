package candb

import (
	"fmt"

	"github.com/stefanhoelzl/go-candb/attribute"
)

// Message is a CAN frame description: an arbitration id, a byte length,
// the Node that sends it, and the Signals packed into its payload.
type Message struct {
	CanID       uint32
	Name        string
	Length      uint
	Sender      *Node
	Signals     map[string]*Signal
	IsActive    bool
	Attributes  *attribute.Container
	Description string
}

// NewMessage creates a Message with no sender and no signals yet.
func NewMessage(canID uint32, name string, length uint) *Message {
	return &Message{
		CanID:      canID,
		Name:       name,
		Length:     length,
		Signals:    make(map[string]*Signal),
		IsActive:   true,
		Attributes: attribute.NewContainer(attribute.ObjectTypeMessage),
	}
}

// AddSignal attaches signal to the message, enforcing layout (no bit
// overlap outside distinct multiplexer groups) and multiplexer coherence
// (at most one multiplexer signal, multiplexed signals only with one set).
// On success the signal's back-reference and attribute parent are wired to
// this message and it is keyed by name.
func (m *Message) AddSignal(signal *Signal) error {
	if signal.message != nil {
		return fmt.Errorf("signal %q already belongs to message %q: %w", signal.Name, signal.message.Name, ErrStructural)
	}
	if !m.signalFits(signal) {
		return fmt.Errorf("signal %q does not fit in message %q layout: %w", signal.Name, m.Name, ErrStructural)
	}
	if !m.multiplexerSettingsValid(signal) {
		return fmt.Errorf("signal %q multiplexer settings are invalid for message %q: %w", signal.Name, m.Name, ErrStructural)
	}

	signal.message = m
	signal.Attributes.SetParent(m.Attributes)
	m.Signals[signal.Name] = signal
	return nil
}

// SetDescription sets the message's free-text description, as parsed from
// a CM_ BO_ line.
func (m *Message) SetDescription(desc string) {
	m.Description = desc
}

// GetMultiplexerSignal returns the message's multiplexer signal, if any.
func (m *Message) GetMultiplexerSignal() *Signal {
	for _, s := range m.Signals {
		if s.IsMultiplexer {
			return s
		}
	}
	return nil
}

// signalFits reports whether new's bit range stays within the message's
// length and does not overlap any existing signal, except that signals in
// distinct non-null multiplexer groups may overlap.
func (m *Message) signalFits(new *Signal) bool {
	if new.LastBit() >= m.Length*8 {
		return false
	}
	for _, existing := range m.Signals {
		if differentMultiplexerGroups(existing, new) {
			continue
		}
		if existing.StartBit <= new.StartBit && new.StartBit <= existing.LastBit() {
			return false
		}
		if new.StartBit <= existing.StartBit && existing.StartBit <= new.LastBit() {
			return false
		}
	}
	return true
}

func differentMultiplexerGroups(a, b *Signal) bool {
	if a.MultiplexerID == nil || b.MultiplexerID == nil {
		return false
	}
	return *a.MultiplexerID != *b.MultiplexerID
}

// multiplexerSettingsValid reports whether adding new would keep the
// message's multiplexer coherence: at most one multiplexer signal, and a
// multiplexer-id-bearing signal may only join a message that already has
// a multiplexer signal.
func (m *Message) multiplexerSettingsValid(new *Signal) bool {
	multiplexer := m.GetMultiplexerSignal()
	if new.MultiplexerID != nil && multiplexer == nil {
		return false
	}
	if new.IsMultiplexer && multiplexer != nil {
		return false
	}
	return true
}

// Pack returns the message's wire payload: the OR (equivalently, sum,
// given non-overlap) of each signal's bits shifted into its start
// position.
func (m *Message) Pack() uint64 {
	var value int64
	for _, s := range m.Signals {
		value |= s.Bits().ToInt() << s.StartBit
	}
	return uint64(value)
}
