package caniface_test

import (
	"testing"

	candb "github.com/stefanhoelzl/go-candb"
	"github.com/stefanhoelzl/go-candb/attribute"
	"github.com/stefanhoelzl/go-candb/caniface"
	"github.com/stretchr/testify/assert"
)

type fakeInterface struct {
	initialized  bool
	registered   []uint32
	sent         map[uint32][]byte
	sendCalls    int
	receiveCb    func(canID uint32, data []byte)
}

func newFakeInterface() *fakeInterface {
	return &fakeInterface{sent: make(map[uint32][]byte)}
}

func (f *fakeInterface) Initialize(speed uint) error {
	f.initialized = true
	return nil
}

func (f *fakeInterface) RegisterReceivingMessage(canID uint32) error {
	f.registered = append(f.registered, canID)
	return nil
}

func (f *fakeInterface) RegisterReceiveCallback(fn func(canID uint32, data []byte)) {
	f.receiveCb = fn
}

func (f *fakeInterface) SendMessage(canID uint32, data []byte) error {
	f.sendCalls++
	f.sent[canID] = data
	return nil
}

func buildCyclicNetwork(t *testing.T, cycleMs int, sendType string, isActive bool) (*candb.Network, *candb.Node, *candb.Node) {
	t.Helper()
	net := candb.NewNetwork()
	sender := candb.NewNode("Sender")
	receiver := candb.NewNode("Receiver")
	net.AddNode(sender)
	net.AddNode(receiver)

	msg := candb.NewMessage(0x100, "Status", 1)
	msg.IsActive = isActive
	assert.NoError(t, sender.AddMessage(msg))

	sig := candb.NewSignal("Speed", 0, 8, true, false, 1, 0, 0, 0, "")
	sig.AddReceiver(receiver)
	assert.NoError(t, msg.AddSignal(sig))
	assert.NoError(t, sig.SetRawValue(42))

	sendTypeAttr, err := attribute.NewAttribute(mustDefinition(net, "GenMsgSendType"), sendType)
	assert.NoError(t, err)
	msg.Attributes.Add(sendTypeAttr)

	cycleAttr, err := attribute.NewAttribute(mustDefinition(net, "GenMsgCycleTime"), cycleMs)
	assert.NoError(t, err)
	msg.Attributes.Add(cycleAttr)

	return net, sender, receiver
}

func mustDefinition(net *candb.Network, name string) *attribute.Definition {
	def, ok := net.Attributes.Definition(name)
	if !ok {
		panic("missing definition " + name)
	}
	return def
}

func TestSchedulerConnectRegistersSenderAndReceiverMessages(t *testing.T) {
	net, sender, receiver := buildCyclicNetwork(t, 100, "Cyclic", true)
	iface := newFakeInterface()
	s := caniface.NewScheduler(net, iface)

	assert.NoError(t, s.Connect([]string{sender.Name, receiver.Name}))
	assert.Contains(t, iface.registered, uint32(0x100))

	// the sender's message was registered for scheduling.
	var registeredCycle uint
	assert.NoError(t, s.Initialize(func(cycleMs uint, send func()) {
		registeredCycle = cycleMs
	}))
	assert.Equal(t, uint(100), registeredCycle)
}

func TestSchedulerInitializeGroupsCyclicMessagesByCycleTime(t *testing.T) {
	net, sender, _ := buildCyclicNetwork(t, 100, "Cyclic", true)
	iface := newFakeInterface()
	s := caniface.NewScheduler(net, iface)
	assert.NoError(t, s.Connect([]string{sender.Name}))

	var registeredCycle uint
	var token func()
	assert.NoError(t, s.Initialize(func(cycleMs uint, send func()) {
		registeredCycle = cycleMs
		token = send
	}))

	assert.Equal(t, uint(100), registeredCycle)
	token()
	assert.Equal(t, 1, iface.sendCalls)
	assert.Equal(t, []byte{42}, iface.sent[0x100])
}

func TestSchedulerSkipsNonCyclicMessages(t *testing.T) {
	net, sender, _ := buildCyclicNetwork(t, 100, "OnChange", true)
	iface := newFakeInterface()
	s := caniface.NewScheduler(net, iface)
	assert.NoError(t, s.Connect([]string{sender.Name}))

	called := false
	assert.NoError(t, s.Initialize(func(cycleMs uint, send func()) {
		called = true
	}))
	assert.False(t, called)
}

func TestSchedulerIfActiveRespectsIsActiveFlag(t *testing.T) {
	net, sender, _ := buildCyclicNetwork(t, 100, "Cyclic IfActive", false)
	iface := newFakeInterface()
	s := caniface.NewScheduler(net, iface)
	assert.NoError(t, s.Connect([]string{sender.Name}))

	var token func()
	assert.NoError(t, s.Initialize(func(cycleMs uint, send func()) {
		token = send
	}))
	token()
	assert.Equal(t, 0, iface.sendCalls)
}
