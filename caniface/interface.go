// Package caniface defines the CAN hardware adapter collaborator that the
// core network model is deliberately decoupled from, a SocketCAN
// implementation of it, and the cyclic-send Scheduler that sits between
// them and a parsed Network.
package caniface

// Interface is the four-operation collaborator a Scheduler drives. It is
// implemented by SocketCANInterface for Linux, and may be implemented by
// any other CAN adapter (a test fake, a different transport).
type Interface interface {
	// Initialize brings the adapter up at the given bus speed in bit/s.
	Initialize(speed uint) error
	// RegisterReceivingMessage tells the adapter that frames with this
	// CAN-ID should be delivered to the receive callback.
	RegisterReceivingMessage(canID uint32) error
	// RegisterReceiveCallback installs the function invoked for every
	// received frame whose CAN-ID was registered.
	RegisterReceiveCallback(fn func(canID uint32, data []byte))
	// SendMessage transmits data under the given CAN-ID.
	SendMessage(canID uint32, data []byte) error
}
