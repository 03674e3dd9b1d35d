package caniface

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/stefanhoelzl/go-candb/internal/utils"
	"golang.org/x/sys/unix"
)

const readTimeout = 200 * time.Millisecond

const canRawProtocol = 1

const (
	// canIDMask extracts the 29 arbitration bits from a socketCAN frame id.
	canIDMask = uint32(0x1FFFFFFF)
	// canIDERRFlag is bit 29: error message frame.
	canIDERRFlag = uint32(1 << 29)
	// canIDRTRFlag is bit 30: remote transmission request frame.
	canIDRTRFlag = uint32(1 << 30)
	// canIDEFFFlag is bit 31: extended (29 bit) identifier.
	canIDEFFFlag = uint32(1 << 31)
)

// SocketCANInterface implements Interface over a Linux SocketCAN raw
// AF_CAN socket. It frames plain CAN-ID + up-to-8-byte payloads, not the
// 29-bit PGN-encoded arbitration field of NMEA2000.
type SocketCANInterface struct {
	ifName   string
	socketFD int

	// DebugLogRawFrames, when set, prints every sent and received frame's
	// raw bytes to stdout.
	DebugLogRawFrames bool

	mu              sync.Mutex
	receivingIDs    map[uint32]bool
	receiveCallback func(canID uint32, data []byte)

	cancel context.CancelFunc
}

// NewSocketCANInterface creates an interface bound to a SocketCAN network
// device (e.g. "can0") once Initialize is called.
func NewSocketCANInterface(ifName string) *SocketCANInterface {
	return &SocketCANInterface{
		ifName:       ifName,
		socketFD:     -1,
		receivingIDs: make(map[uint32]bool),
	}
}

// Initialize opens and binds the raw CAN socket and starts the background
// receive loop. speed is accepted for Interface parity but is not applied
// here: SocketCAN bitrate is a property of the network device, configured
// outside this process (`ip link set ... type can bitrate ...`).
func (d *SocketCANInterface) Initialize(speed uint) error {
	ifi, err := net.InterfaceByName(d.ifName)
	if err != nil {
		return fmt.Errorf("caniface: bad interface %q: %w", d.ifName, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, canRawProtocol)
	if err != nil {
		return fmt.Errorf("caniface: could not create CAN socket: %w", err)
	}
	addr := &unix.SockaddrCAN{Ifindex: ifi.Index}
	if err := unix.Bind(fd, addr); err != nil {
		return fmt.Errorf("caniface: could not bind CAN socket: %w", err)
	}
	d.socketFD = fd

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go d.readLoop(ctx)
	return nil
}

// Close stops the receive loop and closes the socket.
func (d *SocketCANInterface) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.socketFD < 0 {
		return nil
	}
	return unix.Close(d.socketFD)
}

// RegisterReceivingMessage marks canID as one the receive loop should
// deliver to the receive callback.
func (d *SocketCANInterface) RegisterReceivingMessage(canID uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.receivingIDs[canID] = true
	return nil
}

// RegisterReceiveCallback installs fn as the handler for registered
// incoming frames.
func (d *SocketCANInterface) RegisterReceiveCallback(fn func(canID uint32, data []byte)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.receiveCallback = fn
}

// SendMessage writes data under canID as an extended-frame CAN frame.
func (d *SocketCANInterface) SendMessage(canID uint32, data []byte) error {
	frame := make([]byte, 16)
	binary.LittleEndian.PutUint32(frame[0:4], canID|canIDEFFFlag)
	frame[4] = byte(len(data))
	copy(frame[8:], data)

	if d.DebugLogRawFrames {
		fmt.Printf("# DEBUG caniface sending frame id=%#x bytes=`%v`\n", canID, utils.FormatSpaces(frame))
	}

	_, err := unix.Write(d.socketFD, frame)
	return err
}

func (d *SocketCANInterface) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		timeout := unix.NsecToTimeval(readTimeout.Nanoseconds())
		if err := unix.SetsockoptTimeval(d.socketFD, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &timeout); err != nil {
			return
		}

		frame := make([]byte, 16)
		if _, err := unix.Read(d.socketFD, frame); err != nil {
			if isContinuableSocketErr(err) {
				continue
			}
			return
		}

		if d.DebugLogRawFrames {
			fmt.Printf("# DEBUG caniface received frame bytes=`%v`\n", utils.FormatSpaces(frame))
		}

		canID := binary.LittleEndian.Uint32(frame[0:4])
		if canID&canIDRTRFlag != 0 || canID&canIDERRFlag != 0 {
			continue
		}
		length := frame[4]
		data := make([]byte, length)
		copy(data, frame[8:8+length])

		d.mu.Lock()
		wanted := d.receivingIDs[canID&canIDMask]
		callback := d.receiveCallback
		d.mu.Unlock()
		if wanted && callback != nil {
			callback(canID&canIDMask, data)
		}
	}
}

func isContinuableSocketErr(err error) bool {
	return err == syscall.EWOULDBLOCK || err == syscall.EAGAIN || err == syscall.EINTR
}
