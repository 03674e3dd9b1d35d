package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os/signal"
	"sort"
	"syscall"
	"time"

	candb "github.com/stefanhoelzl/go-candb"
	"github.com/stefanhoelzl/go-candb/caniface"
	"github.com/stefanhoelzl/go-candb/dbc"
	"github.com/tarm/serial"
)

func main() {
	dbcPath := flag.String("dbc", "", "path to .dbc file to load")
	nodeName := flag.String("node", "", "name of the node to connect as (enables bus listen/send)")
	ifaceName := flag.String("iface", "can0", "SocketCAN network device to use when -node is given")
	listen := flag.Bool("listen", false, "listen for and print incoming frames decoded against the loaded database")
	printRaw := flag.Bool("raw", false, "print raw CAN frame bytes as they are sent/received")
	noDump := flag.Bool("no-dump", false, "do not print the parsed network summary")
	serialPort := flag.String("serial-mirror", "", "also mirror received frames as CSV lines to this serial device, e.g. /dev/ttyUSB0")
	serialBaud := flag.Int("serial-baud", 115200, "baud rate for -serial-mirror")
	flag.Parse()

	if dbcPath == nil || *dbcPath == "" {
		log.Fatal("# missing -dbc path\n")
	}

	network, err := dbc.ParseFile(*dbcPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("# Parsed network: %v nodes, version %q\n", len(network.Nodes), network.Version)

	if !*noDump {
		dumpNetwork(network)
	}

	if nodeName == nil || *nodeName == "" {
		return
	}
	node, ok := network.Nodes[*nodeName]
	if !ok {
		log.Fatalf("# unknown node %q\n", *nodeName)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var mirror io.Writer
	if serialPort != nil && *serialPort != "" {
		port, err := serial.OpenPort(&serial.Config{
			Name: *serialPort,
			Baud: *serialBaud,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer port.Close()
		mirror = port
		fmt.Printf("# Mirroring received frames to %v\n", *serialPort)
	}

	iface := caniface.NewSocketCANInterface(*ifaceName)
	iface.DebugLogRawFrames = *printRaw
	fmt.Printf("# Initializing SocketCAN interface: %v\n", *ifaceName)
	if err := iface.Initialize(network.Speed); err != nil {
		log.Fatal(err)
	}
	defer iface.Close()

	iface.RegisterReceiveCallback(func(canID uint32, data []byte) {
		printReceivedFrame(network, canID, data)
		if mirror != nil {
			mirrorFrameAsCSV(mirror, canID, data)
		}
	})

	scheduler := caniface.NewScheduler(network, iface)
	if err := scheduler.Connect([]string{node.Name}); err != nil {
		log.Fatal(err)
	}

	if *listen {
		if err := scheduler.Initialize(registerCycleWithTicker(ctx)); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("# Listening as node %q on %v, press Ctrl+C to stop\n", node.Name, *ifaceName)
	<-ctx.Done()
	fmt.Printf("# Shutting down\n")
}

// registerCycleWithTicker turns a caniface.RegisterCycle callback into a
// running time.Ticker for each distinct cycle time, stopping every ticker
// once ctx is done.
func registerCycleWithTicker(ctx context.Context) caniface.RegisterCycle {
	return func(cycleMs uint, send func()) {
		ticker := time.NewTicker(time.Duration(cycleMs) * time.Millisecond)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					send()
				}
			}
		}()
	}
}

// mirrorFrameAsCSV writes "id,len,hex-data\n" to w.
func mirrorFrameAsCSV(w io.Writer, canID uint32, data []byte) {
	fmt.Fprintf(w, "%#x,%v,% x\n", canID, len(data), data)
}

func printReceivedFrame(network *candb.Network, canID uint32, data []byte) {
	msg := network.GetMessage(canID)
	if msg == nil {
		fmt.Printf("# unknown frame id=%#x data=% x\n", canID, data)
		return
	}
	fmt.Printf("%v id=%#x:\n", msg.Name, canID)
	names := make([]string, 0, len(msg.Signals))
	for name := range msg.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := msg.Signals[name]
		fmt.Printf("  %v = %v %v\n", s.Name, s.Value(), s.Unit)
	}
}

func dumpNetwork(network *candb.Network) {
	names := make([]string, 0, len(network.Nodes))
	for name := range network.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, nodeName := range names {
		node := network.Nodes[nodeName]
		fmt.Printf("node %v\n", node.Name)

		canIDs := make([]uint32, 0, len(node.Messages))
		for canID := range node.Messages {
			canIDs = append(canIDs, canID)
		}
		sort.Slice(canIDs, func(i, j int) bool { return canIDs[i] < canIDs[j] })

		for _, canID := range canIDs {
			msg := node.Messages[canID]
			fmt.Printf("  message %v id=%#x len=%v\n", msg.Name, msg.CanID, msg.Length)

			sigNames := make([]string, 0, len(msg.Signals))
			for sigName := range msg.Signals {
				sigNames = append(sigNames, sigName)
			}
			sort.Strings(sigNames)
			for _, sigName := range sigNames {
				sig := msg.Signals[sigName]
				fmt.Printf("    signal %v startBit=%v length=%v factor=%v offset=%v unit=%q\n",
					sig.Name, sig.StartBit, sig.Length, sig.Factor, sig.Offset, sig.Unit)
			}
		}
	}
}
