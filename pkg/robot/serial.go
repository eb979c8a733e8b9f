package robot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// SerialBus talks to a motor controller board over a serial line. Each
// motor command is one text line: "m<port> <signed value>".
type SerialBus struct {
	mu   sync.Mutex
	conn io.WriteCloser
}

// OpenSerial opens the motor controller on port.
func OpenSerial(port string, baudRate int) (*SerialBus, error) {
	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	return NewSerialBus(conn), nil
}

// NewSerialBus wraps an already open connection.
func NewSerialBus(conn io.WriteCloser) *SerialBus {
	return &SerialBus{conn: conn}
}

// Close closes the serial connection.
func (b *SerialBus) Close() error {
	return b.conn.Close()
}

// Group returns the motors on ports as one group.
func (b *SerialBus) Group(ports []Port) *SerialGroup {
	return &SerialGroup{bus: b, ports: ports}
}

func (b *SerialBus) write(frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.conn.Write(frame)
	return err
}

// SerialGroup drives a set of motors on a SerialBus.
type SerialGroup struct {
	bus   *SerialBus
	ports []Port
}

// Move sends command to every motor in the group in a single write.
func (g *SerialGroup) Move(ctx context.Context, command int32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.bus.write(EncodeFrame(g.ports, command)); err != nil {
		return fmt.Errorf("write motors %s: %w", portList(g.ports), err)
	}
	return nil
}

// EncodeFrame renders the command lines for ports, applying reversal.
func EncodeFrame(ports []Port, command int32) []byte {
	var buf bytes.Buffer
	for _, p := range ports {
		fmt.Fprintf(&buf, "m%d %+d\n", p.Number(), p.Apply(command))
	}
	return buf.Bytes()
}

func portList(ports []Port) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p.Number())
	}
	return strings.Join(parts, ",")
}

// ListPorts returns the serial ports present on this machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
