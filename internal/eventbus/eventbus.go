// Package eventbus publishes cell-change notifications over a ZeroMQ PUB
// socket, the same socket-construction pattern the teacher's
// kernel/kernel.go uses for its Jupyter IOPub channel (zmq4.NewPub(ctx),
// sock.Listen(addr), zmq4.NewMsgFrom(frames...)). It gives the sheet a
// second, decoupled transport for the invalidation events
// internal/server already pushes over websockets — useful for a
// headless subscriber (a recompute worker, a second UI) that doesn't
// want to hold a full-duplex websocket connection open.
package eventbus

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-zeromq/zmq4"

	"cellgrid/cell"
	"cellgrid/position"
	"cellgrid/sheet"
)

// CellChanged is the payload published for every cell a write touches
// directly (not the transitive invalidation fan-out — subscribers that
// need the full picture can re-derive it the same way internal/server
// does, by rereading the sheet).
type CellChanged struct {
	Pos   string `json:"pos"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Bus owns a PUB socket and a reference to the sheet it announces
// changes for.
type Bus struct {
	sheet *sheet.Sheet
	pub   zmq4.Socket
}

// New binds a PUB socket at addr (e.g. "tcp://127.0.0.1:5556") and
// registers a sheet.ChangeListener so every successful Set/Clear
// publishes a frame.
func New(ctx context.Context, addr string, sh *sheet.Sheet) (*Bus, error) {
	pub := zmq4.NewPub(ctx)
	if err := pub.Listen(addr); err != nil {
		return nil, err
	}

	b := &Bus{sheet: sh, pub: pub}
	sh.OnChange(b.publish)
	return b, nil
}

// Close releases the underlying socket.
func (b *Bus) Close() error {
	return b.pub.Close()
}

func (b *Bus) publish(pos position.Position) {
	c, err := b.sheet.Get(pos)
	if err != nil || c == nil {
		return
	}

	payload := b.encode(pos, c)
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("eventbus: marshal failed for %s: %v", pos, err)
		return
	}

	msg := zmq4.NewMsgFrom([]byte("cell.changed"), body)
	if err := b.pub.Send(msg); err != nil {
		log.Printf("eventbus: publish failed for %s: %v", pos, err)
	}
}

func (b *Bus) encode(pos position.Position, c *cell.Cell) CellChanged {
	return CellChanged{
		Pos:   pos.String(),
		Text:  c.Body.Text(),
		Value: c.Body.Value(b.sheet).String(),
	}
}
