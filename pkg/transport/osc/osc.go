// Package osc implements relay.Transport over UDP with OSC 1.0 framing.
//
// Inbound messages are dispatched by exact address; outbound messages go to
// one fixed destination (the Isadora patch). Sends that fail with network
// errors are retried with exponential backoff.
package osc

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	gosc "github.com/hypebeast/go-osc/osc"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/relay"
	"github.com/matzehuels/cropsy/pkg/transport"
)

// Defaults match the ZoomOSC and Isadora setup the relay was built for.
const (
	DefaultListenHost  = "0.0.0.0"
	DefaultListenPort  = 1235
	DefaultSendHost    = "127.0.0.1"
	DefaultSendPort    = 1234
	DefaultSendRetries = 2
	DefaultRetryDelay  = 50 * time.Millisecond
)

// Config holds the inbound and outbound endpoints.
type Config struct {
	ListenHost string
	ListenPort int
	SendHost   string
	SendPort   int

	// SendRetries is how many times a failed send is repeated.
	SendRetries int
	RetryDelay  time.Duration
}

// DefaultConfig returns the default endpoints.
func DefaultConfig() Config {
	return Config{
		ListenHost:  DefaultListenHost,
		ListenPort:  DefaultListenPort,
		SendHost:    DefaultSendHost,
		SendPort:    DefaultSendPort,
		SendRetries: DefaultSendRetries,
		RetryDelay:  DefaultRetryDelay,
	}
}

// ListenAddr returns host:port of the inbound socket.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// SendAddr returns host:port of the outbound destination.
func (c Config) SendAddr() string {
	return net.JoinHostPort(c.SendHost, strconv.Itoa(c.SendPort))
}

// Transport sends and receives OSC messages over UDP.
type Transport struct {
	cfg    Config
	client *gosc.Client
	logger *log.Logger

	mu       sync.Mutex
	handlers map[string]relay.Handler
}

// New creates a transport. Nothing is opened until Listen or Send.
func New(cfg Config, logger *log.Logger) *Transport {
	if logger == nil {
		logger = log.Default()
	}
	return &Transport{
		cfg:      cfg,
		client:   gosc.NewClient(cfg.SendHost, cfg.SendPort),
		logger:   logger,
		handlers: make(map[string]relay.Handler),
	}
}

// OnMessage registers h for address. Handlers registered after Listen has
// started take effect on the next Listen.
func (t *Transport) OnMessage(address string, h relay.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[address] = h
}

// Listen binds the configured inbound address and serves until ctx is
// cancelled.
func (t *Transport) Listen(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", t.cfg.ListenAddr())
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "listen on %s", t.cfg.ListenAddr())
	}
	return t.Serve(ctx, conn)
}

// Serve dispatches messages read from conn until ctx is cancelled. conn is
// closed on return.
func (t *Transport) Serve(ctx context.Context, conn net.PacketConn) error {
	dispatcher, err := t.dispatcher(ctx)
	if err != nil {
		_ = conn.Close()
		return err
	}

	server := &gosc.Server{Dispatcher: dispatcher}
	t.logger.Info("listening for OSC", "addr", conn.LocalAddr().String())
	t.logger.Info("sending OSC", "addr", t.cfg.SendAddr())

	errc := make(chan error, 1)
	go func() { errc <- server.Serve(conn) }()

	select {
	case <-ctx.Done():
		_ = conn.Close()
		<-errc
		return nil
	case err := <-errc:
		_ = conn.Close()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "serve %s", conn.LocalAddr())
	}
}

func (t *Transport) dispatcher(ctx context.Context) (*gosc.StandardDispatcher, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := gosc.NewStandardDispatcher()
	for address, h := range t.handlers {
		err := d.AddMsgHandler(address, func(m *gosc.Message) {
			t.logger.Debug("received", "address", m.Address, "args", m.Arguments)
			h(ctx, FromOSC(m))
		})
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "register handler for %s", address)
		}
	}
	return d, nil
}

// Send encodes msg and sends it to the configured destination, retrying
// network failures.
func (t *Transport) Send(ctx context.Context, msg relay.Message) error {
	m := ToOSC(msg)
	err := transport.Retry(ctx, t.cfg.SendRetries+1, t.cfg.RetryDelay, func() error {
		return transport.MarkTransient(t.client.Send(m))
	})
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeTransport, err, "send %s to %s", msg.Address, t.cfg.SendAddr())
	}
	t.logger.Debug("sent", "address", msg.Address, "to", t.cfg.SendAddr(), "args", len(msg.Args))
	return nil
}

// ToOSC converts a relay message to an OSC message.
func ToOSC(msg relay.Message) *gosc.Message {
	return gosc.NewMessage(msg.Address, msg.Args...)
}

// FromOSC converts a received OSC message to a relay message.
func FromOSC(m *gosc.Message) relay.Message {
	return relay.Message{Address: m.Address, Args: m.Arguments}
}

var _ relay.Transport = (*Transport)(nil)
