package session

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"holskywallet/pkg/models"
	"holskywallet/pkg/utils"
	"holskywallet/pkg/wallet"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrConnectAborted is returned by a Connect whose session was disconnected while it was pending.
var ErrConnectAborted = errors.New("connect aborted by disconnect")

// Wallet is the slice of the wallet adapter the controller needs.
type Wallet interface {
	Available() bool
	RequestAccount(ctx context.Context) (common.Address, error)
	NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error)
}

// NetworkReconciler moves the wallet onto the target chain.
type NetworkReconciler interface {
	Reconcile(ctx context.Context) error
}

// Controller owns the wallet session. It is the only writer of the session record.
type Controller struct {
	wallet         Wallet
	reconciler     NetworkReconciler
	nativeDecimals uint8
	minBusy        time.Duration
	log            *zap.Logger

	mu          sync.RWMutex
	session     models.Session
	epoch       uint64
	subscribers []Subscriber
	mountOnce   sync.Once
}

type Option func(*Controller)

// WithMinBusy sets the minimum time a connect or disconnect stays busy.
func WithMinBusy(d time.Duration) Option {
	return func(c *Controller) { c.minBusy = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithNativeDecimals sets the precision used to format the native balance (default 18).
func WithNativeDecimals(d uint8) Option {
	return func(c *Controller) { c.nativeDecimals = d }
}

func NewController(w Wallet, r NetworkReconciler, opts ...Option) *Controller {
	c := &Controller{
		wallet:         w,
		reconciler:     r,
		nativeDecimals: 18,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// AutoConnect runs Connect the first time it is called and is a no-op afterwards.
func (c *Controller) AutoConnect(ctx context.Context) error {
	var err error
	c.mountOnce.Do(func() {
		err = c.Connect(ctx)
	})
	return err
}

// Connect requests the account, reads its native balance and reconciles the network, in
// that order. It is a no-op while already connecting or connected, so concurrent callers
// collapse into the first one. A failed reconciliation is logged and does not prevent
// the session from becoming Connected.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.session.State != models.Disconnected {
		c.mu.Unlock()
		return nil
	}
	if c.wallet == nil || !c.wallet.Available() {
		c.mu.Unlock()
		c.log.Warn("connect requested but no wallet is available")
		return wallet.ErrWalletUnavailable
	}
	c.session = models.Session{State: models.Connecting, Busy: true}
	epoch := c.epoch
	snap := c.session
	c.mu.Unlock()
	c.notify(Event{Type: EventSessionUpdated, Data: snap})

	deadline := time.NewTimer(c.minBusy)
	defer deadline.Stop()

	addr, balance, err := c.establish(ctx)
	waitFor(ctx, deadline)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.log.Info("discarding connect result, session was disconnected meanwhile")
		return ErrConnectAborted
	}
	if err != nil {
		c.session = models.Session{State: models.Disconnected}
	} else {
		c.session = models.Session{
			Address:       addr.Hex(),
			NativeBalance: balance,
			State:         models.Connected,
		}
	}
	snap = c.session
	c.mu.Unlock()
	c.notify(Event{Type: EventSessionUpdated, Data: snap})

	if err != nil {
		c.log.Error("wallet connection failed", zap.Error(err))
		return err
	}
	c.log.Info("wallet connected", zap.String("address", snap.Address), zap.String("balance", snap.NativeBalance))
	return nil
}

func (c *Controller) establish(ctx context.Context) (common.Address, string, error) {
	addr, err := c.wallet.RequestAccount(ctx)
	if err != nil {
		return common.Address{}, "", fmt.Errorf("request account: %w", err)
	}

	raw, err := c.wallet.NativeBalance(ctx, addr)
	if err != nil {
		return common.Address{}, "", fmt.Errorf("native balance: %w", err)
	}

	if c.reconciler != nil {
		if err := c.reconciler.Reconcile(ctx); err != nil {
			c.log.Error("network reconciliation failed", zap.Error(err))
			c.notify(Event{Type: EventReconcileFailed, Data: err.Error()})
		}
	}
	return addr, utils.FormatUnits(raw, c.nativeDecimals), nil
}

// Disconnect clears the address and balance. In-flight wallet calls of a pending Connect
// are not cancelled; their result is discarded when they return.
func (c *Controller) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.session.State == models.Disconnected {
		c.mu.Unlock()
		return nil
	}
	c.epoch++
	c.session.Busy = true
	snap := c.session
	c.mu.Unlock()
	c.notify(Event{Type: EventSessionUpdated, Data: snap})

	deadline := time.NewTimer(c.minBusy)
	defer deadline.Stop()
	waitFor(ctx, deadline)

	c.mu.Lock()
	c.session = models.Session{State: models.Disconnected}
	snap = c.session
	c.mu.Unlock()
	c.notify(Event{Type: EventSessionUpdated, Data: snap})

	c.log.Info("wallet disconnected")
	return nil
}

func waitFor(ctx context.Context, t *time.Timer) {
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (c *Controller) Subscribe() Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(Subscriber, 100)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (c *Controller) Unsubscribe(ch Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (c *Controller) notify(event Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subscribers {
		select {
		case sub <- event:
		default:
			// slow subscriber, drop
		}
	}
}
