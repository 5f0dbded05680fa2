package services

import "time"

// DefaultCartTTL is how long a cart survives before it is discarded.
const DefaultCartTTL = 7 * 24 * time.Hour

// Option configures CartService and LedgerService.
type Option func(*options)

type options struct {
	now       func() time.Time
	cartTTL   time.Duration
	publisher EventPublisher
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, cartTTL: DefaultCartTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCartTTL sets the age after which a cart is discarded.
func WithCartTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cartTTL = ttl
		}
	}
}

// WithPublisher sets where order events go. Without one, events are dropped.
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}
