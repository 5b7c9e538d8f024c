package event

// BusOption configures NewBus.
type BusOption func(*bus)

// WithPanicHandler installs an observer for handler panics. The bus still
// recovers the panic and reports it as a *PanicError.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *bus) {
		if h != nil {
			b.onPanic = h
		}
	}
}

// SubscriptionOption configures one subscription.
type SubscriptionOption func(*subscribeOptions)

type subscribeOptions struct {
	priority Priority
	filter   FilterFunc
	once     bool
}

func collectSubscribeOptions(opts []SubscriptionOption) subscribeOptions {
	o := subscribeOptions{priority: PriorityNormal}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// WithPriority moves the handler earlier (lower) or later (higher) in the
// publish order.
func WithPriority(p Priority) SubscriptionOption {
	return func(o *subscribeOptions) { o.priority = p }
}

// WithFilter skips events for which f returns false.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(o *subscribeOptions) { o.filter = f }
}

// WithOnce cancels the subscription as soon as it has been delivered to.
func WithOnce() SubscriptionOption {
	return func(o *subscribeOptions) { o.once = true }
}
