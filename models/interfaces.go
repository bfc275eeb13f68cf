package models

import "context"

// MarketDataProvider supplies ordered OHLCV bars for a symbol. Both methods
// must return bars in ascending timestamp order; a nil result without error
// means "no data available" and is handled by the caller, not treated as a
// failure.
type MarketDataProvider interface {
	FetchHistoricalData(ctx context.Context, symbol string, count int) ([]Bar, error)
	FetchRealTimeData(ctx context.Context, symbol string) (*Bar, error)
}

// Storage is the key-value persistence collaborator. Get reports whether the
// key existed; a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Notifier delivers a generated signal as a human-readable alert.
// Fire-and-forget: the engine logs but otherwise ignores delivery errors.
type Notifier interface {
	Notify(ctx context.Context, signal *Signal) error
}
