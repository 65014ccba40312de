//go:build linux

package capture

import "time"

const (
	DefaultPath     = "process-watcher.out"
	DefaultInterval = 2 * time.Second
)

// Options configures a Capturer.
type Options struct {
	Path     string
	Interval time.Duration
	// Append keeps the samples of an existing history file instead of truncating it.
	Append bool
	// Fsync forces each snapshot to stable storage before the lock is released.
	Fsync bool
}

func defaultOptions() *Options {
	return &Options{
		Path:     DefaultPath,
		Interval: DefaultInterval,
	}
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(opts *Options) {
		opts.Path = path
	}
}

func WithInterval(d time.Duration) Option {
	return func(opts *Options) {
		opts.Interval = d
	}
}

func WithAppend(enabled bool) Option {
	return func(opts *Options) {
		opts.Append = enabled
	}
}

func WithFsync(fsync bool) Option {
	return func(opts *Options) {
		opts.Fsync = fsync
	}
}
