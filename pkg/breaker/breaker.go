package breaker

import (
	"errors"
	"time"

	cb "github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

type Config struct {
	Name                string
	Interval            time.Duration // counts reset period while closed
	Timeout             time.Duration // open -> half-open delay
	ConsecutiveFailures uint32
	MinRequests         uint32
	FailureRatio        float64
	OnStateChange       func(name string, from, to string)
}

func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
		MinRequests:         20,
		FailureRatio:        0.05,
	}
}

// Breaker is a typed wrapper over gobreaker.
type Breaker struct{ cb *cb.CircuitBreaker }

func New(cfg Config) *Breaker {
	st := cb.Settings{Name: cfg.Name, Interval: cfg.Interval, Timeout: cfg.Timeout}
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
			return true
		}
		if counts.Requests < cfg.MinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > cfg.FailureRatio
	}
	if cfg.OnStateChange != nil {
		st.OnStateChange = func(name string, from, to cb.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Do runs fn through the breaker. Rejections are reported as ErrOpen.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) { return nil, fn() })
	if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

func (b *Breaker) State() string { return b.cb.State().String() }
