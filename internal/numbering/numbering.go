// Package numbering generates human-facing form numbers such as
// MRRV-202610-042. Numbers are random within the month, so uniqueness comes
// from the store's unique constraint and Assign's bounded retry.
package numbering

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"
)

type Prefix string

const (
	PrefixMRRV     Prefix = "MRRV"
	PrefixMIRV     Prefix = "MIRV"
	PrefixMRV      Prefix = "MRV"
	PrefixJobOrder Prefix = "JO"
	PrefixRFIM     Prefix = "RFIM"
	PrefixOSD      Prefix = "OSD"
	PrefixGatePass Prefix = "GP"
	PrefixShipment Prefix = "ST"
)

const DefaultMaxAttempts = 5

var ErrExhausted = errors.New("could not allocate a unique form number")

var pattern = regexp.MustCompile(`^([A-Z]+)-(\d{4})(\d{2})-(\d{3,4})$`)

// Digits is the width of the random suffix for a prefix.
func (p Prefix) Digits() int {
	if p == PrefixJobOrder {
		return 4
	}
	return 3
}

func (p Prefix) Valid() bool {
	switch p {
	case PrefixMRRV, PrefixMIRV, PrefixMRV, PrefixJobOrder, PrefixRFIM, PrefixOSD, PrefixGatePass, PrefixShipment:
		return true
	}
	return false
}

// Source supplies the random suffix.
type Source interface {
	Intn(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

type Generator struct {
	now         func() time.Time
	src         Source
	maxAttempts int
	onCollision func(Prefix)
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithSource(src Source) Option {
	return func(g *Generator) { g.src = src }
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// OnCollision registers a hook called for every rejected candidate.
func OnCollision(fn func(Prefix)) Option {
	return func(g *Generator) { g.onCollision = fn }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:         time.Now,
		src:         &lockedSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Next(prefix Prefix) string {
	return Format(prefix, g.now(), g.src.Intn(pow10(prefix.Digits())))
}

// Format renders a number for the given month and suffix.
func Format(prefix Prefix, at time.Time, suffix int) string {
	return fmt.Sprintf("%s-%04d%02d-%0*d", prefix, at.Year(), int(at.Month()), prefix.Digits(), suffix)
}

// Valid reports whether number has the shape PREFIX-YYYYMM-NNN for the given
// prefix and was issued in the month of at.
func Valid(number string, prefix Prefix, at time.Time) bool {
	m := pattern.FindStringSubmatch(number)
	if m == nil || Prefix(m[1]) != prefix {
		return false
	}
	if len(m[4]) != prefix.Digits() {
		return false
	}
	return m[2] == fmt.Sprintf("%04d", at.Year()) && m[3] == fmt.Sprintf("%02d", int(at.Month()))
}

// Assign draws numbers and hands them to insert until insert succeeds, fails
// with an error isCollision rejects, or the attempt budget runs out.
func (g *Generator) Assign(prefix Prefix, isCollision func(error) bool, insert func(number string) error) error {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		err := insert(g.Next(prefix))
		if err == nil {
			return nil
		}
		if !isCollision(err) {
			return err
		}
		if g.onCollision != nil {
			g.onCollision(prefix)
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrExhausted, prefix, g.maxAttempts)
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
