package quickhull

import (
	"log/slog"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultEpsilon is the sidedness tolerance: a point counts as outside a
	// facet only when its signed distance to the facet plane exceeds it.
	// It is also the coplanarity threshold of the initial simplex.
	DefaultEpsilon = 1e-10

	// DefaultDuplicateTolerance merges input points whose coordinates all
	// differ by at most this value.
	DefaultDuplicateTolerance = 1e-10

	// DefaultCollinearTolerance is the largest distance from a line at which
	// a point is still considered on that line.
	DefaultCollinearTolerance = 1e-10
)

// Config tunes the numerical tolerances of the construction.
// Zero-valued fields take their Default* value.
type Config struct {
	Epsilon            float64
	DuplicateTolerance float64
	CollinearTolerance float64

	// RelativeTolerance scales every tolerance by max(1, largest absolute
	// input coordinate). Off by default: all tests are absolute.
	RelativeTolerance bool

	// Logger receives debug traces of the construction. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by Build.
func DefaultConfig() Config {
	return Config{
		Epsilon:            DefaultEpsilon,
		DuplicateTolerance: DefaultDuplicateTolerance,
		CollinearTolerance: DefaultCollinearTolerance,
	}
}

func (c Config) withDefaults() Config {
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.DuplicateTolerance <= 0 {
		c.DuplicateTolerance = DefaultDuplicateTolerance
	}
	if c.CollinearTolerance <= 0 {
		c.CollinearTolerance = DefaultCollinearTolerance
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// scaledTo applies RelativeTolerance for the given input.
func (c Config) scaledTo(points []mgl64.Vec3) Config {
	if !c.RelativeTolerance {
		return c
	}
	scale := max(1, geometry.MaxAbsCoordinate(points))
	c.Epsilon *= scale
	c.DuplicateTolerance *= scale
	c.CollinearTolerance *= scale
	return c
}
