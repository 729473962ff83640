package main

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/akmonengine/quickhull"
	"github.com/akmonengine/quickhull/actor"
	"github.com/akmonengine/quickhull/obb"
	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// A squashed ellipsoid shell with some interior noise.
	rng := rand.New(rand.NewPCG(42, 7))
	points := make([]mgl64.Vec3, 0, 600)
	for i := 0; i < 400; i++ {
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		points = append(points, mgl64.Vec3{
			3 * math.Sin(phi) * math.Cos(theta),
			2 * math.Sin(phi) * math.Sin(theta),
			0.5 * math.Cos(phi),
		})
	}
	for i := 0; i < 200; i++ {
		points = append(points, mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, 0.2 * (rng.Float64() - 0.5)})
	}

	cfg := quickhull.DefaultConfig()
	cfg.Logger = logger
	hull, err := quickhull.BuildWithConfig(points, cfg)
	if err != nil {
		logger.Error("hull failed", "error", err)
		os.Exit(1)
	}
	if err := hull.Validate(1e-9); err != nil {
		logger.Error("invalid hull", "error", err)
		os.Exit(1)
	}

	logger.Info("hull",
		"vertices", len(hull.Vertices),
		"facets", len(hull.Facets),
		"edges", hull.Edges(),
		"area", hull.SurfaceArea(),
		"volume", hull.Volume(),
		"centroid", hull.Centroid(),
	)

	box, err := obb.FromHull(hull)
	if err != nil {
		logger.Error("obb failed", "error", err)
		os.Exit(1)
	}
	logger.Info("obb",
		"center", box.Center,
		"halfExtents", box.HalfExtents,
		"volume", box.Volume(),
	)

	shape, err := actor.NewConvexHullWithConfig(points, cfg)
	if err != nil {
		logger.Error("shape failed", "error", err)
		os.Exit(1)
	}
	transform := actor.Transform{
		Position: mgl64.Vec3{0, 5, 0},
		Rotation: mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{0, 0, 1}),
	}
	shape.ComputeAABB(transform)
	mass := shape.ComputeMass(1000)
	logger.Info("shape",
		"aabb", shape.GetAABB(),
		"mass", mass,
		"inertia", shape.ComputeInertia(mass),
		"bottomFace", len(shape.GetContactFeature(mgl64.Vec3{0, 0, -1})),
	)
}
