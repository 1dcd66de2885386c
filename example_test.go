package tetgo_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/tetgo"
)

// Example builds the tessellation of a tetrahedron with one interior point.
func Example() {
	points := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0.25, Y: 0.25, Z: 0.25},
	}

	tess, err := tetgo.New(points)
	if err != nil {
		log.Fatal(err)
	}
	if err := tess.Build(context.Background()); err != nil {
		log.Fatal(err)
	}

	fmt.Println("finite cells:", tess.NumFiniteCells())

	loc := tess.Locate(r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}, tetgo.NoCell)
	fmt.Println("found:", loc.Found() && tess.IsFinite(loc.Cell))
	// Output:
	// finite cells: 4
	// found: true
}

// Example_weights hides the center of a cube behind its corners.
func Example_weights() {
	coords := []float64{
		0, 0, 0, 0,
		1, 0, 0, 0,
		0, 1, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 0,
		1, 0, 1, 0,
		0, 1, 1, 0,
		1, 1, 1, 0,
		0.5, 0.5, 0.5, 2, // lifted above the corners
	}

	tess, err := tetgo.NewFromCoords(4, coords)
	if err != nil {
		log.Fatal(err)
	}
	if err := tess.Build(context.Background()); err != nil {
		log.Fatal(err)
	}

	fmt.Println("vertices:", tess.Vertices().GetCardinality())
	fmt.Println("center used:", tess.Vertices().Contains(8))
	// Output:
	// vertices: 8
	// center used: false
}

// Example_degenerate shows the result for points on a line.
func Example_degenerate() {
	tess, err := tetgo.New([]r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 3}})
	if err != nil {
		log.Fatal(err)
	}

	err = tess.Build(context.Background())
	fmt.Println("degenerate:", errors.Is(err, tetgo.ErrDegenerate))
	fmt.Println("cells:", tess.NumCells())
	// Output:
	// degenerate: true
	// cells: 0
}
