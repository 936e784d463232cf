package state_test

import (
	"fmt"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/state"
)

func ExampleState_Play() {
	d, _ := state.NewDigester(state.SHA256)
	root, _ := state.NewRoot(d, grid.DefaultBounds, 3, 3, 4, game.Green)

	a, _ := root.Play(0, 1, 2)
	b, _ := root.Play(2, 1, 0)

	fmt.Println("Same position:", a.Digest() == b.Digest())
	fmt.Println("Next:", a.Next())
	fmt.Println(a.Board())
	// Output:
	// Same position: true
	// Next: red
	// ...
	// ...
	// GRG
}
