package lectern_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/step"
)

// ExampleFromBuilder walks a gated step sequence declared in code.
func ExampleFromBuilder() {
	ctx := context.Background()

	b := dsl.New("Fractions").VarName("progress")
	b.Item("# Fractions")
	b.Item("What is 1/2 + 1/4?").Gate("quiz")
	b.Item("Well done!")

	player, err := lectern.FromBuilder(ctx, b)
	if err != nil {
		log.Fatal(err)
	}
	defer player.Close()

	moved, _ := player.Next(ctx)
	fmt.Println("continue:", moved)

	// The quiz is gated until its variable is ready.
	moved, _ = player.Next(ctx)
	fmt.Println("continue before answering:", moved)

	_ = player.Write(ctx, "quiz", "3/4")
	moved, _ = player.Next(ctx)
	fmt.Println("continue after answering:", moved)
	fmt.Println("progress:", player.Read("progress", nil))

	// Output:
	// continue: true
	// continue before answering: false
	// continue after answering: true
	// progress: 2
}

// ExampleFromBuilder_slides drives a slide deck.
func ExampleFromBuilder_slides() {
	ctx := context.Background()

	b := dsl.New("Planets").Slides(lesson.SlidesManifest{}).VarName("planet")
	b.Item("Mercury")
	b.Item("Venus")
	b.Item("Earth")

	player, err := lectern.FromBuilder(ctx, b)
	if err != nil {
		log.Fatal(err)
	}
	defer player.Close()

	_ = player.GoTo(ctx, 2)
	_, _ = player.Prev(ctx)
	snap, _ := player.Snapshot(ctx)
	fmt.Println(snap.Current, snap.Direction, player.Read("planet", nil))

	// Output:
	// 1 prev 1
}

// ExampleWithClock shows an auto-advancing step driven by a manual clock.
func ExampleWithClock() {
	ctx := context.Background()
	clk := clock.NewManual(time.Unix(0, 0))

	b := dsl.New("Exercise")
	b.Item("Solve it").Gate("solved").Auto()
	b.Item("Next topic")

	player, err := lectern.FromBuilder(ctx, b, lectern.WithClock(clk))
	if err != nil {
		log.Fatal(err)
	}
	defer player.Close()

	_ = player.Write(ctx, "solved", true)
	clk.Advance(step.AutoAdvanceDelay)

	// The timer fire is queued on the player's loop; a round trip waits for it.
	snap, _ := player.Snapshot(ctx)
	fmt.Println(snap.Current)

	// Output:
	// 1
}
