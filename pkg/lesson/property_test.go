package lesson_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"pgregory.net/rapid"
)

// gatedDocs builds n step documents; gated[i] puts item i behind "g<i>".
func gatedDocs(gated []bool) []loam.Document {
	docs := make([]loam.Document, len(gated))
	for i, g := range gated {
		docs[i] = loam.Document{ID: fmt.Sprintf("items/%03d", i), Content: fmt.Sprintf("item %d", i)}
		if g {
			docs[i].Meta.CompletionVar = fmt.Sprintf("g%d", i)
		}
	}
	return docs
}

func TestProperty_StepControllerHonorsGates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		gated := rapid.SliceOfN(rapid.Bool(), n, n).Draw(rt, "gated")
		allowBack := rapid.Bool().Draw(rt, "back")

		store := memory.NewStore()
		m := lesson.Manifest{Layout: domain.LayoutSteps, Steps: lesson.StepsManifest{AllowBack: allowBack}}
		page, err := lesson.Build(m, gatedDocs(gated), store)
		if err != nil {
			rt.Fatal(err)
		}
		c := page.Controller
		c.Mount()
		defer c.Unmount()

		actions := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(rt, "actions")
		for i, kind := range actions {
			before := c.Current()
			gateOpen := !gated[before] || domain.IsReady(store.Read(fmt.Sprintf("g%d", before), ""))

			switch kind {
			case 0:
				c.GoTo(rapid.IntRange(-2, n+2).Draw(rt, fmt.Sprintf("index%d", i)))
			case 1:
				c.Next()
			case 2:
				c.Prev()
			case 3:
				store.Write(fmt.Sprintf("g%d", before), true)
				continue
			}

			after := c.Current()
			if after > before+1 {
				rt.Fatalf("skipped from %d to %d", before, after)
			}
			if after == before+1 && !gateOpen {
				rt.Fatalf("passed closed gate at %d", before)
			}
			if after < before && !allowBack {
				rt.Fatalf("frontier decreased from %d to %d without back navigation", before, after)
			}
		}
	})
}
