package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.Item
		snap     *domain.Snapshot
		contains []string
		excludes []string
	}{
		{
			name: "Step Shapes And Edges",
			items: []domain.Item{
				domain.StepItem{Content: "# Intro\n\nWelcome"},
				domain.StepItem{Content: "Quiz", CompletionVarName: "quiz"},
				domain.StepItem{Content: "Exercise", CompletionVarName: "done", AutoAdvance: true},
				domain.StepItem{Content: "End"},
			},
			contains: []string{
				"graph LR",
				`item0["1. Intro"]`,
				`item1[/"2. Quiz"/]`,
				"item0 --> item1",
				`item1 -- "quiz" --> item2`,
				`item2 -. "auto: done" .-> item3`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Slide Edges",
			items: []domain.Item{
				domain.SlideItem{Content: "Mercury"},
				domain.SlideItem{Content: "Venus"},
			},
			contains: []string{
				`item0["1. Mercury"]`,
				"item0 <--> item1",
			},
		},
		{
			name: "Label Escaping And Truncation",
			items: []domain.Item{
				domain.StepItem{Content: `Say "hi" to the very long heading that keeps going`},
			},
			contains: []string{
				`Say 'hi' to the very long headi…`,
			},
		},
		{
			name: "Step Overlay",
			items: []domain.Item{
				domain.StepItem{Content: "a"},
				domain.StepItem{Content: "b"},
				domain.StepItem{Content: "c"},
			},
			snap: &domain.Snapshot{Layout: domain.LayoutSteps, Total: 3, Current: 1},
			contains: []string{
				"class item0 completed;",
				"class item1 active;",
			},
			excludes: []string{"class item2"},
		},
		{
			name: "Slide Overlay Has No Completed Items",
			items: []domain.Item{
				domain.SlideItem{Content: "a"},
				domain.SlideItem{Content: "b"},
			},
			snap: &domain.Snapshot{Layout: domain.LayoutSlides, Total: 2, Current: 1},
			contains: []string{
				"class item1 active;",
			},
			excludes: []string{"class item0 completed;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.items, tt.snap)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
		})
	}
}
