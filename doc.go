/*
Package lectern composes lesson pages out of ordered items and shared variables.

A lesson is either a step sequence, revealed one item at a time behind
Continue controls and optional completion gates, or a slide deck with
arrows, dots, a counter and keyboard navigation. The current position is
mirrored into a variable store so other components of the page can react
to it, and gates watch store variables written by embedded exercises.

# Concept

Controllers in pkg/step and pkg/slide own the navigation state. They are
single-threaded: every call, timer fire and store notification must run on
one goroutine. The Player in this package provides that goroutine for
library use; the terminal player, HTTP host and MCP host under cmd/lectern
bring their own.

# Lesson directories

	my-lesson/
	  lesson.yaml        # title, layout, var_name, steps/slides options
	  items/01-intro.md  # one markdown document per item, ordered by name
	  items/02-quiz.md   # frontmatter: class_name, reveal_label, completion_var, auto_advance

# Usage

	player, err := lectern.Open(ctx, "./my-lesson")
	if err != nil {
		log.Fatal(err)
	}
	defer player.Close()

	moved, err := player.Next(ctx)
	_ = player.Write(ctx, "quiz_done", true) // satisfies a completion gate

Lessons can also be declared in code with pkg/dsl and started with
FromBuilder.
*/
package lectern
