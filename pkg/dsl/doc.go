/*
Package dsl provides a fluent builder for lessons defined in Go.

It is an alternative to a lesson directory: tests, demos and generated
content can describe items with type checking instead of markdown files.

Example usage:

	b := dsl.New("Fractions").VarName("fractions_progress")

	b.Item("# Fractions").Class("intro")
	b.Item("What is 1/2 + 1/4?").Gate("quiz_done").Auto()
	b.Item("The answer is 3/4.")

	page, err := b.Build(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}
	page.Controller.Mount()
*/
package dsl
