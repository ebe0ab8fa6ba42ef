// Package schemamodel compiles schema definitions into shared validation
// models.
//
// - Definitions (package schema) may extend one another and may refer back to
//   their ancestors; the input graph does not have to be a tree.
// - Every distinct set of definitions that ends up applying to one location is
//   folded into a single combination node, so repeated references share work.
// - Each combination node compiles to exactly one model (package model). Cycles
//   in the input come out as cycles in the model graph.
//
// Design policy:
// - Keep only public APIs in the root package; builder, registry, cache and
//   compiler live under internal/.
// - Definitions and their loader live under schema/, compiled models under model/,
//   the CLI under cmd/schemamodel.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  m, err := schemamodel.CompileJSON(data, schemamodel.Options{})
//
//  c := schemamodel.NewCompiler(schemamodel.Options{Logger: logger})
//  m, err := c.Build(def)
//  fmt.Println(c.Stats().Nodes, m.Count())
package schemamodel
