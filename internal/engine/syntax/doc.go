// Package syntax implements the incremental per-line highlight cache
// and the semantic-token overlay. It holds no tokenizer of its own
// (tree-sitter grammars are an external collaborator, same as the
// render layer); callers supply
// spans computed by whatever highlighter they wire in and this package
// owns keeping those spans consistent with the rope shape as edits and
// InputEdit-style shifts arrive.
//
// Two parallel structures are kept: Cache (tree-sitter-derived spans,
// shifted/dirtied line-wise) and Overlay (server-origin semantic
// tokens, shifted byte-wise within a line). Both follow the same
// read-cached/write-patched discipline: a reader sees either the last
// good spans for a line or nothing, never a torn write.
package syntax
