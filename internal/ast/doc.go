// Package ast holds the syntax tree produced by the parser.
//
// The tree is strict: every Node owns its children, there are no back
// references, and children are fully built before they are attached.
// Consumers (renderers, the bytecode emitter) switch on Node.Type and walk
// Children recursively; Walk and Inspect do that for them.
//
// Shape rules:
//   - Conditional: [condition, Block]
//   - Function: [param..., Block], Value is the function name
//   - FunctionCall: [arg...], Value is the callee name
//   - Reassignment: [Identifier, rhs]
//   - binary Operator: [left, right]; a leaf Operator has no children
package ast
