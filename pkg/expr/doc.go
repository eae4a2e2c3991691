// Package expr parses Twee macro expressions and compiles them to SAM
// postfix code.
//
// Pipeline: expression text → Lex → Parse (top-down operator precedence) →
// Compile (given a variable → register Translator) → VM postfix text
package expr
