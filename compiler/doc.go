/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	lower ->
Wheel Intermediate Representation (ir) ->
	print ->
Canonical IR Text

The pipeline is single pass: slots and temporaries are resolved while
lowering, one function at a time in declaration order. There is no
backend here, the IR text is the compilation target.

*/
package compiler
