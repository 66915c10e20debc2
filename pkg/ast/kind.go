package ast

// Kind identifies the syntactic construct a Node represents. The set is
// closed: front-ends decode their native grammar types into these values and
// anything without a mapping becomes KindUnknown, which is still traversed.
// KindInvalid marks non-tree metadata and is never traversed.
type Kind uint8

// Node kinds. The comment on each kind documents its payload layout:
// which children it carries, in order, and what Token/Value/Flags hold.
const (
	KindInvalid Kind = iota

	// KindFile is the root of a parsed source file. Children: top-level
	// statements and comments in source order.
	KindFile
	// KindBlock is a braced statement list. Children: statements.
	KindBlock
	// KindExpressionStmt wraps an expression used as a statement.
	KindExpressionStmt
	// KindVariable is one declarator of a variable declaration.
	// Token: declared name. Children: [initializer?].
	KindVariable
	// KindFunction is a named function declaration.
	// Token: name. Children: [params..., body].
	KindFunction
	// KindFunctionExpr is an anonymous or named function expression.
	// Token: name or "". Children: [params..., body].
	KindFunctionExpr
	// KindArrowFunction is an arrow function. Token: "".
	// Children: [params..., body] where body is a block or an expression.
	KindArrowFunction
	// KindMethod is a class method or object method definition.
	// Token: method name. Children: [params..., body].
	KindMethod
	// KindClass is a class declaration or expression.
	// Token: class name or "". Children: heritage and members.
	KindClass
	// KindProperty is an object literal or class property.
	// Token: property key, or "" under FlagComputed, where the key
	// expression is kept as the first child. Children: [key?, value?].
	KindProperty
	// KindParameter is one formal parameter. Destructuring patterns decode
	// into one KindParameter per bound name.
	// Token: parameter name. Children: [default?].
	KindParameter
	// KindIf is an if statement. Children: [condition, consequent, alternate?].
	KindIf
	// KindConditional is a ternary expression.
	// Children: [condition, consequent, alternate].
	KindConditional
	// KindFor is a C-style for loop. Children: [init?, cond?, update?, body].
	KindFor
	// KindForIn is a for-in loop. Children: [left, right, body].
	KindForIn
	// KindForOf is a for-of loop. Children: [left, right, body].
	KindForOf
	// KindWhile is a while loop. Children: [condition, body].
	KindWhile
	// KindDoWhile is a do-while loop. Children: [body, condition].
	KindDoWhile
	// KindSwitch is a switch statement. Children: [discriminant, cases...].
	KindSwitch
	// KindSwitchCase is one case or default clause. FlagDefaultCase marks
	// default. Children: [test?, statements...].
	KindSwitchCase
	// KindTry is a try statement. Children: [block, catch?, finally?].
	KindTry
	// KindCatch is a catch clause. Children: [param?, block]; block is last.
	KindCatch
	// KindFinally is a finally clause. Children: [block].
	KindFinally
	// KindReturn is a return statement. Children: [argument?].
	KindReturn
	// KindThrow is a throw statement. Children: [argument].
	KindThrow
	// KindBreak is a break statement.
	KindBreak
	// KindContinue is a continue statement.
	KindContinue
	// KindDebugger is a debugger statement.
	KindDebugger
	// KindImport is an import declaration.
	KindImport
	// KindExport is an export declaration. Children: exported declaration.
	KindExport
	// KindCall is a call or constructor invocation. FlagNew marks `new`.
	// Children: [callee, arguments...].
	KindCall
	// KindMember is a property access. Token: property name for static
	// access; FlagComputed with Children [object, property] for subscripts.
	// Children: [object] or [object, property].
	KindMember
	// KindBinary is a non-logical binary expression.
	// Token: operator. Children: [left, right].
	KindBinary
	// KindLogical is a logical binary expression (&&, ||, ??).
	// Token: operator. Children: [left, right].
	KindLogical
	// KindUnary is a unary expression. Token: operator. Children: [operand].
	KindUnary
	// KindUpdate is ++ or --. Token: operator. Children: [operand].
	KindUpdate
	// KindAssign is an assignment (plain or compound).
	// Token: operator. Children: [target, value].
	KindAssign
	// KindSequence is a comma expression. Children: expressions.
	KindSequence
	// KindIdentifier is a reference to a name. Token: name. Declaration
	// sites carry their names on the declaring node, not as identifiers.
	KindIdentifier
	// KindLiteral is a literal value. Value holds the typed payload;
	// Token holds the raw source text.
	KindLiteral
	// KindTemplate is a template literal. Children: KindTemplateElement
	// text segments and substitution expressions, interleaved in order.
	KindTemplate
	// KindTemplateElement is one literal text segment of a template.
	// Token: segment text.
	KindTemplateElement
	// KindArray is an array literal. Children: elements.
	KindArray
	// KindObject is an object literal. Children: properties.
	KindObject
	// KindSpread is a spread or rest element. Children: [argument].
	KindSpread
	// KindAwait is an await expression. Children: [argument].
	KindAwait
	// KindYield is a yield expression. Children: [argument?].
	KindYield
	// KindElement is a markup (JSX) element. Token: tag name.
	// Children: attributes, then children elements/expressions.
	KindElement
	// KindAttribute is a markup attribute. Token: attribute name.
	// Children: [value?].
	KindAttribute
	// KindComment is a comment. Token: full comment text including markers.
	KindComment
	// KindUnknown is any construct without a dedicated kind. Children are
	// preserved and traversed.
	KindUnknown
)

// kindNames is indexed by Kind.
//
//nolint:gochecknoglobals // Static lookup table for Kind.String.
var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindFile:            "File",
	KindBlock:           "Block",
	KindExpressionStmt:  "ExpressionStmt",
	KindVariable:        "Variable",
	KindFunction:        "Function",
	KindFunctionExpr:    "FunctionExpr",
	KindArrowFunction:   "ArrowFunction",
	KindMethod:          "Method",
	KindClass:           "Class",
	KindProperty:        "Property",
	KindParameter:       "Parameter",
	KindIf:              "If",
	KindConditional:     "Conditional",
	KindFor:             "For",
	KindForIn:           "ForIn",
	KindForOf:           "ForOf",
	KindWhile:           "While",
	KindDoWhile:         "DoWhile",
	KindSwitch:          "Switch",
	KindSwitchCase:      "SwitchCase",
	KindTry:             "Try",
	KindCatch:           "Catch",
	KindFinally:         "Finally",
	KindReturn:          "Return",
	KindThrow:           "Throw",
	KindBreak:           "Break",
	KindContinue:        "Continue",
	KindDebugger:        "Debugger",
	KindImport:          "Import",
	KindExport:          "Export",
	KindCall:            "Call",
	KindMember:          "Member",
	KindBinary:          "Binary",
	KindLogical:         "Logical",
	KindUnary:           "Unary",
	KindUpdate:          "Update",
	KindAssign:          "Assign",
	KindSequence:        "Sequence",
	KindIdentifier:      "Identifier",
	KindLiteral:         "Literal",
	KindTemplate:        "Template",
	KindTemplateElement: "TemplateElement",
	KindArray:           "Array",
	KindObject:          "Object",
	KindSpread:          "Spread",
	KindAwait:           "Await",
	KindYield:           "Yield",
	KindElement:         "Element",
	KindAttribute:       "Attribute",
	KindComment:         "Comment",
	KindUnknown:         "Unknown",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Invalid"
}

// IsFunctionLike reports whether the kind declares a function body:
// function declarations, function expressions, arrow functions, and methods.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFunction, KindFunctionExpr, KindArrowFunction, KindMethod:
		return true
	default:
		return false
	}
}

// IsLoop reports whether the kind is a loop construct.
func (k Kind) IsLoop() bool {
	switch k {
	case KindFor, KindForIn, KindForOf, KindWhile, KindDoWhile:
		return true
	default:
		return false
	}
}
