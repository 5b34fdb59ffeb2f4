package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/portugol/lang/token"
)

// Print renders a statement list back to Portugol source text. It is used to
// validate parser idempotence: printing a parsed tree and re-parsing it must
// yield a structurally equal tree (spec.md §8).
func Print(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		printStmt(&sb, s)
	}
	return sb.String()
}

func printStmt(sb *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *ExpressionStmt:
		fmt.Fprintf(sb, "%s;", printExpr(s.Expression))
	case *PrintStmt:
		fmt.Fprintf(sb, "saida %s;", printExpr(s.Expression))
	case *ClearStmt:
		fmt.Fprintf(sb, "limpar %s;", printExpr(s.Expression))
	case *VarStmt:
		if s.Initializer != nil {
			fmt.Fprintf(sb, "var %s = %s;", s.Name.Lexeme, printExpr(s.Initializer))
		} else {
			fmt.Fprintf(sb, "var %s;", s.Name.Lexeme)
		}
	case *BlockStmt:
		sb.WriteByte('{')
		for _, st := range s.Statements {
			printStmt(sb, st)
		}
		sb.WriteByte('}')
	case *IfStmt:
		fmt.Fprintf(sb, "se (%s) ", printExpr(s.Condition))
		printStmt(sb, s.Then)
		if s.Else != nil {
			sb.WriteString(" senao ")
			printStmt(sb, s.Else)
		}
	case *WhileStmt:
		fmt.Fprintf(sb, "enquanto (%s) ", printExpr(s.Condition))
		printStmt(sb, s.Body)
	case *FunctionStmt:
		printFunc(sb, "funcao", s.Name.Lexeme, s.Params, s.Body)
	case *CmdFunctionStmt:
		fmt.Fprintf(sb, "funcao %s recebe %q;", s.Name.Lexeme, s.Command)
	case *ClassStmt:
		fmt.Fprintf(sb, "classe %s", s.Name.Lexeme)
		if s.Superclass != nil {
			fmt.Fprintf(sb, " < %s", s.Superclass.Name.Lexeme)
		}
		sb.WriteString(" {")
		for _, m := range s.Methods {
			printFunc(sb, "", m.Name.Lexeme, m.Params, m.Body)
		}
		sb.WriteByte('}')
	case *ReturnStmt:
		if s.Value != nil {
			fmt.Fprintf(sb, "retorna %s;", printExpr(s.Value))
		} else {
			sb.WriteString("retorna;")
		}
	default:
		fmt.Fprintf(sb, "/* ?stmt %T */", s)
	}
}

func printFunc(sb *strings.Builder, kw, name string, params []token.Token, body []Stmt) {
	if kw != "" {
		fmt.Fprintf(sb, "%s %s(", kw, name)
	} else {
		fmt.Fprintf(sb, "%s(", name)
	}
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Lexeme)
	}
	sb.WriteString("){")
	for _, st := range body {
		printStmt(sb, st)
	}
	sb.WriteByte('}')
}

func printExpr(e Expr) string {
	switch e := e.(type) {
	case *Literal:
		return printLiteral(e.Value)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return fmt.Sprintf("%s = %s", e.Name.Lexeme, printExpr(e.Value))
	case *Unary:
		return fmt.Sprintf("%s%s", e.Op.Lexeme, printExpr(e.Right))
	case *Binary:
		return printOperand(e, 0)
	case *Logical:
		return printOperand(e, 0)
	case *Grouping:
		return fmt.Sprintf("(%s)", printExpr(e.Expression))
	case *Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", printExpr(e.Callee), strings.Join(args, ","))
	case *Get:
		return fmt.Sprintf("%s.%s", printExpr(e.Object), e.Name.Lexeme)
	case *Set:
		return fmt.Sprintf("%s.%s = %s", printExpr(e.Object), e.Name.Lexeme, printExpr(e.Value))
	case *This:
		return "este"
	case *Super:
		return fmt.Sprintf("super.%s", e.Method.Lexeme)
	case *AnonFunction:
		var sb strings.Builder
		printFunc(&sb, "funcao", "", e.Params, e.Body)
		return sb.String()
	default:
		return fmt.Sprintf("/* ?expr %T */", e)
	}
}

// printOperand renders e as an operand of a binary/logical expression whose
// own precedence rank is minRank, adding parens only where the grammar
// actually needs them to reproduce the same tree on re-parse (spec.md §8).
// A plain "(%s %s %s)" on every Binary/Logical node instead re-enters
// parser.go's primary() LPAREN branch on re-parse and wraps the result in an
// extra *Grouping that was never in the original tree.
func printOperand(e Expr, minRank int) string {
	switch e := e.(type) {
	case *Binary:
		return printBinaryExpr(e.Left, e.Op, e.Right, binaryRank(e.Op.Kind), minRank)
	case *Logical:
		return printBinaryExpr(e.Left, e.Op, e.Right, logicalRank(e.Op.Kind), minRank)
	default:
		return printExpr(e)
	}
}

// printBinaryExpr prints left op right, where rank is this node's own
// precedence. The left operand accepts its own rank or looser (left
// associativity needs no parens there); the right operand requires strictly
// tighter binding, since these operators all associate left. The whole
// expression gets parens only if the enclosing context (minRank) binds
// tighter than rank.
func printBinaryExpr(left Expr, op token.Token, right Expr, rank, minRank int) string {
	s := fmt.Sprintf("%s %s %s", printOperand(left, rank), op.Lexeme, printOperand(right, rank+1))
	if rank < minRank {
		return "(" + s + ")"
	}
	return s
}

// binaryRank and logicalRank mirror parser.go's precedence-climbing chain
// (or < and < equality < comparison < term < factor, loosest first) so the
// printer parenthesizes exactly where that grammar requires it.
func binaryRank(k token.Kind) int {
	switch k {
	case token.EQ_EQ, token.BANG_EQ:
		return 3
	case token.GT, token.GT_EQ, token.LT, token.LT_EQ:
		return 4
	case token.PLUS, token.MINUS:
		return 5
	case token.STAR, token.SLASH:
		return 6
	default:
		return 6
	}
}

func logicalRank(k token.Kind) int {
	switch k {
	case token.OR:
		return 1
	case token.AND:
		return 2
	default:
		return 2
	}
}

func printLiteral(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "nulo"
	case bool:
		if v {
			return "verdadeiro"
		}
		return "falso"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
