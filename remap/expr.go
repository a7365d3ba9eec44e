package remap

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Arithmetic formula evaluation over named column values.
//
// Formulas are restricted to the four arithmetic operators and parentheses;
// every other token is either a bound column name or a numeric literal.
// Evaluation follows standard precedence:
//
//	expression → term (('+' | '-') term)*
//	term       → factor (('*' | '/') factor)*
//	factor     → NUMBER | '(' expression ')' | '-' factor
//
// Tokenizing on the operators makes name substitution word-boundary safe:
// a column "col1" can never be substituted inside "col10" because "col10"
// is a single token.

// Result holds an evaluated formula value. When a referenced column holds a
// non-numeric string the evaluation switches to string mode and the raw
// string is reported as-is.
type Result struct {
	Number float64
	Text   string
	IsText bool
}

// numericExpr is the character class a substituted numeric expression must
// match before it is evaluated.
var numericExpr = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)

// Evaluate substitutes the row bindings into the formula and computes its
// value. Binding lookup is case-insensitive. A bound empty value counts as
// zero; a bound non-numeric string aborts numeric evaluation and returns the
// string itself.
func Evaluate(formula string, bindings map[string]Cell) (Result, error) {
	folded := make(map[string]Cell, len(bindings))
	for name, cell := range bindings {
		folded[strings.ToLower(name)] = cell
	}

	rawTokens := TokenizeFormula(formula)
	tokens := make([]exprToken, 0, len(rawTokens))
	var substituted strings.Builder

	for _, tok := range rawTokens {
		if isOperator(tok) {
			tokens = append(tokens, exprToken{op: tok[0], isOp: true})
			substituted.WriteString(tok)
			continue
		}

		var value float64
		if cell, ok := folded[strings.ToLower(tok)]; ok {
			if cell.IsEmpty() {
				value = 0
			} else if f, ok := cell.Float(); ok {
				value = f
			} else {
				// String mode: the raw value is the result.
				return Result{Text: cell.String(), IsText: true}, nil
			}
		} else if f, err := strconv.ParseFloat(tok, 64); err == nil {
			value = f
		} else {
			return Result{}, &SyntaxError{Formula: formula, Reason: "unknown token " + strconv.Quote(tok)}
		}

		tokens = append(tokens, exprToken{num: value})
		substituted.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
	}

	if len(tokens) == 0 {
		return Result{}, &SyntaxError{Formula: formula, Reason: "empty expression"}
	}
	if !numericExpr.MatchString(substituted.String()) {
		return Result{}, &SyntaxError{Formula: formula, Reason: "invalid characters after substitution"}
	}

	p := &exprParser{formula: formula, tokens: tokens}
	value, err := p.parseAddSubtract()
	if err != nil {
		return Result{}, err
	}
	if p.pos != len(p.tokens) {
		return Result{}, &SyntaxError{Formula: formula, Reason: "unexpected trailing tokens"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, &EvalError{Formula: formula, Reason: "result is not a finite number"}
	}

	return Result{Number: value}, nil
}

// TokenizeFormula splits a formula on the arithmetic operators and
// parentheses, keeping the operators as their own tokens. Whitespace-only
// tokens are dropped.
func TokenizeFormula(formula string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		tok := strings.TrimSpace(current.String())
		if tok != "" {
			tokens = append(tokens, tok)
		}
		current.Reset()
	}

	for _, r := range formula {
		switch r {
		case '+', '-', '*', '/', '(', ')':
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func isOperator(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	switch tok[0] {
	case '+', '-', '*', '/', '(', ')':
		return true
	}
	return false
}

type exprToken struct {
	op   byte
	num  float64
	isOp bool
}

type exprParser struct {
	formula string
	tokens  []exprToken
	pos     int
}

func (p *exprParser) peek() (exprToken, bool) {
	if p.pos >= len(p.tokens) {
		return exprToken{}, false
	}
	return p.tokens[p.pos], true
}

// parseAddSubtract handles addition and subtraction (lowest precedence).
func (p *exprParser) parseAddSubtract() (float64, error) {
	left, err := p.parseMultiplyDivide()
	if err != nil {
		return 0, err
	}

	for {
		tok, ok := p.peek()
		if !ok || !tok.isOp || (tok.op != '+' && tok.op != '-') {
			break
		}
		p.pos++

		right, err := p.parseMultiplyDivide()
		if err != nil {
			return 0, err
		}

		switch tok.op {
		case '+':
			left += right
		case '-':
			left -= right
		}
	}

	return left, nil
}

// parseMultiplyDivide handles multiplication and division.
func (p *exprParser) parseMultiplyDivide() (float64, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}

	for {
		tok, ok := p.peek()
		if !ok || !tok.isOp || (tok.op != '*' && tok.op != '/') {
			break
		}
		p.pos++

		right, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}

		switch tok.op {
		case '*':
			left *= right
		case '/':
			left /= right
		}
	}

	return left, nil
}

// parsePrimary handles numbers, parenthesized expressions, and unary minus.
func (p *exprParser) parsePrimary() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, &SyntaxError{Formula: p.formula, Reason: "unexpected end of expression"}
	}

	if tok.isOp && tok.op == '(' {
		p.pos++
		value, err := p.parseAddSubtract()
		if err != nil {
			return 0, err
		}
		next, ok := p.peek()
		if !ok || !next.isOp || next.op != ')' {
			return 0, &SyntaxError{Formula: p.formula, Reason: "expected ')'"}
		}
		p.pos++
		return value, nil
	}

	if tok.isOp && tok.op == '-' {
		p.pos++
		value, err := p.parsePrimary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}

	if tok.isOp {
		return 0, &SyntaxError{Formula: p.formula, Reason: "expected number or '('"}
	}

	p.pos++
	return tok.num, nil
}
