// Parser is a recursive-descent SQL parser in the teacher's own style
// (sql/parser.go in the teacher: one method per grammar production, `self`
// receiver, errors reported via ParseError with source position) pared
// down to spec.md's surface: SELECT (with WHERE/AND/OR/NOT/comparisons,
// column lists or star, qualified T.c names, comma-separated FROM, JOIN
// syntax) plus parse-only INSERT/UPDATE/DELETE/CREATE TABLE.
package sql

import (
	"strings"

	"github.com/arvidellis/toydb/errs"
)

type Parser struct {
	lex *Lexer
}

func NewParser(source string) *Parser {
	return &Parser{lex: NewLexer(source)}
}

func (self *Parser) tok() int { return self.lex.Token }

func (self *Parser) errorf(format string, args ...interface{}) error {
	pos := self.lex.Pos()
	return errs.NewAt(errs.Parse, "sql.Parse", errs.Pos{Line: pos.Line, Col: pos.Col, Snippet: pos.Snippet}, format, args...)
}

func (self *Parser) expect(tk int, what string) error {
	if self.tok() != tk {
		return self.errorf("expected %s", what)
	}
	self.lex.Next()
	return nil
}

// Parse parses exactly one statement, with an optional trailing
// semicolon, per spec.md §6's REPL contract ("read one line, parse as a
// single statement").
func (self *Parser) Parse() (Statement, error) {
	var stmt Statement
	var err error

	switch self.tok() {
	case TkSelect:
		stmt, err = self.parseSelect()
	case TkInsert:
		stmt, err = self.parseInsert()
	case TkUpdate:
		stmt, err = self.parseUpdate()
	case TkDelete:
		stmt, err = self.parseDelete()
	case TkCreate:
		stmt, err = self.parseCreateTable()
	default:
		return nil, self.errorf("expected a statement (SELECT/INSERT/UPDATE/DELETE/CREATE)")
	}
	if err != nil {
		return nil, err
	}

	if self.tok() == TkSemicolon {
		self.lex.Next()
	}
	if self.tok() != TkEof {
		return nil, self.errorf("unexpected trailing input")
	}
	return stmt, nil
}

// ---------------------------------------------------------------------
// SELECT

func (self *Parser) parseSelect() (*SelectStmt, error) {
	self.lex.Next() // consume SELECT

	items, err := self.parseSelectList()
	if err != nil {
		return nil, err
	}

	if err := self.expect(TkFrom, "FROM"); err != nil {
		return nil, err
	}

	from, err := self.parseFromList()
	if err != nil {
		return nil, err
	}

	joins, err := self.parseJoins()
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Items: items, From: from, Joins: joins}
	if self.tok() == TkWhere {
		self.lex.Next()
		where, err := self.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (self *Parser) parseSelectList() ([]SelectItem, error) {
	var items []SelectItem
	for {
		if self.tok() == TkStar {
			self.lex.Next()
			items = append(items, SelectItem{Star: true})
		} else {
			e, err := self.parseExpr()
			if err != nil {
				return nil, err
			}
			item := SelectItem{Expr: e}
			if self.tok() == TkAs {
				self.lex.Next()
				if self.tok() != TkId {
					return nil, self.errorf("expected alias identifier after AS")
				}
				item.Alias = self.lex.Lexeme.Text
				self.lex.Next()
			}
			items = append(items, item)
		}
		if self.tok() != TkComma {
			break
		}
		self.lex.Next()
	}
	return items, nil
}

func (self *Parser) parseFromList() ([]TableRef, error) {
	var refs []TableRef
	for {
		ref, err := self.parseTableRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		if self.tok() != TkComma {
			break
		}
		self.lex.Next()
	}
	return refs, nil
}

func (self *Parser) parseTableRef() (TableRef, error) {
	if self.tok() != TkId {
		return TableRef{}, self.errorf("expected table name")
	}
	ref := TableRef{Name: self.lex.Lexeme.Text}
	self.lex.Next()
	if self.tok() == TkAs {
		self.lex.Next()
		if self.tok() != TkId {
			return TableRef{}, self.errorf("expected alias after AS")
		}
		ref.Alias = self.lex.Lexeme.Text
		self.lex.Next()
	} else if self.tok() == TkId {
		ref.Alias = self.lex.Lexeme.Text
		self.lex.Next()
	}
	return ref, nil
}

func (self *Parser) parseJoins() ([]JoinClause, error) {
	var joins []JoinClause
	for {
		kind := ""
		switch self.tok() {
		case TkJoin:
			kind = "INNER"
			self.lex.Next()
		case TkInner:
			self.lex.Next()
			if err := self.expect(TkJoin, "JOIN"); err != nil {
				return nil, err
			}
			kind = "INNER"
		case TkLeft:
			self.lex.Next()
			if err := self.expect(TkJoin, "JOIN"); err != nil {
				return nil, err
			}
			kind = "LEFT"
		case TkRight:
			self.lex.Next()
			if err := self.expect(TkJoin, "JOIN"); err != nil {
				return nil, err
			}
			kind = "RIGHT"
		case TkFull:
			self.lex.Next()
			if err := self.expect(TkJoin, "JOIN"); err != nil {
				return nil, err
			}
			kind = "FULL"
		case TkCross:
			self.lex.Next()
			if err := self.expect(TkJoin, "JOIN"); err != nil {
				return nil, err
			}
			kind = "CROSS"
		default:
			return joins, nil
		}

		table, err := self.parseTableRef()
		if err != nil {
			return nil, err
		}
		jc := JoinClause{Kind: kind, Table: table}
		if kind != "CROSS" {
			if err := self.expect(TkOn, "ON"); err != nil {
				return nil, err
			}
			cond, err := self.parseExpr()
			if err != nil {
				return nil, err
			}
			jc.On = cond
		}
		joins = append(joins, jc)
	}
}

// ---------------------------------------------------------------------
// Expressions, tightest-binding first: comparison > NOT > AND > OR (so
// NOT a = b is NOT (a = b)), the teacher's own precedence climb shape
// (sql/parser.go parseOr/parseAnd/... chain).

func (self *Parser) parseExpr() (Expr, error) { return self.parseOr() }

func (self *Parser) parseOr() (Expr, error) {
	left, err := self.parseAnd()
	if err != nil {
		return nil, err
	}
	for self.tok() == TkOr {
		self.lex.Next()
		right, err := self.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryLogical{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (self *Parser) parseAnd() (Expr, error) {
	left, err := self.parseNot()
	if err != nil {
		return nil, err
	}
	for self.tok() == TkAnd {
		self.lex.Next()
		right, err := self.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryLogical{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (self *Parser) parseNot() (Expr, error) {
	if self.tok() == TkNot {
		self.lex.Next()
		child, err := self.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Child: child}, nil
	}
	return self.parseComparison()
}

func (self *Parser) parseComparison() (Expr, error) {
	left, err := self.parsePrimary()
	if err != nil {
		return nil, err
	}
	op, ok := compareOpFor(self.tok())
	if !ok {
		return left, nil
	}
	self.lex.Next()
	right, err := self.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &BinaryCompare{Op: op, Left: left, Right: right}, nil
}

func compareOpFor(tk int) (CompareOp, bool) {
	switch tk {
	case TkEq:
		return OpEq, true
	case TkNe:
		return OpNe, true
	case TkLt:
		return OpLt, true
	case TkLe:
		return OpLe, true
	case TkGt:
		return OpGt, true
	case TkGe:
		return OpGe, true
	default:
		return 0, false
	}
}

func (self *Parser) parsePrimary() (Expr, error) {
	switch self.tok() {
	case TkLPar:
		self.lex.Next()
		e, err := self.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := self.expect(TkRPar, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case TkInt:
		v := self.lex.Lexeme.Int
		self.lex.Next()
		return &IntLiteral{Value: v}, nil
	case TkReal:
		v := self.lex.Lexeme.Real
		self.lex.Next()
		return &RealLiteral{Value: v}, nil
	case TkStr:
		v := self.lex.Lexeme.Text
		self.lex.Next()
		return &StringLiteral{Value: v}, nil
	case TkTrue:
		self.lex.Next()
		return &BoolLiteral{Value: true}, nil
	case TkFalse:
		self.lex.Next()
		return &BoolLiteral{Value: false}, nil
	case TkNull:
		self.lex.Next()
		return &NullLiteral{}, nil
	case TkId:
		return self.parseIdent()
	default:
		return nil, self.errorf("expected an expression")
	}
}

func (self *Parser) parseIdent() (Expr, error) {
	first := self.lex.Lexeme.Text
	self.lex.Next()
	if self.tok() == TkDot {
		self.lex.Next()
		if self.tok() != TkId {
			return nil, self.errorf("expected column name after %q.", first)
		}
		col := self.lex.Lexeme.Text
		self.lex.Next()
		return &Ident{Table: first, Column: col}, nil
	}
	return &Ident{Column: first}, nil
}

// ---------------------------------------------------------------------
// INSERT / UPDATE / DELETE / CREATE TABLE — parsed, never executed.

func (self *Parser) parseInsert() (*InsertStmt, error) {
	self.lex.Next() // INSERT
	if err := self.expect(TkInto, "INTO"); err != nil {
		return nil, err
	}
	if self.tok() != TkId {
		return nil, self.errorf("expected table name")
	}
	stmt := &InsertStmt{Table: self.lex.Lexeme.Text}
	self.lex.Next()

	if self.tok() == TkLPar {
		self.lex.Next()
		for {
			if self.tok() != TkId {
				return nil, self.errorf("expected column name")
			}
			stmt.Columns = append(stmt.Columns, self.lex.Lexeme.Text)
			self.lex.Next()
			if self.tok() != TkComma {
				break
			}
			self.lex.Next()
		}
		if err := self.expect(TkRPar, ")"); err != nil {
			return nil, err
		}
	}

	if err := self.expect(TkValues, "VALUES"); err != nil {
		return nil, err
	}
	if err := self.expect(TkLPar, "("); err != nil {
		return nil, err
	}
	for {
		e, err := self.parsePrimary()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, e)
		if self.tok() != TkComma {
			break
		}
		self.lex.Next()
	}
	if err := self.expect(TkRPar, ")"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (self *Parser) parseUpdate() (*UpdateStmt, error) {
	self.lex.Next() // UPDATE
	if self.tok() != TkId {
		return nil, self.errorf("expected table name")
	}
	stmt := &UpdateStmt{Table: self.lex.Lexeme.Text, Set: map[string]Expr{}}
	self.lex.Next()

	if err := self.expect(TkSet, "SET"); err != nil {
		return nil, err
	}
	for {
		if self.tok() != TkId {
			return nil, self.errorf("expected column name")
		}
		col := self.lex.Lexeme.Text
		self.lex.Next()
		if err := self.expect(TkEq, "="); err != nil {
			return nil, err
		}
		val, err := self.parsePrimary()
		if err != nil {
			return nil, err
		}
		stmt.Set[col] = val
		if self.tok() != TkComma {
			break
		}
		self.lex.Next()
	}

	if self.tok() == TkWhere {
		self.lex.Next()
		where, err := self.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (self *Parser) parseDelete() (*DeleteStmt, error) {
	self.lex.Next() // DELETE
	if err := self.expect(TkFrom, "FROM"); err != nil {
		return nil, err
	}
	if self.tok() != TkId {
		return nil, self.errorf("expected table name")
	}
	stmt := &DeleteStmt{Table: self.lex.Lexeme.Text}
	self.lex.Next()

	if self.tok() == TkWhere {
		self.lex.Next()
		where, err := self.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (self *Parser) parseCreateTable() (*CreateTableStmt, error) {
	self.lex.Next() // CREATE
	if err := self.expect(TkTable, "TABLE"); err != nil {
		return nil, err
	}
	if self.tok() != TkId {
		return nil, self.errorf("expected table name")
	}
	stmt := &CreateTableStmt{Table: self.lex.Lexeme.Text}
	self.lex.Next()

	if err := self.expect(TkLPar, "("); err != nil {
		return nil, err
	}
	for {
		if self.tok() != TkId {
			return nil, self.errorf("expected column name")
		}
		def := ColumnDef{Name: self.lex.Lexeme.Text, Nullable: true}
		self.lex.Next()
		if self.tok() != TkId {
			return nil, self.errorf("expected column type")
		}
		def.Type = strings.ToUpper(self.lex.Lexeme.Text)
		self.lex.Next()
		stmt.Columns = append(stmt.Columns, def)
		if self.tok() != TkComma {
			break
		}
		self.lex.Next()
	}
	if err := self.expect(TkRPar, ")"); err != nil {
		return nil, err
	}
	return stmt, nil
}
