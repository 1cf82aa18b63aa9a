package macro

import (
	"strconv"
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
)

// Parser builds a Call from the tokens of one call region.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a parser over tokens produced by a Lexer.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseCall parses source as the content of a call region, i.e. the text
// between "@(" and its closing ")". base is the offset of source in the
// enclosing text and is added to every position.
func ParseCall(source string, base int) (*Call, error) {
	tokens, err := NewLexer(source, base).Tokenize()
	if err != nil {
		return nil, err
	}

	p := NewParser(tokens)
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.unexpected(tok, "end of call")
	}
	return call, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return tok, p.unexpected(tok, t.String())
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(tok Token, want string) error {
	if tok.Type == TokenEOF {
		return diag.Newf(diag.KindMalformedCall, tok.Position, "expected %s, found end of call", want)
	}
	return diag.Newf(diag.KindMalformedCall, tok.Position, "expected %s, found %s", want, describe(tok))
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenIdent, TokenNumber:
		return tok.Type.String() + " " + tok.Value
	case TokenString:
		return "string " + strconv.Quote(tok.Value)
	default:
		return tok.Type.String()
	}
}

// parseCall parses: name "(" [arg {"," arg}] ")".
func (p *Parser) parseCall() (*Call, error) {
	start := p.peek().Position

	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	return p.parseCallRest(name, start)
}

func (p *Parser) parseCallRest(name string, start int) (*Call, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	call := &Call{Name: name, Start: start}

	if p.peek().Type == TokenRParen {
		call.End = p.advance().End
		return call, nil
	}

	for {
		if err := p.parseArg(call); err != nil {
			return nil, err
		}

		tok := p.advance()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRParen:
			call.End = tok.End
			return call, nil
		default:
			return nil, p.unexpected(tok, "',' or ')'")
		}
	}
}

// parseName parses: ident {"." ident}.
func (p *Parser) parseName() (string, error) {
	first, err := p.expect(TokenIdent)
	if err != nil {
		return "", p.unexpected(first, "builtin name")
	}

	parts := []string{first.Value}
	for p.peek().Type == TokenDot {
		p.advance()
		part, err := p.expect(TokenIdent)
		if err != nil {
			return "", p.unexpected(part, "identifier after '.'")
		}
		parts = append(parts, part.Value)
	}
	return strings.Join(parts, "."), nil
}

func (p *Parser) parseArg(call *Call) error {
	if p.peek().Type == TokenLBrace {
		opts, err := p.parseOptions()
		if err != nil {
			return err
		}
		if call.Options != nil {
			return diag.Newf(diag.KindMalformedCall, opts.Start, "%s takes at most one options group", call.Name)
		}
		call.Options = opts
		return nil
	}

	value, err := p.parseValue()
	if err != nil {
		return err
	}
	call.Args = append(call.Args, value)
	return nil
}

// parseOptions parses: "{" [key "=" value {"," key "=" value} [","]] "}".
func (p *Parser) parseOptions() (*Options, error) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}

	opts := &Options{Start: open.Position}
	for {
		if p.peek().Type == TokenRBrace {
			opts.End = p.advance().End
			return opts, nil
		}

		key, err := p.expect(TokenIdent)
		if err != nil {
			return nil, p.unexpected(key, "option name or '}'")
		}
		if _, err := p.expect(TokenAssign); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if _, dup := opts.Get(key.Value); dup {
			return nil, diag.Newf(diag.KindDuplicateOption, key.Position, "option %q is given more than once", key.Value)
		}
		opts.Entries = append(opts.Entries, Option{Key: key.Value, Value: value, Start: key.Position})

		tok := p.peek()
		switch tok.Type {
		case TokenComma:
			p.advance()
		case TokenRBrace:
		default:
			return nil, p.unexpected(tok, "',' or '}'")
		}
	}
}

// parseValue parses: term {".." term}.
func (p *Parser) parseValue() (Value, error) {
	first, err := p.parseTerm()
	if err != nil {
		return Value{}, err
	}
	if p.peek().Type != TokenConcat {
		return first, nil
	}

	concat := Value{Kind: ValueConcat, Parts: []Value{first}, Start: first.Start}
	for p.peek().Type == TokenConcat {
		p.advance()
		next, err := p.parseTerm()
		if err != nil {
			return Value{}, err
		}
		concat.Parts = append(concat.Parts, next)
	}
	concat.End = concat.Parts[len(concat.Parts)-1].End
	return concat, nil
}

func (p *Parser) parseTerm() (Value, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenString:
		p.advance()
		return Value{Kind: ValueString, Str: tok.Value, Start: tok.Position, End: tok.End}, nil

	case TokenNumber:
		p.advance()
		num, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return Value{}, diag.Newf(diag.KindMalformedCall, tok.Position, "invalid number %s", tok.Value)
		}
		return Value{Kind: ValueNumber, Str: tok.Value, Num: num, Start: tok.Position, End: tok.End}, nil

	case TokenCallOpen:
		p.advance()
		call, err := p.parseCall()
		if err != nil {
			return Value{}, err
		}
		closing, err := p.expect(TokenRParen)
		if err != nil {
			return Value{}, p.unexpected(closing, "')' closing '@('")
		}
		call.Start, call.End = tok.Position, closing.End
		return Value{Kind: ValueCall, Call: call, Start: call.Start, End: call.End}, nil

	case TokenLBrace:
		opts, err := p.parseOptions()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueOptions, Options: opts, Start: opts.Start, End: opts.End}, nil

	case TokenIdent:
		switch next := p.tokens[p.current+1].Type; {
		case next == TokenDot || next == TokenLParen:
			call, err := p.parseCall()
			if err != nil {
				return Value{}, err
			}
			return Value{Kind: ValueCall, Call: call, Start: call.Start, End: call.End}, nil
		case tok.Value == "true" || tok.Value == "false":
			p.advance()
			return Value{Kind: ValueBool, Bool: tok.Value == "true", Str: tok.Value, Start: tok.Position, End: tok.End}, nil
		default:
			p.advance()
			return Value{Kind: ValueIdent, Str: tok.Value, Start: tok.Position, End: tok.End}, nil
		}

	default:
		return Value{}, p.unexpected(tok, "a value")
	}
}
