package lang

import (
	"fmt"
	"strings"
)

// ParseError carries the source location of a surface-syntax error, the
// same way the teacher's directive parser reports line information
// back up to the preprocessor driver.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Parser carries, in its mutable File field, the filename its errors
// report. The VM builds a fresh Parser named after each file it parses,
// so parser-raised errors report the filename of the content actually
// being parsed.
type Parser struct {
	File string
}

// New creates a Parser for the given display filename.
func New(file string) *Parser {
	return &Parser{File: file}
}

// Parse tokenizes and parses source into an instruction tree.
func (p *Parser) Parse(source string) ([]Instruction, error) {
	lines := splitLines(source)
	instrs, next, stop, err := p.parseBlock(lines, 0)
	if err != nil {
		return nil, err
	}
	if stop != "" {
		return nil, &ParseError{File: p.File, Line: next + 1, Msg: fmt.Sprintf("unexpected @%s", stop)}
	}
	return instrs, nil
}

// splitLines splits on "\n", keeping the trailing newline attached to
// each line's text so Output instructions reproduce it verbatim; the
// final element has no trailing newline if the source didn't end in one.
func splitLines(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, source[start:i+1])
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, source[start:])
	}
	return lines
}

// parseBlock parses instructions until EOF or a block terminator
// (@else, @elseif, @endif, @endmacro) at this nesting depth. It returns
// the terminator word seen (without "@"), or "" at EOF.
func (p *Parser) parseBlock(lines []string, i int) ([]Instruction, int, string, error) {
	var out []Instruction
	for i < len(lines) {
		raw := lines[i]
		trimmed := strings.TrimLeft(raw, " \t")
		lineNo := i + 1

		if !strings.HasPrefix(trimmed, "@") {
			out = append(out, p.parseTextLine(raw, lineNo)...)
			i++
			continue
		}

		name, rest := splitDirective(trimmed)
		switch name {
		case "else", "elseif", "endif", "endmacro":
			return out, i, name, nil

		case "set":
			variable, value, err := splitAssignment(rest)
			if err != nil {
				return nil, i, "", &ParseError{File: p.File, Line: lineNo, Msg: err.Error()}
			}
			out = append(out, &Set{Variable: variable, Value: value, Line: lineNo})
			i++

		case "include":
			out = append(out, &Include{Value: strings.TrimSpace(rest), Line: lineNo})
			i++

		case "error":
			out = append(out, &Error{Value: strings.TrimSpace(rest), Line: lineNo})
			i++

		case "if":
			cond := &Conditional{Test: strings.TrimSpace(rest), Line: lineNo}
			body, next, stop, err := p.parseBlock(lines, i+1)
			if err != nil {
				return nil, i, "", err
			}
			cond.Consequent = body
			i = next

			for stop == "elseif" {
				elifLine := i + 1
				_, elifRest := splitDirective(strings.TrimLeft(lines[i], " \t"))
				elif := &Conditional{Test: strings.TrimSpace(elifRest), Line: elifLine}
				elifBody, next2, stop2, err2 := p.parseBlock(lines, i+1)
				if err2 != nil {
					return nil, i, "", err2
				}
				elif.Consequent = elifBody
				cond.ElseIfs = append(cond.ElseIfs, elif)
				i = next2
				stop = stop2
			}

			if stop == "else" {
				altBody, next2, stop2, err2 := p.parseBlock(lines, i+1)
				if err2 != nil {
					return nil, i, "", err2
				}
				cond.Alternate = altBody
				i = next2
				stop = stop2
			}

			if stop != "endif" {
				return nil, i, "", &ParseError{File: p.File, Line: lineNo, Msg: "@if without matching @endif"}
			}
			out = append(out, cond)
			i++

		case "macro":
			decl := strings.TrimSpace(rest)
			body, next, stop, err := p.parseBlock(lines, i+1)
			if err != nil {
				return nil, i, "", err
			}
			if stop != "endmacro" {
				return nil, i, "", &ParseError{File: p.File, Line: lineNo, Msg: "@macro without matching @endmacro"}
			}
			out = append(out, &Macro{Declaration: decl, Body: body, Line: lineNo})
			i = next + 1

		default:
			return nil, i, "", &ParseError{File: p.File, Line: lineNo, Msg: fmt.Sprintf("unknown directive @%s", name)}
		}
	}
	return out, i, "", nil
}

// splitDirective splits "@name rest-of-line" into ("name", "rest").
func splitDirective(trimmed string) (name, rest string) {
	body := strings.TrimPrefix(trimmed, "@")
	body = strings.TrimRight(body, "\r\n")
	idx := strings.IndexAny(body, " \t")
	if idx < 0 {
		return body, ""
	}
	return body[:idx], body[idx+1:]
}

// splitAssignment splits "name = expr" for @set.
func splitAssignment(rest string) (variable, value string, err error) {
	idx := strings.Index(rest, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("@set requires 'name = expression'")
	}
	variable = strings.TrimSpace(rest[:idx])
	value = strings.TrimSpace(rest[idx+1:])
	if variable == "" {
		return "", "", fmt.Errorf("@set requires a variable name")
	}
	return variable, value, nil
}

// parseTextLine splits a literal text line into alternating literal and
// "{{ expr }}" interpolation Output instructions.
func (p *Parser) parseTextLine(raw string, lineNo int) []Instruction {
	var out []Instruction
	text := raw
	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], "}}")
		if end < 0 {
			break
		}
		end += start

		if start > 0 {
			out = append(out, &Output{Value: text[:start], Computed: true, Line: lineNo})
		}
		expr := strings.TrimSpace(text[start+2 : end])
		out = append(out, &Output{Value: expr, Computed: false, Line: lineNo})
		text = text[end+2:]
	}
	if text != "" {
		out = append(out, &Output{Value: text, Computed: true, Line: lineNo})
	}
	return out
}
