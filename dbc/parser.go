// Package dbc implements a parser for the DBC CAN database text format: a
// line-oriented descriptor of a CAN network's nodes, messages, signals,
// attribute definitions and value tables.
package dbc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	candb "github.com/stefanhoelzl/go-candb"
	"github.com/stefanhoelzl/go-candb/attribute"
)

// ErrParse is the sentinel wrapped by every error returned while reading a
// malformed or unexpected line. Parsing stops at the first one.
var ErrParse = errors.New("parse error")

// ParseError carries the 1-based line number and offending text alongside
// the wrapped ErrParse sentinel.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dbc: line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(line int, text string, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Text: text, Err: fmt.Errorf(format+": %w", append(args, ErrParse)...)}
}

// mode is the parser's discriminated-union state: Normal, InMessage (a
// BO_ block collecting SG_ lines), or InMultilineDescription (a CM_ block
// spanning several lines before its closing `";`).
type mode int

const (
	modeNormal mode = iota
	modeInMessage
	modeInMultilineDescription
)

// describable is implemented by every model object a CM_ line can target.
type describable interface {
	SetDescription(string)
}

// keyword is one entry of the fixed-order dispatch table. Order matters:
// a line is routed to the first keyword whose prefix matches, so longer
// keywords that share a prefix with a shorter one (BA_DEF_DEF_ vs BA_DEF_
// vs BA_, VAL_TABLE_ vs VAL_) must be listed before it.
type keyword struct {
	prefix  string
	handler func(p *parser, line string) error
}

var keywordTable = []keyword{
	{"VERSION", (*parser).parseVersion},
	{"BU_", (*parser).parseNodes},
	{"BS_", (*parser).parseBusSpeed},
	{"BO_", (*parser).parseMessage},
	{"SG_", (*parser).parseSignal},
	{"CM_", (*parser).parseDescription},
	{"BA_DEF_DEF_", (*parser).parseAttrDefault},
	{"BA_DEF_", (*parser).parseAttrDefinition},
	{"BA_", (*parser).parseAttrValue},
	{"VAL_TABLE_", (*parser).parseValueTable},
	{"VAL_", (*parser).parseValueAssignment},
}

type parser struct {
	network *candb.Network

	mode          mode
	message       *candb.Message
	descTarget    describable
	descBuf       strings.Builder
	forcedHandler func(p *parser, line string) error

	lineNum int
}

// Parse reads DBC text from r and builds the Network it describes.
func Parse(r io.Reader) (*candb.Network, error) {
	p := &parser{network: candb.NewNetwork()}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dbc: reading input: %w", err)
	}
	return p.network, nil
}

// ParseFile opens path and parses it as a DBC file.
func ParseFile(path string) (*candb.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dbc: opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func (p *parser) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if p.mode == modeInMultilineDescription {
		return p.forcedHandler(p, line)
	}
	if trimmed == "" {
		return nil
	}
	for _, kw := range keywordTable {
		if strings.HasPrefix(trimmed, kw.prefix) {
			return kw.handler(p, trimmed)
		}
	}
	// unmatched keyword lines are ignored rather than rejected.
	return nil
}

func (p *parser) parseVersion(line string) error {
	text, ok := firstQuoted(line)
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed VERSION line")
	}
	p.network.Version = text
	p.mode = modeNormal
	return nil
}

func (p *parser) parseNodes(line string) error {
	rest, ok := after(line, "BU_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BU_ line")
	}
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
	for _, name := range strings.Fields(rest) {
		p.network.AddNode(candb.NewNode(name))
	}
	p.mode = modeNormal
	return nil
}

func (p *parser) parseBusSpeed(line string) error {
	rest, ok := after(line, "BS_")
	if !ok {
		return nil
	}
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		p.mode = modeNormal
		return nil
	}
	fields := strings.Fields(rest)
	if speed, err := strconv.ParseUint(fields[0], 10, 32); err == nil {
		p.network.Speed = uint(speed)
	}
	p.mode = modeNormal
	return nil
}

func (p *parser) parseMessage(line string) error {
	rest, ok := after(line, "BO_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BO_ line")
	}
	tokens := tokenize(rest)
	if len(tokens) < 4 || !strings.HasSuffix(tokens[1], ":") {
		return parseErrorf(p.lineNum, line, "malformed BO_ line")
	}
	canID, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[0])
	}
	name := strings.TrimSuffix(tokens[1], ":")
	length, err := strconv.ParseUint(tokens[2], 10, 32)
	if err != nil {
		return parseErrorf(p.lineNum, line, "invalid length %q", tokens[2])
	}
	sender, ok := p.network.Nodes[tokens[3]]
	if !ok {
		return parseErrorf(p.lineNum, line, "unknown sender node %q", tokens[3])
	}

	msg := candb.NewMessage(uint32(canID), name, uint(length))
	if err := sender.AddMessage(msg); err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	p.mode = modeInMessage
	p.message = msg
	return nil
}

func (p *parser) parseSignal(line string) error {
	if p.mode != modeInMessage {
		return parseErrorf(p.lineNum, line, "signal description not in message block")
	}
	rest, ok := after(line, "SG_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed SG_ line")
	}
	tokens := tokenize(rest)
	if len(tokens) < 2 {
		return parseErrorf(p.lineNum, line, "malformed SG_ line")
	}
	name := tokens[0]

	idx := 1
	var isMultiplexer bool
	var multiplexerID *uint
	if tokens[idx] != ":" {
		mux := tokens[idx]
		switch {
		case mux == "M":
			isMultiplexer = true
		case strings.HasPrefix(mux, "m"):
			id, err := strconv.ParseUint(mux[1:], 10, 32)
			if err != nil {
				return parseErrorf(p.lineNum, line, "invalid multiplexer id %q", mux)
			}
			v := uint(id)
			multiplexerID = &v
		default:
			return parseErrorf(p.lineNum, line, "malformed multiplexer token %q", mux)
		}
		idx++
	}
	if idx >= len(tokens) || tokens[idx] != ":" {
		return parseErrorf(p.lineNum, line, "malformed SG_ line, expected ':'")
	}
	idx++
	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed SG_ line, missing layout")
	}
	layout := tokens[idx]
	idx++

	startBit, length, littleEndian, signed, err := parseSignalLayout(layout)
	if err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}

	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed SG_ line, missing factor/offset")
	}
	factor, offset, err := parseFactorOffset(tokens[idx])
	if err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	idx++

	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed SG_ line, missing min/max")
	}
	minVal, maxVal, err := parseMinMax(tokens[idx])
	if err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	idx++

	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed SG_ line, missing unit")
	}
	unit := strings.Trim(tokens[idx], `"`)
	idx++

	signal := candb.NewSignal(name, startBit, length, littleEndian, signed, factor, offset, minVal, maxVal, unit)
	signal.IsMultiplexer = isMultiplexer
	signal.MultiplexerID = multiplexerID

	for _, recv := range tokens[idx:] {
		node, ok := p.network.Nodes[recv]
		if !ok {
			continue
		}
		signal.AddReceiver(node)
	}

	if err := p.message.AddSignal(signal); err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	return nil
}

// parseSignalLayout parses "start|length@endian+sign".
func parseSignalLayout(s string) (startBit, length uint, littleEndian, signed bool, err error) {
	pipe := strings.IndexByte(s, '|')
	at := strings.IndexByte(s, '@')
	if pipe < 0 || at < 0 || at < pipe {
		return 0, 0, false, false, fmt.Errorf("malformed signal layout %q", s)
	}
	start, err := strconv.ParseUint(s[:pipe], 10, 32)
	if err != nil {
		return 0, 0, false, false, fmt.Errorf("invalid start bit in %q", s)
	}
	length64, err := strconv.ParseUint(s[pipe+1:at], 10, 32)
	if err != nil {
		return 0, 0, false, false, fmt.Errorf("invalid length in %q", s)
	}
	if len(s) < at+2 {
		return 0, 0, false, false, fmt.Errorf("malformed signal layout %q", s)
	}
	endianTok := s[at+1]
	signTok := s[at+2]
	return uint(start), uint(length64), endianTok == '1', signTok == '-', nil
}

// parseFactorOffset parses "(factor,offset)".
func parseFactorOffset(s string) (factor, offset float64, err error) {
	s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed factor/offset %q", s)
	}
	factor, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid factor in %q", s)
	}
	offset, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset in %q", s)
	}
	return factor, offset, nil
}

// parseMinMax parses "[min|max]".
func parseMinMax(s string) (min, max float64, err error) {
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed min/max %q", s)
	}
	min, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min in %q", s)
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max in %q", s)
	}
	return min, max, nil
}

func (p *parser) parseDescription(line string) error {
	rest, ok := after(line, "CM_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed CM_ line")
	}
	rest = strings.TrimSpace(rest)

	var target describable
	switch {
	case strings.HasPrefix(rest, "BU_"):
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "BU_"))
		tokens := tokenize(rest)
		if len(tokens) < 1 {
			return parseErrorf(p.lineNum, line, "malformed CM_ BU_ line")
		}
		node, ok := p.network.Nodes[tokens[0]]
		if !ok {
			return parseErrorf(p.lineNum, line, "unknown node %q", tokens[0])
		}
		target = node
		rest = strings.TrimSpace(strings.TrimPrefix(rest, tokens[0]))
	case strings.HasPrefix(rest, "BO_"):
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "BO_"))
		tokens := tokenize(rest)
		if len(tokens) < 1 {
			return parseErrorf(p.lineNum, line, "malformed CM_ BO_ line")
		}
		canID, err := strconv.ParseUint(tokens[0], 10, 32)
		if err != nil {
			return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[0])
		}
		msg := p.network.GetMessage(uint32(canID))
		if msg == nil {
			return parseErrorf(p.lineNum, line, "unknown message %d", canID)
		}
		target = msg
		rest = strings.TrimSpace(strings.TrimPrefix(rest, tokens[0]))
	case strings.HasPrefix(rest, "SG_"):
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "SG_"))
		tokens := tokenize(rest)
		if len(tokens) < 2 {
			return parseErrorf(p.lineNum, line, "malformed CM_ SG_ line")
		}
		canID, err := strconv.ParseUint(tokens[0], 10, 32)
		if err != nil {
			return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[0])
		}
		sig := p.network.GetSignal(uint32(canID), tokens[1])
		if sig == nil {
			return parseErrorf(p.lineNum, line, "unknown signal %s on message %d", tokens[1], canID)
		}
		target = sig
		rest = strings.TrimSpace(strings.TrimPrefix(rest, tokens[0]))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, tokens[1]))
	default:
		target = p.network
	}

	quoteIdx := strings.IndexByte(rest, '"')
	if quoteIdx < 0 {
		return parseErrorf(p.lineNum, line, "malformed CM_ line, missing opening quote")
	}
	body := rest[quoteIdx+1:]
	return p.startOrCloseDescription(target, body)
}

func (p *parser) startOrCloseDescription(target describable, body string) error {
	if strings.HasSuffix(strings.TrimRight(body, " \t"), `";`) {
		target.SetDescription(strings.TrimSuffix(strings.TrimRight(body, " \t"), `";`))
		p.mode = modeNormal
		return nil
	}
	p.descTarget = target
	p.descBuf.Reset()
	p.descBuf.WriteString(body)
	p.descBuf.WriteByte('\n')
	p.mode = modeInMultilineDescription
	p.forcedHandler = (*parser).continueMultilineDescription
	return nil
}

func (p *parser) continueMultilineDescription(line string) error {
	if strings.HasSuffix(line, `";`) {
		p.descBuf.WriteString(strings.TrimSuffix(line, `";`))
		p.descTarget.SetDescription(p.descBuf.String())
		p.mode = modeNormal
		p.forcedHandler = nil
		return nil
	}
	p.descBuf.WriteString(line)
	p.descBuf.WriteByte('\n')
	return nil
}

func (p *parser) parseAttrDefinition(line string) error {
	rest, ok := after(line, "BA_DEF_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BA_DEF_ line")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	tokens := tokenize(rest)
	if len(tokens) < 2 {
		return parseErrorf(p.lineNum, line, "malformed BA_DEF_ line")
	}

	idx := 0
	objType := attribute.ObjectTypeNetwork
	switch tokens[0] {
	case "BU_":
		objType = attribute.ObjectTypeNode
		idx++
	case "BO_":
		objType = attribute.ObjectTypeMessage
		idx++
	case "SG_":
		objType = attribute.ObjectTypeSignal
		idx++
	}

	name := unquote(tokens[idx])
	idx++
	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed BA_DEF_ line, missing kind")
	}
	kind := tokens[idx]
	idx++

	var def *attribute.Definition
	switch kind {
	case "STRING":
		def = attribute.NewStringDefinition(name, objType)
	case "INT":
		if idx+1 >= len(tokens) {
			return parseErrorf(p.lineNum, line, "malformed BA_DEF_ INT line, missing min/max")
		}
		min, err1 := strconv.ParseFloat(tokens[idx], 64)
		max, err2 := strconv.ParseFloat(tokens[idx+1], 64)
		if err1 != nil || err2 != nil {
			return parseErrorf(p.lineNum, line, "invalid INT bounds")
		}
		def = attribute.NewIntDefinition(name, objType, min, max)
	case "FLOAT":
		if idx+1 >= len(tokens) {
			return parseErrorf(p.lineNum, line, "malformed BA_DEF_ FLOAT line, missing min/max")
		}
		min, err1 := strconv.ParseFloat(tokens[idx], 64)
		max, err2 := strconv.ParseFloat(tokens[idx+1], 64)
		if err1 != nil || err2 != nil {
			return parseErrorf(p.lineNum, line, "invalid FLOAT bounds")
		}
		def = attribute.NewFloatDefinition(name, objType, min, max)
	case "ENUM":
		values := splitEnumValues(strings.Join(tokens[idx:], " "))
		def = attribute.NewEnumDefinition(name, objType, values)
	default:
		return parseErrorf(p.lineNum, line, "unknown attribute kind %q", kind)
	}

	p.network.Attributes.AddDefinition(def)
	p.mode = modeNormal
	return nil
}

func (p *parser) parseAttrDefault(line string) error {
	rest, ok := after(line, "BA_DEF_DEF_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BA_DEF_DEF_ line")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	name, valueTok, ok := splitQuotedNameAndRest(rest)
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BA_DEF_DEF_ line")
	}

	def, ok := p.network.Attributes.Definition(name)
	if !ok {
		// permissive: default for an undeclared attribute is ignored.
		p.mode = modeNormal
		return nil
	}
	def.SetDefault(parseAttrLiteral(valueTok))
	p.mode = modeNormal
	return nil
}

func (p *parser) parseAttrValue(line string) error {
	rest, ok := after(line, "BA_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BA_ line")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	name, rest, ok := splitQuotedNameAndRest(rest)
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed BA_ line")
	}
	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return parseErrorf(p.lineNum, line, "malformed BA_ line, missing value")
	}

	var container *attribute.Container
	idx := 0
	switch tokens[0] {
	case "BU_":
		if len(tokens) < 3 {
			return parseErrorf(p.lineNum, line, "malformed BA_ BU_ line")
		}
		node, ok := p.network.Nodes[tokens[1]]
		if !ok {
			return parseErrorf(p.lineNum, line, "unknown node %q", tokens[1])
		}
		container = node.Attributes
		idx = 2
	case "BO_":
		if len(tokens) < 3 {
			return parseErrorf(p.lineNum, line, "malformed BA_ BO_ line")
		}
		canID, err := strconv.ParseUint(tokens[1], 10, 32)
		if err != nil {
			return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[1])
		}
		msg := p.network.GetMessage(uint32(canID))
		if msg == nil {
			return parseErrorf(p.lineNum, line, "unknown message %d", canID)
		}
		container = msg.Attributes
		idx = 2
	case "SG_":
		if len(tokens) < 4 {
			return parseErrorf(p.lineNum, line, "malformed BA_ SG_ line")
		}
		canID, err := strconv.ParseUint(tokens[1], 10, 32)
		if err != nil {
			return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[1])
		}
		sig := p.network.GetSignal(uint32(canID), tokens[2])
		if sig == nil {
			return parseErrorf(p.lineNum, line, "unknown signal %s on message %d", tokens[2], canID)
		}
		container = sig.Attributes
		idx = 3
	default:
		container = p.network.Attributes
		idx = 0
	}

	if idx >= len(tokens) {
		return parseErrorf(p.lineNum, line, "malformed BA_ line, missing value")
	}
	def, ok := p.network.Attributes.Definition(name)
	if !ok {
		return parseErrorf(p.lineNum, line, "attribute %q has no definition", name)
	}
	attr, err := attribute.NewAttribute(def, parseAttrLiteral(tokens[idx]))
	if err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	container.Add(attr)
	p.mode = modeNormal
	return nil
}

func (p *parser) parseValueTable(line string) error {
	rest, ok := after(line, "VAL_TABLE_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed VAL_TABLE_ line")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	tokens := tokenize(rest)
	if len(tokens) < 1 {
		return parseErrorf(p.lineNum, line, "malformed VAL_TABLE_ line")
	}
	vt := candb.NewValueTable(tokens[0])
	if err := fillValueTablePairs(vt, tokens[1:]); err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	p.network.AddValueTable(vt)
	p.mode = modeNormal
	return nil
}

func (p *parser) parseValueAssignment(line string) error {
	rest, ok := after(line, "VAL_")
	if !ok {
		return parseErrorf(p.lineNum, line, "malformed VAL_ line")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	tokens := tokenize(rest)
	if len(tokens) < 3 {
		return parseErrorf(p.lineNum, line, "malformed VAL_ line")
	}
	canID, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return parseErrorf(p.lineNum, line, "invalid can_id %q", tokens[0])
	}
	sig := p.network.GetSignal(uint32(canID), tokens[1])
	if sig == nil {
		return parseErrorf(p.lineNum, line, "unknown signal %s on message %d", tokens[1], canID)
	}

	rem := tokens[2:]
	if len(rem) == 1 {
		if vt, ok := p.network.ValueTables[rem[0]]; ok {
			sig.ValueTable = vt
			p.mode = modeNormal
			return nil
		}
	}
	vt := candb.NewValueTable("")
	if err := fillValueTablePairs(vt, rem); err != nil {
		return parseErrorf(p.lineNum, line, "%v", err)
	}
	sig.ValueTable = vt
	p.mode = modeNormal
	return nil
}

func fillValueTablePairs(vt *candb.ValueTable, tokens []string) error {
	for i := 0; i+1 < len(tokens); i += 2 {
		key, err := strconv.ParseInt(tokens[i], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value table key %q", tokens[i])
		}
		vt.Values[key] = unquote(tokens[i+1])
	}
	return nil
}

// after reports whether line starts with keyword and returns the text
// following it.
func after(line, keyword string) (string, bool) {
	if !strings.HasPrefix(line, keyword) {
		return "", false
	}
	return line[len(keyword):], true
}

// firstQuoted returns the contents of the first double-quoted substring.
func firstQuoted(s string) (string, bool) {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return "", false
	}
	return s[start+1 : start+1+end], true
}

// splitQuotedNameAndRest parses `"name" rest` and returns name unquoted
// and rest trimmed.
func splitQuotedNameAndRest(s string) (name, rest string, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != '"' {
		return "", "", false
	}
	end := strings.IndexByte(s[1:], '"')
	if end < 0 {
		return "", "", false
	}
	name = s[1 : 1+end]
	rest = strings.TrimSpace(s[1+end+1:])
	return name, rest, true
}

// unquote strips a single pair of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// splitEnumValues splits a comma-separated list of quoted enum value
// literals, e.g. `"Cyclic","OnWrite","OnChange"`.
func splitEnumValues(s string) []string {
	var values []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, unquote(part))
	}
	return values
}

// parseAttrLiteral renders a BA_/BA_DEF_DEF_ value token as the concrete
// value handed to the attribute casting rules: a quoted token becomes a
// string, otherwise it is tried as an integer then a float, falling back
// to the raw token text.
func parseAttrLiteral(tok string) interface{} {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return tok[1 : len(tok)-1]
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

// tokenize splits s on whitespace, keeping any double-quoted substring
// (including its quotes) together as a single token.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
