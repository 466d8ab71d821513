// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/stackvm/internal"
)

// Disassembler reconstructs assembly source from a memory image.
//
// The image carries no section boundaries, so candidate layouts are
// enumerated in address order, and the first layout whose symbol references
// are consistent is used. The output re-assembles to an identical image.
//
// The layouts of each span of declarations are enumerated once, and shared
// by every enclosing candidate. A function body whose references into its
// own span are inconsistent is dropped as soon as its commands are known.
type Disassembler struct {
	Verbose bool               // If set, verbosely logs the disassembler actions.
	Log     logrus.FieldLogger // Logger for verbose output; defaults to the logrus standard logger.

	mem       *Image
	decls     map[span]*internal.IterSeqCache[*region]
	functions map[span]*internal.IterSeqCache[[]function]
}

// span is a half open address range of the image.
type span struct {
	from, to uint32
}

// region is one body of the program: the top level, or a function.
type region struct {
	Strings   []uint32   // Addresses of the strings.
	Labels    []uint32   // Label slots.
	Functions []function // Nested functions.
	Entry     uint32     // Address of the first command.
	End       uint32     // Address after the last command.
}

type function struct {
	Slot uint32
	Body *region
}

func (r *region) clone() (c *region) {
	c = &region{
		Strings: slices.Clone(r.Strings),
		Labels:  slices.Clone(r.Labels),
		Entry:   r.Entry,
		End:     r.End,
	}
	for _, fn := range r.Functions {
		c.Functions = append(c.Functions, function{Slot: fn.Slot, Body: fn.Body.clone()})
	}
	return
}

// all iterates over the region and all nested function bodies, in address order.
func (r *region) all() iter.Seq[*region] {
	return func(yield func(*region) bool) {
		r.walk(yield)
	}
}

func (r *region) walk(yield func(*region) bool) bool {
	if !yield(r) {
		return false
	}
	for _, fn := range r.Functions {
		if !fn.Body.walk(yield) {
			return false
		}
	}
	return true
}

// Disassemble returns the assembly source of an image.
func Disassemble(img *Image) (text string, err error) {
	dis := &Disassembler{}
	return dis.Disassemble(img)
}

// Disassemble returns the assembly source of an image.
func (dis *Disassembler) Disassemble(img *Image) (text string, err error) {
	var sb strings.Builder
	err = dis.Fprint(&sb, img)
	if err != nil {
		return
	}

	text = sb.String()
	return
}

// Fprint writes the assembly source of an image to w.
func (dis *Disassembler) Fprint(w io.Writer, img *Image) (err error) {
	top, err := dis.layout(img)
	if err != nil {
		return
	}

	bw := bufio.NewWriter(w)
	p := &printer{mem: img, w: bw, placed: make(map[uint32]bool)}
	for r := range top.all() {
		for _, slot := range r.Labels {
			if img[slot] != 0 {
				p.pending = append(p.pending, slot)
			}
		}
	}
	p.region(top, 0)

	return bw.Flush()
}

func (dis *Disassembler) log() logrus.FieldLogger {
	return internal.Logger(dis.Log)
}

// layout recovers the region structure of an image.
func (dis *Disassembler) layout(img *Image) (top *region, err error) {
	dis.mem = img
	dis.decls = make(map[span]*internal.IterSeqCache[*region])
	dis.functions = make(map[span]*internal.IterSeqCache[[]function])
	defer func() {
		for _, cache := range dis.decls {
			cache.Stop()
		}
		for _, cache := range dis.functions {
			cache.Stop()
		}
		dis.mem, dis.decls, dis.functions = nil, nil, nil
	}()

	ip, sp := img.Ip(), img.Sp()
	if ip < SLOT_FIRST_FREE || ip > sp || sp > MEMORY_SIZE || (sp-ip)%CODE_WORDS != 0 {
		err = invalidFile(ErrImageLayout)
		return
	}

	for slot := SLOT_REG1; slot <= SLOT_RES; slot++ {
		if img[slot] != Literal(0) {
			err = invalidFile(ErrImageLayout)
			return
		}
	}

	for addr := sp; addr < MEMORY_SIZE; addr++ {
		if img[addr] != 0 {
			err = invalidFile(ErrImageLayout)
			return
		}
	}

	for addr := ip; addr < sp; addr += CODE_WORDS {
		if !DecodeCode(img[:], addr).Valid() {
			err = invalidFile(ErrImageLayout)
			return
		}
	}

	candidates := 0
	for decls := range dis.parseDecls(SLOT_FIRST_FREE, ip) {
		candidates++
		cand := *decls
		cand.Entry = ip
		cand.End = sp
		top = dis.resolve(&cand)
		if top != nil {
			break
		}
	}

	if dis.Verbose {
		dis.log().WithFields(logrus.Fields{
			"ip":         ip,
			"sp":         sp,
			"candidates": candidates,
			"spans":      len(dis.decls) + len(dis.functions),
		}).Debug("disassembler: layout")
	}

	if top == nil {
		err = invalidFile(ErrImageLayout)
	}

	return
}

// isLabelValue returns true if the word could be the value of a label slot.
func isLabelValue(word uint32) bool {
	return word == 0 || (word >= SLOT_FIRST_FREE && word <= MEMORY_SIZE)
}

// parseString returns the string at addr, and the address following it.
// Text that would not survive a trip through the assembler is rejected.
func (dis *Disassembler) parseString(addr, to uint32) (next uint32, ok bool) {
	text, ok := UnpackString(dis.mem[:], addr)
	if !ok || strings.ContainsRune(text, '\n') || strings.HasSuffix(text, "\r") {
		ok = false
		return
	}

	words := PackString(text)
	next = addr + uint32(len(words))
	if next > to || !slices.Equal(words, dis.mem[addr:next]) {
		ok = false
		return
	}

	return
}

// parseStrings parses the strings section starting at from.
// A run of zero words is taken as empty strings only when another string
// follows; a trailing run is left for the labels section.
func (dis *Disassembler) parseStrings(from, to uint32) (strs []uint32, next uint32, ok bool) {
	next = from
	for next < to {
		if dis.mem[next] == 0 {
			run := next
			for run < to && dis.mem[run] == 0 {
				run++
			}
			if run == to || dis.mem[run] < 1<<24 {
				break
			}
			for ; next < run; next++ {
				strs = append(strs, next)
			}
			continue
		}

		if dis.mem[next] < 1<<24 {
			break
		}

		addr := next
		next, ok = dis.parseString(addr, to)
		if !ok {
			return
		}
		strs = append(strs, addr)
	}

	ok = true
	return
}

// parseDecls enumerates the layouts of the declarations in [from, to).
func (dis *Disassembler) parseDecls(from, to uint32) iter.Seq[*region] {
	key := span{from: from, to: to}
	cache, ok := dis.decls[key]
	if !ok {
		cache = internal.NewIterSeqCache(dis.enumDecls(from, to))
		dis.decls[key] = cache
	}

	return cache.All()
}

func (dis *Disassembler) enumDecls(from, to uint32) iter.Seq[*region] {
	strs, p, ok := dis.parseStrings(from, to)
	if !ok {
		return func(func(*region) bool) {}
	}

	var seqs []iter.Seq[*region]
	for q := p; q <= to; q++ {
		seqs = append(seqs, func(yield func(*region) bool) {
			for fns := range dis.parseFunctions(q, to) {
				r := &region{
					Strings:   strs,
					Labels:    labelSlots(p, q),
					Functions: fns,
				}
				if !yield(r) {
					return
				}
			}
		})
		if q < to && !isLabelValue(dis.mem[q]) {
			break
		}
	}

	return internal.IterSeqConcat(seqs...)
}

func labelSlots(from, to uint32) (slots []uint32) {
	for slot := from; slot < to; slot++ {
		slots = append(slots, slot)
	}
	return
}

// parseFunctions enumerates the layouts of a functions section in [q, to).
func (dis *Disassembler) parseFunctions(q, to uint32) iter.Seq[[]function] {
	key := span{from: q, to: to}
	cache, ok := dis.functions[key]
	if !ok {
		cache = internal.NewIterSeqCache(dis.enumFunctions(q, to))
		dis.functions[key] = cache
	}

	return cache.All()
}

func (dis *Disassembler) enumFunctions(q, to uint32) iter.Seq[[]function] {
	return func(yield func([]function) bool) {
		if q == to {
			yield(nil)
			return
		}

		entry := dis.mem[q]
		if entry <= q || entry > to {
			return
		}

		for body := range dis.parseDecls(q+1, entry) {
			for x := entry; ; x += CODE_WORDS {
				// The body ends at the parent's commands, or at a sibling slot.
				if x == to || (dis.mem[x] > x && dis.mem[x] <= to) {
					b := *body
					b.Entry, b.End = entry, x
					if dis.consistent(&b, q+1) {
						fn := function{Slot: q, Body: &b}
						for rest := range dis.parseFunctions(x, to) {
							if !yield(append([]function{fn}, rest...)) {
								return
							}
						}
					}
				}

				if x+CODE_WORDS > to || !DecodeCode(dis.mem[:], x).Valid() {
					break
				}
			}
		}
	}
}

// symbols classifies the words of a candidate layout.
type symbols struct {
	strs      map[uint32]bool // String addresses.
	zeros     map[uint32]bool // Unplaced labels that may yet stand for empty strings.
	labels    map[uint32]bool // Label slots.
	functions map[uint32]bool // Function slots.
	targets   map[uint32]bool // Instruction addresses and region ends.
}

func (dis *Disassembler) symbolsOf(top *region) (syms *symbols) {
	syms = &symbols{
		strs:      make(map[uint32]bool),
		zeros:     make(map[uint32]bool),
		labels:    make(map[uint32]bool),
		functions: make(map[uint32]bool),
		targets:   make(map[uint32]bool),
	}

	for r := range top.all() {
		for _, addr := range r.Strings {
			syms.strs[addr] = true
		}
		leading := true
		for _, slot := range r.Labels {
			leading = leading && dis.mem[slot] == 0
			if leading {
				syms.zeros[slot] = true
			}
			syms.labels[slot] = true
		}
		for _, fn := range r.Functions {
			syms.functions[fn.Slot] = true
		}
		for addr := r.Entry; addr < r.End; addr += CODE_WORDS {
			syms.targets[addr] = true
		}
		syms.targets[r.End] = true
	}

	return
}

// reference returns the symbol slot an instruction refers to, if any.
func reference(code Code) (slot uint32, ok bool) {
	switch code.Op {
	case OP_IF:
		return code.Arg[1], true
	case OP_CALL, OP_STR:
		return code.Arg[0], true
	}
	return
}

// refers returns true if the instruction at addr refers to a symbol of the
// right kind, declared before it.
func (syms *symbols) refers(mem *Image, addr uint32, code Code) bool {
	slot, ok := reference(code)
	if !ok {
		return true
	}
	if slot >= addr {
		return false
	}

	switch code.Op {
	case OP_IF:
		return syms.labels[slot] && mem[slot] != 0
	case OP_CALL:
		return syms.functions[slot]
	default:
		return syms.strs[slot] || syms.zeros[slot]
	}
}

// placed returns true if the label at slot is unplaced, or placed on an
// instruction or region end in targets.
func (syms *symbols) placed(mem *Image, slot uint32) bool {
	value := mem[slot]
	return value == 0 || (value > slot && syms.targets[value])
}

// consistent checks a function body whose declarations start at from,
// against the references that land in its own span [from, r.End). Label
// values and references outside the span are left to the enclosing layout.
func (dis *Disassembler) consistent(r *region, from uint32) bool {
	mem := dis.mem
	syms := dis.symbolsOf(r)

	for slot := range syms.labels {
		value := mem[slot]
		inside := value >= from && value <= r.End
		if value != 0 && (value <= slot || inside) && !syms.placed(mem, slot) {
			return false
		}
	}

	for sub := range r.all() {
		for addr := sub.Entry; addr < sub.End; addr += CODE_WORDS {
			code := DecodeCode(mem[:], addr)
			slot, ok := reference(code)
			if ok && slot >= from && slot < r.End && !syms.refers(mem, addr, code) {
				return false
			}
		}
	}

	return true
}

// resolve checks that every symbol reference of a candidate layout names
// a symbol of the right kind, declared before its use. Zero words of the
// labels section referenced by str become empty strings.
// Returns nil if the layout is inconsistent.
func (dis *Disassembler) resolve(cand *region) (top *region) {
	mem := dis.mem
	top = cand.clone()

	strRefs := make(map[uint32]bool)
	for r := range top.all() {
		for addr := r.Entry; addr < r.End; addr += CODE_WORDS {
			code := DecodeCode(mem[:], addr)
			if code.Op == OP_STR {
				strRefs[code.Arg[0]] = true
			}
		}
	}

	for r := range top.all() {
		last := -1
		for n, slot := range r.Labels {
			if mem[slot] != 0 {
				break
			}
			if strRefs[slot] {
				last = n
			}
		}
		if last >= 0 {
			r.Strings = append(r.Strings, r.Labels[:last+1]...)
			r.Labels = r.Labels[last+1:]
		}
	}

	syms := dis.symbolsOf(top)
	syms.zeros = nil

	for slot := range syms.labels {
		if !syms.placed(mem, slot) {
			return nil
		}
	}

	for r := range top.all() {
		for addr := r.Entry; addr < r.End; addr += CODE_WORDS {
			if !syms.refers(mem, addr, DecodeCode(mem[:], addr)) {
				return nil
			}
		}
	}

	return
}

// printer writes the source text of a region tree.
type printer struct {
	mem     *Image
	w       *bufio.Writer
	pending []uint32        // Placed labels, by slot.
	placed  map[uint32]bool // Labels already emitted.
}

func (p *printer) line(depth int, format string, args ...any) {
	for range depth {
		p.w.WriteByte('\t')
	}
	fmt.Fprintf(p.w, format, args...)
	p.w.WriteByte('\n')
}

// place emits a label statement for every label whose value is addr.
func (p *printer) place(depth int, addr uint32) {
	for _, slot := range p.pending {
		if p.mem[slot] == addr && !p.placed[slot] {
			p.placed[slot] = true
			p.line(depth, "%v label%d", KEYWORD_LABEL, slot)
		}
	}
}

func (p *printer) region(r *region, depth int) {
	if len(r.Strings) > 0 {
		p.line(depth, KEYWORD_STRINGS)
		for _, addr := range r.Strings {
			text, _ := UnpackString(p.mem[:], addr)
			if len(text) == 0 {
				p.line(depth+1, "string%d", addr)
			} else {
				p.line(depth+1, "string%d %s", addr, text)
			}
		}
		p.line(depth, KEYWORD_END)
	}

	if len(r.Labels) > 0 {
		p.line(depth, KEYWORD_LABELS)
		for _, slot := range r.Labels {
			p.line(depth+1, "label%d", slot)
		}
		p.line(depth, KEYWORD_END)
	}

	if len(r.Functions) > 0 {
		p.line(depth, KEYWORD_FUNCTIONS)
		for _, fn := range r.Functions {
			p.line(depth+1, "function%d", fn.Slot)
			p.region(fn.Body, depth+2)
		}
		p.line(depth, KEYWORD_END)
	}

	p.line(depth, KEYWORD_COMMANDS)
	for addr := r.Entry; addr < r.End; addr += CODE_WORDS {
		p.place(depth+1, addr)
		p.line(depth+1, "%v", DecodeCode(p.mem[:], addr))
	}
	p.place(depth+1, r.End)
	p.line(depth, KEYWORD_END)
}
