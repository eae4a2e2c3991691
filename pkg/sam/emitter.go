package sam

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/haroldo-ok/twee2sam/pkg/expr"
	"github.com/haroldo-ok/twee2sam/pkg/passage"
)

// printWidth is what a printed number can take in the text buffer: five
// digits and a sign.
const printWidth = 6

// menuOption is a link waiting for the menu at the end of the passage.
type menuOption struct {
	link   *passage.Link
	guard  string // temp register, empty when the link is always offered
	target int
}

// emitter generates the script of one passage.
type emitter struct {
	c     *compiler
	title string
	log   *slog.Logger

	lines   []string
	guards  []string
	options []menuOption

	pending    bool // text pushed since the last flush
	used       int  // buffer bytes used since the last flush
	overflowed bool

	displaying map[string]bool
}

func newEmitter(c *compiler, title string) *emitter {
	return &emitter{
		c:          c,
		title:      title,
		log:        c.log.With("passage", title),
		displaying: map[string]bool{title: true},
	}
}

func (e *emitter) line(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

func (e *emitter) warning(msg string, args ...any) {
	e.log.Warn(msg, args...)
}

// script emits the body, the closing flush and the menu, and returns the
// passage script. Guard registers are cleared before anything else runs.
func (e *emitter) script(p *passage.Passage) string {
	e.emit(p.Commands, false)
	e.flush()
	e.menu()

	var sb strings.Builder
	for _, g := range e.guards {
		fmt.Fprintf(&sb, "0 %s%s\n", g, expr.WriteMarker(g))
	}
	for _, l := range e.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (e *emitter) emit(cmds []passage.Command, inside bool) {
	for _, cmd := range cmds {
		e.command(cmd, inside)
	}
}

func (e *emitter) command(cmd passage.Command, inside bool) {
	switch c := cmd.(type) {
	case *passage.Text:
		e.text(c.Text)

	case *passage.Print:
		code, ok := e.compileExpr(c.Expr)
		if !ok {
			return
		}
		if !e.reserve(printWidth) {
			return
		}
		e.line("%s#", code)
		e.pending = true

	case *passage.Image:
		e.flush()
		e.line("%di", e.c.images.add(c.Path))

	case *passage.Music:
		e.flush()
		e.line("%dm", e.c.music.add(c.Path))

	case *passage.Link:
		e.addOption(c, inside)

	case *passage.List:
		// only the links of a list take part, as menu options
		for _, item := range c.Items {
			if link, ok := item.(*passage.Link); ok {
				e.addOption(link, inside)
			}
		}

	case *passage.Set:
		if code, ok := e.assignment(c); ok {
			e.line("%s", code)
		}

	case *passage.If:
		e.conditional(c)

	case *passage.Call:
		e.flush()
		n, ok := e.c.index[c.Target]
		if !ok {
			e.warning("call to unknown passage", "target", c.Target)
			return
		}
		e.line("%dc", n)

	case *passage.Return:
		e.flush()
		e.line("$")

	case *passage.Pause:
		e.pending = true
		e.flush()

	case *passage.Display:
		e.display(c, inside)

	case *passage.Else, *passage.End, *passage.Invalid:
		// Else only means something among the children of an If; the
		// parser already reported stray ones and invalid macros.
	}
}

// text pushes a chunk of story text, cutting it at the buffer capacity.
func (e *emitter) text(s string) {
	s = strings.Trim(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	s = escapeText(s)
	if room := e.c.opts.BufferSize - e.used; len(s) > room {
		e.overflow()
		if room <= 0 {
			return
		}
		s = s[:room]
	}
	e.used += len(s)
	e.line("%s", quote(s))
	e.pending = true
}

// reserve accounts for n more bytes of output in the buffer.
func (e *emitter) reserve(n int) bool {
	if e.used+n > e.c.opts.BufferSize {
		e.overflow()
		return false
	}
	e.used += n
	return true
}

func (e *emitter) overflow() {
	if !e.overflowed {
		e.warning("text buffer overflow, text truncated", "limit", e.c.opts.BufferSize)
		e.overflowed = true
	}
}

// flush shows the pending text before an instruction that is not text.
func (e *emitter) flush() {
	if e.pending {
		e.line("!")
		e.pending = false
		e.used = 0
	}
}

// compileExpr compiles an expression against the register table. Failures
// are reported and the caller skips the instruction.
func (e *emitter) compileExpr(n expr.Node) (string, bool) {
	var regErr error
	code, err := expr.Compile(n, func(name string) string {
		id, err := e.c.regs.Read(name)
		if err != nil && regErr == nil {
			regErr = err
		}
		return id
	})
	if err == nil {
		err = regErr
	}
	if err != nil {
		e.warning(fmt.Sprintf("cannot compile %s: %v", n, err))
		return "", false
	}
	return code, true
}

// assignment returns the code of a <<set>>: the value, then the write.
func (e *emitter) assignment(s *passage.Set) (string, bool) {
	code, ok := e.compileExpr(s.Expr)
	if !ok {
		return "", false
	}
	id, err := e.c.regs.Write(s.Target)
	if err != nil {
		e.warning(err.Error())
		return "", false
	}
	return code + id + expr.WriteMarker(id), true
}

// conditional emits cond [ children ]. An Else among the children becomes
// the | separating the two branches.
//
// Only one path runs, so every branch starts from the buffer as it was
// before the block. Afterwards text is pending if any path left some, and
// the buffer holds as much as the fullest path.
func (e *emitter) conditional(c *passage.If) {
	code, ok := e.compileExpr(c.Cond)
	if !ok {
		return
	}
	e.line("%s", code)
	e.line("[")

	startPending, startUsed := e.pending, e.used
	pending, used := false, 0
	join := func() {
		pending = pending || e.pending
		used = max(used, e.used)
		e.pending, e.used = startPending, startUsed
	}
	hasElse := false
	for _, child := range c.Children {
		if _, ok := child.(*passage.Else); ok {
			join()
			hasElse = true
			e.line("|")
			continue
		}
		e.command(child, true)
	}
	join()
	if !hasElse {
		// a false condition skips the block
		join()
	}
	e.pending, e.used = pending, used
	e.line("]")
}

// display splices the commands of another passage in place.
func (e *emitter) display(d *passage.Display, inside bool) {
	p, ok := e.c.doc.Get(d.Target)
	if !ok {
		e.warning("display of unknown passage", "target", d.Target)
		return
	}
	if e.displaying[d.Target] {
		e.warning("recursive display ignored", "target", d.Target)
		return
	}
	e.displaying[d.Target] = true
	e.emit(p.Commands, inside)
	delete(e.displaying, d.Target)
}

// addOption queues a link for the menu. A link inside a conditional gets a
// guard register, set here so the menu offers the option only when this
// point was reached.
func (e *emitter) addOption(link *passage.Link, inside bool) {
	opt := menuOption{link: link}
	if inside {
		guard, err := e.c.temps.Next()
		if err != nil {
			e.warning("too many conditional links, option always shown", "target", link.Target)
		} else {
			opt.guard = guard
			e.guards = append(e.guards, guard)
			e.line("1 %s%s", guard, expr.WriteMarker(guard))
		}
	}
	e.options = append(e.options, opt)
}
