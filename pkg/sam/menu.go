package sam

import (
	"fmt"
	"strings"

	"github.com/haroldo-ok/twee2sam/pkg/expr"
)

// menu emits the choice menu built from the queued links:
//
//	"North\nSouth\n"        labels, one per line
//	240 :["Secret"]         guarded label
//	?A.                     read the choice into A
//	0 B.                    B counts the options offered
//	A:B:=[3j]B:1 +B.        one dispatch line per option
//
// A passage without options loops forever on 1[1], the VM having no halt.
//
// The labels share the text buffer with the body. Options whose label no
// longer fits are dropped, counting guarded labels as if always shown.
func (e *emitter) menu() {
	var opts []menuOption
	var labels []string
	for _, o := range e.options {
		n, ok := e.c.index[o.link.Target]
		if !ok {
			e.warning("link to unknown passage", "target", o.link.Target)
			continue
		}
		label := e.label(o)
		size := len(label)
		if len(labels) > 0 {
			size++ // line break after the previous label
		}
		if e.used+size > e.c.opts.BufferSize {
			e.warning("menu does not fit the text buffer, option dropped", "target", o.link.Target)
			continue
		}
		e.used += size
		o.target = n
		opts = append(opts, o)
		labels = append(labels, label)
	}
	if len(opts) == 0 {
		e.line("1[1]")
		return
	}

	// Unguarded labels in a row share one string push.
	var run strings.Builder
	pushRun := func() {
		if run.Len() > 0 {
			e.line("%s", quote(run.String()))
			run.Reset()
		}
	}
	for i, o := range opts {
		label := labels[i]
		if i < len(opts)-1 {
			label += "\n"
		}
		if o.guard == "" {
			run.WriteString(label)
			continue
		}
		pushRun()
		e.line("%s%s[%s]", o.guard, expr.ReadMarker(o.guard), quote(label))
	}
	pushRun()

	e.line("?%s.", MenuChoiceRegister)
	e.line("0 %s.", MenuCounterRegister)
	for _, o := range opts {
		e.line("%s", e.dispatch(o))
	}
}

// label is the menu text of an option, escaped and cut to the menu width.
func (e *emitter) label(o menuOption) string {
	s := escapeText(o.link.ActualLabel())
	if len(s) > e.c.opts.LabelWidth {
		s = s[:e.c.opts.LabelWidth]
	}
	return s
}

// dispatch jumps to the option's target when A equals the option counter,
// running the link action first. Guarded options neither jump nor count
// unless their guard is set.
func (e *emitter) dispatch(o menuOption) string {
	var action string
	if o.link.OnClick != nil {
		if code, ok := e.assignment(o.link.OnClick); ok {
			action = code
		}
	}
	a, b := MenuChoiceRegister, MenuCounterRegister
	code := fmt.Sprintf("%s:%s:=[%s%dj]%s:1 +%s.", a, b, action, o.target, b, b)
	if o.guard != "" {
		code = fmt.Sprintf("%s%s[%s]", o.guard, expr.ReadMarker(o.guard), code)
	}
	return code
}
