package sam

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Register layout of the VM. A and B belong to the menu: A receives the
// choice, B counts options during dispatch. Story variables take the
// remaining letters, then numbered registers up to the temp area.
const (
	MenuChoiceRegister  = "A"
	MenuCounterRegister = "B"

	firstVariableLetter = 'C'
	FirstNumeric        = 26
	DefaultTempBase     = 240
	DefaultTempCount    = 16
)

var (
	ErrOutOfRegisters = errors.New("out of variable registers")
	ErrOutOfTemps     = errors.New("out of temporary registers")
)

// Registers maps story variables to VM registers for a whole compile.
// A variable keeps the register it got on first use.
type Registers struct {
	ids   map[string]string
	order []string
	limit int // first numbered register not available to variables

	read    map[string]bool
	written map[string]bool
}

// NewRegisters returns an empty table whose variables stop short of
// tempBase.
func NewRegisters(tempBase int) *Registers {
	return &Registers{
		ids:     make(map[string]string),
		limit:   tempBase,
		read:    make(map[string]bool),
		written: make(map[string]bool),
	}
}

// registerID returns the id of the n-th allocated variable.
func registerID(n int) string {
	letters := 'Z' - firstVariableLetter + 1
	if n < int(letters) {
		return string(rune(firstVariableLetter + rune(n)))
	}
	return strconv.Itoa(FirstNumeric + n - int(letters))
}

func (r *Registers) allocate(name string) (string, error) {
	if id, ok := r.ids[name]; ok {
		return id, nil
	}
	id := registerID(len(r.order))
	if n, err := strconv.Atoi(id); err == nil && n >= r.limit {
		return "", fmt.Errorf("%w: %s", ErrOutOfRegisters, name)
	}
	r.ids[name] = id
	r.order = append(r.order, name)
	return id, nil
}

// Read returns the register of name, allocating it if needed, and notes
// the variable as read.
func (r *Registers) Read(name string) (string, error) {
	id, err := r.allocate(name)
	if err != nil {
		return "", err
	}
	r.read[name] = true
	return id, nil
}

// Write is Read for the target of an assignment.
func (r *Registers) Write(name string) (string, error) {
	id, err := r.allocate(name)
	if err != nil {
		return "", err
	}
	r.written[name] = true
	return id, nil
}

// Lookup returns the register of name without allocating.
func (r *Registers) Lookup(name string) (string, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Len returns the number of allocated variables.
func (r *Registers) Len() int { return len(r.order) }

// Unset returns, sorted, the variables read somewhere but never assigned.
func (r *Registers) Unset() []string {
	return r.missing(r.read, r.written)
}

// Unused returns, sorted, the variables assigned but never read.
func (r *Registers) Unused() []string {
	return r.missing(r.written, r.read)
}

func (r *Registers) missing(in, notIn map[string]bool) []string {
	var names []string
	for name := range in {
		if !notIn[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String returns a deterministically ordered dump of the table.
func (r *Registers) String() string {
	if len(r.order) == 0 {
		return "Registers: (empty)\n"
	}
	names := append([]string(nil), r.order...)
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Registers:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-20s  %s\n", name, r.ids[name])
	}
	return sb.String()
}

// TempPool hands out scratch registers from a fixed numbered area. The
// cursor goes back to the start for every passage.
type TempPool struct {
	base, count int
	next        int
}

// NewTempPool returns a pool of count registers starting at base.
func NewTempPool(base, count int) *TempPool {
	return &TempPool{base: base, count: count}
}

// Reset makes every register of the pool available again.
func (p *TempPool) Reset() { p.next = 0 }

// Next returns the id of the next free temp register.
func (p *TempPool) Next() (string, error) {
	if p.next >= p.count {
		return "", ErrOutOfTemps
	}
	id := strconv.Itoa(p.base + p.next)
	p.next++
	return id, nil
}
