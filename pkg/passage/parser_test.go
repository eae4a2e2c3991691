package passage

import (
	"strings"
	"testing"

	"github.com/haroldo-ok/twee2sam/pkg/logging"
	"github.com/haroldo-ok/twee2sam/pkg/twee"
)

func parse(t *testing.T, text string) ([]Command, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	return NewParser("Test", rec.Logger()).Parse(text), rec
}

func TestParse_Commands(t *testing.T) {
	cmds, rec := parse(t, "Hi&nbsp;there [img[a.png]]<<music \"song.vgm\">><<pause>><<call Shop>><<return>><<display \"Inventory\">>")
	want := strings.Join([]string{
		`Text("Hi\x16there ")`,
		"Image(a.png)",
		"Music(song.vgm)",
		"Pause",
		"Call(Shop)",
		"Return",
		"Display(Inventory)",
		"",
	}, "\n")
	if got := Format(cmds); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if rec.Warnings() != 0 {
		t.Errorf("unexpected warnings: %+v", rec.Entries())
	}
}

func TestParse_Set(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<<set $gold = $gold + 1>>", "Set(gold = (+ gold 1))"},
		{"<<set $door to true>>", "Set(door = true)"},
		{"<<set x=random(1,6)>>", "Set(x = random(1, 6))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmds, rec := parse(t, tt.input)
			if len(cmds) != 1 || cmds[0].String() != tt.expected {
				t.Fatalf("got %v, want %s", cmds, tt.expected)
			}
			if rec.Warnings() != 0 {
				t.Errorf("unexpected warnings: %+v", rec.Entries())
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"<<set $x>>", `invalid "set" expression`},
		{"<<set $x = (1>>", "invalid expression"},
		{"<<print>>", "invalid expression"},
		{"<<jump Somewhere>>", "unknown macro: jump"},
		{"<<call two words>>", `invalid "call" target`},
		{"<<display>>", `missing "display" target`},
		{"<<music>>", `missing "music" path`},
		{"[[Door][$x]]", "invalid link action"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmds, rec := parse(t, tt.input)
			if len(cmds) != 1 {
				t.Fatalf("expected one command, got %v", cmds)
			}
			inv, ok := cmds[0].(*Invalid)
			if !ok {
				t.Fatalf("expected *Invalid, got %s", cmds[0])
			}
			if !strings.Contains(inv.Message, tt.message) {
				t.Errorf("message %q does not mention %q", inv.Message, tt.message)
			}
			entries := rec.Entries()
			if len(entries) != 1 || entries[0].Passage != "Test" {
				t.Errorf("expected one warning tagged with the passage, got %+v", entries)
			}
		})
	}
}

func TestParse_Links(t *testing.T) {
	cmds, _ := parse(t, "[[Cave]][[Enter the cave|Cave]][[a|b|Target]][[Buy|Shop][$gold = $gold - 5]]")
	want := []Link{
		{Target: "Cave"},
		{Target: "Cave", Label: "Enter the cave"},
		{Target: "Target", Label: "a|b"},
		{Target: "Shop", Label: "Buy"},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i, w := range want {
		l, ok := cmds[i].(*Link)
		if !ok {
			t.Fatalf("command %d: expected *Link, got %s", i, cmds[i])
		}
		if l.Target != w.Target || l.Label != w.Label {
			t.Errorf("command %d: got %s, want target %q label %q", i, l, w.Target, w.Label)
		}
	}
	if cmds[0].(*Link).ActualLabel() != "Cave" || cmds[1].(*Link).ActualLabel() != "Enter the cave" {
		t.Error("ActualLabel should fall back to the target")
	}
	action := cmds[3].(*Link).OnClick
	if action == nil || action.String() != "Set(gold = (- gold 5))" {
		t.Errorf("on-click action = %v", action)
	}
}

func TestParse_IfElse(t *testing.T) {
	cmds, rec := parse(t, "<<if $x>>A<<else>>B<<endif>>C")
	want := "If(x)\n\tText(\"A\")\n\tElse\n\tText(\"B\")\nText(\"C\")\n"
	if got := Format(cmds); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if rec.Warnings() != 0 {
		t.Errorf("unexpected warnings: %+v", rec.Entries())
	}
}

func TestParse_NestedIf(t *testing.T) {
	cmds, rec := parse(t, "<<if $a>>1<<if $b>>2<<endif>>3<<else>>4<<endif>>5")
	want := strings.Join([]string{
		"If(a)",
		"\tText(\"1\")",
		"\tIf(b)",
		"\t\tText(\"2\")",
		"\tText(\"3\")",
		"\tElse",
		"\tText(\"4\")",
		"Text(\"5\")",
		"",
	}, "\n")
	if got := Format(cmds); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if rec.Warnings() != 0 {
		t.Errorf("unexpected warnings: %+v", rec.Entries())
	}
}

func TestParse_BlockDiagnostics(t *testing.T) {
	t.Run("endif without if", func(t *testing.T) {
		cmds, rec := parse(t, "A<<endif>>B")
		if rec.Count("<<endif>> without <<if>>") != 1 {
			t.Errorf("expected one endif warning, got %+v", rec.Entries())
		}
		// endif always closes the current command list
		if Format(cmds) != "Text(\"A\")\n" {
			t.Errorf("got %q", Format(cmds))
		}
	})

	t.Run("else without if", func(t *testing.T) {
		cmds, rec := parse(t, "A<<else>>B")
		if rec.Count("<<else>> without <<if>>") != 1 {
			t.Errorf("expected one else warning, got %+v", rec.Entries())
		}
		if len(cmds) != 3 {
			t.Errorf("parse should continue after a stray else, got %v", cmds)
		}
	})

	t.Run("unclosed if", func(t *testing.T) {
		cmds, rec := parse(t, "<<if $a>>A")
		if rec.Count("<<if>> without <<endif>>") != 1 {
			t.Errorf("expected one unclosed-if warning, got %+v", rec.Entries())
		}
		if len(cmds) != 1 {
			t.Errorf("got %v", cmds)
		}
	})

	t.Run("bad condition keeps block structure", func(t *testing.T) {
		cmds, rec := parse(t, "<<if $a +>>A<<endif>>B")
		if len(cmds) != 2 {
			t.Fatalf("got %v", cmds)
		}
		if _, ok := cmds[0].(*Invalid); !ok {
			t.Errorf("expected *Invalid, got %s", cmds[0])
		}
		if cmds[1].String() != `Text("B")` {
			t.Errorf("got %s", cmds[1])
		}
		if rec.Warnings() != 1 {
			t.Errorf("expected one warning, got %+v", rec.Entries())
		}
	})
}

func TestParse_List(t *testing.T) {
	cmds, _ := parse(t, "* [[North]] or <<print $x>>\n# [[South]]")
	want := strings.Join([]string{
		"List(ordered=false)",
		"\tLink(North, label=\"\")",
		"\tText(\" or \")",
		"\tPrint(x)",
		"List(ordered=true)",
		"\tLink(South, label=\"\")",
		"",
	}, "\n")
	if got := Format(cmds); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFromStory(t *testing.T) {
	story := twee.NewStory("tester")
	story.AddTwee(":: Start [intro]\n[[Next]]\n:: Next\nEnd.\n")
	doc := FromStory(story, logging.NewRecorder().Logger())

	if doc.Len() != 2 {
		t.Fatalf("Len = %d, want 2", doc.Len())
	}
	start, ok := doc.Get("Start")
	if !ok || len(start.Tags) != 1 || start.Tags[0] != "intro" {
		t.Fatalf("Start passage = %+v", start)
	}
	if ps := doc.Passages(); ps[0].Title != "Start" || ps[1].Title != "Next" {
		t.Errorf("order = %s, %s", ps[0].Title, ps[1].Title)
	}
	if doc.Add(&Passage{Title: "Next"}) {
		t.Error("Add should refuse a duplicate title")
	}
}
