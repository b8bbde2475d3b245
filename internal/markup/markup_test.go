package markup

import (
	"strings"
	"testing"
)

func TestScanMacros(t *testing.T) {
	t.Parallel()

	body := `<p>intro</p>` +
		`<ac:structured-macro ac:name="info"><ac:rich-text-body><p>note</p></ac:rich-text-body></ac:structured-macro>` +
		`<p>middle</p>` +
		`<ac:structured-macro ac:name="toc"/>`

	macros := ScanMacros(body)
	if len(macros) != 2 {
		t.Fatalf("expected 2 macros, got %d: %+v", len(macros), macros)
	}

	if macros[0].Name != "info" || macros[1].Name != "toc" {
		t.Errorf("unexpected names %q, %q", macros[0].Name, macros[1].Name)
	}
	if macros[0].Start != len("<p>intro</p>") {
		t.Errorf("unexpected start offset %d", macros[0].Start)
	}
	if !macros[1].SelfClosing {
		t.Errorf("toc macro should be self-closing")
	}
	if body[macros[0].Start:macros[0].End] != `<ac:structured-macro ac:name="info"><ac:rich-text-body><p>note</p></ac:rich-text-body></ac:structured-macro>` {
		t.Errorf("info span mismatch: %q", body[macros[0].Start:macros[0].End])
	}
}

func TestScanMacrosNested(t *testing.T) {
	t.Parallel()

	body := `<ac:structured-macro ac:name="panel"><ac:rich-text-body>` +
		`<ac:structured-macro ac:name="code"/>` +
		`</ac:rich-text-body></ac:structured-macro>`

	macros := ScanMacros(body)
	if len(macros) != 2 {
		t.Fatalf("expected 2 macros, got %d", len(macros))
	}
	if macros[0].Name != "panel" || macros[1].Name != "code" {
		t.Fatalf("unexpected names %+v", macros)
	}
	if macros[0].End != len(body) {
		t.Errorf("panel span should cover the whole body, got end %d of %d", macros[0].End, len(body))
	}
	if macros[1].Start <= macros[0].Start || macros[1].End >= macros[0].End {
		t.Errorf("code span should nest inside panel span")
	}
}

func TestReplaceMacrosSingleInstance(t *testing.T) {
	t.Parallel()

	body := `<p>a</p><ac:structured-macro ac:name="warning" ac:schema-version="1"><ac:rich-text-body><p>w</p></ac:rich-text-body></ac:structured-macro><p>b</p>`

	replacement := MacroTag("note", map[string]string{"title": "Heads up"}, "")
	got, n := ReplaceMacros(body, "warning", replacement)

	if n != 1 {
		t.Fatalf("expected 1 replacement, got %d", n)
	}
	if strings.Contains(got, `ac:name="warning"`) {
		t.Errorf("old macro still present: %s", got)
	}
	if strings.Count(got, `ac:name="note"`) != 1 {
		t.Errorf("expected exactly one new macro: %s", got)
	}
	if !strings.HasPrefix(got, "<p>a</p>") || !strings.HasSuffix(got, "<p>b</p>") {
		t.Errorf("surrounding content disturbed: %s", got)
	}
}

func TestReplaceMacrosRepeatedSameName(t *testing.T) {
	t.Parallel()

	one := `<ac:structured-macro ac:name="status"><ac:rich-text-body><p>1</p></ac:rich-text-body></ac:structured-macro>`
	two := `<ac:structured-macro ac:name="status"><ac:rich-text-body><p>2</p></ac:rich-text-body></ac:structured-macro>`
	body := one + `<p>between</p>` + two

	got, n := ReplaceMacros(body, "status", `<ac:structured-macro ac:name="done"/>`)
	if n != 2 {
		t.Fatalf("expected 2 replacements, got %d", n)
	}
	if !strings.Contains(got, "<p>between</p>") {
		t.Errorf("content between repeated macros was swallowed: %s", got)
	}
	if strings.Count(got, `ac:name="done"`) != 2 {
		t.Errorf("expected two new macros: %s", got)
	}
}

func TestReplaceMacrosNoMatch(t *testing.T) {
	t.Parallel()

	body := `<p>nothing here</p>`
	got, n := ReplaceMacros(body, "missing", "x")
	if n != 0 {
		t.Fatalf("expected no replacements, got %d", n)
	}
	if got != body {
		t.Errorf("body changed on zero matches")
	}
}

func TestMacroTag(t *testing.T) {
	t.Parallel()

	got := MacroTag("jira", map[string]string{"jqlQuery": "project = X", "count": "10"}, "")
	want := `<ac:structured-macro ac:name="jira" count="10" jqlQuery="project = X"/>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = MacroTag("info", nil, "<p>body</p>")
	want = `<ac:structured-macro ac:name="info"><ac:rich-text-body><p>body</p></ac:rich-text-body></ac:structured-macro>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAttachmentImage(t *testing.T) {
	t.Parallel()

	got := AttachmentImage("diagram.png", 800)
	want := `<ac:image ac:width="800"><ri:attachment ri:filename="diagram.png"/></ac:image>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWrapPosition(t *testing.T) {
	t.Parallel()

	img := `<ac:image ac:width="800"><ri:attachment ri:filename="a.png"/></ac:image>`

	cases := []struct {
		position string
		want     string
	}{
		{position: "inline", want: img},
		{position: "", want: img},
		{position: "center", want: `<p style="text-align: center;">` + img + `</p>`},
		{position: "left", want: `<div style="float: left; margin-right: 10px;">` + img + `</div>`},
		{position: "right", want: `<div style="float: right; margin-left: 10px;">` + img + `</div>`},
	}

	for _, tc := range cases {
		got, err := WrapPosition(img, tc.position)
		if err != nil {
			t.Fatalf("position %q: %v", tc.position, err)
		}
		if got != tc.want {
			t.Errorf("position %q: got %q, want %q", tc.position, got, tc.want)
		}
	}

	if _, err := WrapPosition(img, "top"); err == nil {
		t.Errorf("expected error for invalid position")
	}
}
