package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rivo/tview"

	"modelboard/internal/api"
)

// ── Model Inspector ─────────────────────────────────────────────────────

// openInspector shows the selected model's record as highlighted JSON in a
// side pane.
func (p *panelApp) openInspector(m api.Model) {
	p.inspID = m.ID
	p.focus = focusSide

	p.inspHeader = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	p.inspHeader.SetBorder(false)
	p.inspHeader.SetText(fmt.Sprintf("[blue::b]%s[-:-:-] [gray::-]Esc close | Tab focus[-:-:-]",
		tview.Escape(m.ID)))

	p.inspView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(false)
	p.inspView.SetBorder(false)

	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		p.inspView.SetText(fmt.Sprintf("[red::-]Error: %v[-:-:-]", err))
	} else {
		highlighted := highlightJSON(string(content))
		numbered := addLineNumbers(highlighted)
		p.inspView.SetText(tview.TranslateANSI(numbered))
	}

	p.inspPanel = tview.NewFlex().SetDirection(tview.FlexRow)
	p.inspPanel.AddItem(p.inspHeader, 1, 0, false)
	p.inspPanel.AddItem(p.inspView, 0, 1, false)

	p.render()
}

func (p *panelApp) closeInspector() {
	p.inspID = ""
	p.focus = focusModels
	p.inspPanel = nil
	p.inspHeader = nil
	p.inspView = nil
	p.render()
}

// ── Syntax Highlighting ─────────────────────────────────────────────────

func highlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return content
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}

func addLineNumbers(content string) string {
	lines := strings.Split(content, "\n")
	width := len(fmt.Sprintf("%d", len(lines)))

	var b strings.Builder
	for i, line := range lines {
		num := fmt.Sprintf("%*d", width, i+1)
		// ANSI gray for line numbers
		b.WriteString("\033[38;5;240m")
		b.WriteString(num)
		b.WriteString("\033[0m ")
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
