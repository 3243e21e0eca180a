package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/mvp-joe/cexpand/internal/config"
	"github.com/mvp-joe/cexpand/internal/expand"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
)

// resultPrinter renders a Result as JSON or as a human readable summary.
type resultPrinter struct {
	format string
	root   string

	errorFmt   func(a ...interface{}) string
	warnFmt    func(a ...interface{}) string
	labelFmt   func(a ...interface{}) string
	successFmt func(a ...interface{}) string
}

func newResultPrinter(format, root string, useColor bool) *resultPrinter {
	errorColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	labelColor := color.New(color.FgCyan)
	successColor := color.New(color.FgGreen, color.Bold)
	if !useColor {
		for _, c := range []*color.Color{errorColor, warnColor, labelColor, successColor} {
			c.DisableColor()
		}
	}

	return &resultPrinter{
		format:     strings.ToLower(format),
		root:       root,
		errorFmt:   errorColor.SprintFunc(),
		warnFmt:    warnColor.SprintFunc(),
		labelFmt:   labelColor.SprintFunc(),
		successFmt: successColor.SprintFunc(),
	}
}

func (p *resultPrinter) Print(w io.Writer, result *expand.Result) error {
	if p.format == config.FormatText {
		p.printText(w, result)
		return nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (p *resultPrinter) printText(w io.Writer, result *expand.Result) {
	switch result.Status {
	case expand.StatusUnsafe:
		fmt.Fprintf(w, "%s %s\n", p.errorFmt("error:"), p.errorFmt(result.Message))
		fmt.Fprintf(w, "  %s %s\n", p.labelFmt("at:"), p.location(result.Target))
		if r := result.Rejection; r != nil && r.Enclosing != nil {
			fmt.Fprintf(w, "  %s %s\n", p.labelFmt("inside:"), p.span(*r.Enclosing))
		}
	case expand.StatusNotFound:
		fmt.Fprintf(w, "%s no call to a declared function at %s\n", p.warnFmt("not found:"), p.location(result.Target))
	case expand.StatusMatched:
		p.printMatch(w, result)
	}
}

func (p *resultPrinter) printMatch(w io.Writer, result *expand.Result) {
	call := result.Call
	decl := result.Declaration

	fmt.Fprintf(w, "%s %s at %s\n", p.successFmt("matched:"), call.Callee, p.span(call.Range))
	if len(call.Arguments) > 0 {
		fmt.Fprintf(w, "  %s %s\n", p.labelFmt("arguments:"), strings.Join(call.Arguments, ", "))
	}
	if call.Base != nil {
		fmt.Fprintf(w, "  %s %s (%s)\n", p.labelFmt("receiver:"), call.Base.Text, call.Base.Operator)
	}
	if a := call.Assignee; a != nil {
		fmt.Fprintf(w, "  %s %s\n", p.labelFmt("assignee:"), describeAssignee(a))
	}

	if decl != nil {
		fmt.Fprintf(w, "  %s %s at %s\n", p.labelFmt("declaration:"), decl.Signature, p.location(decl.Location))
		for i, param := range decl.Parameters {
			name := param.Name
			if name == "" {
				name = "<unnamed>"
			}
			fmt.Fprintf(w, "    %d. %s %s\n", i+1, param.Type, name)
		}
	}

	def := result.Definition
	if def == nil {
		fmt.Fprintf(w, "  %s %s\n", p.labelFmt("definition:"), p.warnFmt("not available"))
		return
	}
	fmt.Fprintf(w, "  %s %s (%d return statements", p.labelFmt("definition:"), p.location(def.Location), def.ReturnCount)
	if len(def.Locals) > 0 {
		fmt.Fprintf(w, ", locals: %s", strings.Join(def.Locals, ", "))
	}
	fmt.Fprintln(w, ")")
}

func describeAssignee(a *query.Assignee) string {
	switch a.Kind {
	case query.AssigneeDeclaration:
		return fmt.Sprintf("new variable %s of type %s", a.Name, a.Type)
	case query.AssigneeAssignment:
		return fmt.Sprintf("%s %s", a.Name, a.Operator)
	case query.AssigneeReturn:
		return "returned"
	}
	return string(a.Kind)
}

func (p *resultPrinter) location(loc source.Location) string {
	return fmt.Sprintf("%s:%d:%d", p.relative(loc.File), loc.Line, loc.Column)
}

func (p *resultPrinter) span(r source.Range) string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", p.relative(r.Begin.File), r.Begin.Line, r.Begin.Column, r.End.Line, r.End.Column)
}

// relative shortens paths under the project root.
func (p *resultPrinter) relative(path string) string {
	if p.root == "" {
		return path
	}
	rel, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
