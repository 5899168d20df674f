package main

import (
	"fmt"
	"io"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/fatih/color"
)

// printer renders screen states for a terminal.
type printer struct {
	w     io.Writer
	ok    func(a ...any) string
	fail  func(a ...any) string
	note  func(a ...any) string
	nav   func(a ...any) string
	label func(a ...any) string
}

func newPrinter(w io.Writer, noColor bool) *printer {
	paint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &printer{
		w:     w,
		ok:    paint(color.FgGreen),
		fail:  paint(color.FgRed, color.Bold),
		note:  paint(color.FgYellow),
		nav:   paint(color.FgCyan),
		label: paint(color.Faint),
	}
}

func (p *printer) state(screen goAuthFlow.Screen, s goAuthFlow.State) {
	switch {
	case s.Error != "":
		fmt.Fprintf(p.w, "%s %s\n", p.label("["+string(screen)+"]"), p.fail(s.Error))
	case s.Status == goAuthFlow.StatusSuccess && s.Message != "":
		fmt.Fprintf(p.w, "%s %s\n", p.label("["+string(screen)+"]"), p.ok(s.Message))
	case s.Status == goAuthFlow.StatusSuccess:
		fmt.Fprintf(p.w, "%s %s\n", p.label("["+string(screen)+"]"), p.ok("ok"))
	}
	if s.Notice != "" {
		fmt.Fprintf(p.w, "%s %s\n", p.label("["+string(screen)+"]"), p.note(s.Notice))
	}
}

func (p *printer) navigation(n goAuthFlow.Navigation) {
	line := "-> " + string(n.To)
	if n.State.Email != "" {
		line += " (" + n.State.Email + ")"
	}
	fmt.Fprintln(p.w, p.nav(line))
	if n.State.Message != "" {
		fmt.Fprintln(p.w, "   "+n.State.Message)
	}
}

func (p *printer) field(name, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.label(name+":"), value)
}
