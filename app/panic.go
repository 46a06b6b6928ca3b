package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tandem/core/kernel"
	"tandem/core/render3d"
	"tandem/hal"
)

var panicFG = render3d.RGB(0x80, 0, 0)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		tg, ok := render3d.FramebufferTarget(fb)
		if !ok {
			return
		}
		tg.Clear(render3d.White)

		o := render3d.NewOverlay(nil)
		o.Attach(tg)
		cols := 1
		if cw := o.Width("0"); cw > 0 {
			cols = max(tg.W/cw, 1)
		}
		y := 0
		for _, line := range lines {
			for len(line) > 0 {
				if y+o.LineHeight() > tg.H {
					_ = fb.Present()
					return
				}
				chunk, rest := takeRunes(line, cols)
				o.Text(0, y, panicFG, chunk)
				y += o.LineHeight() + 1
				line = strings.TrimLeft(rest, " ")
			}
		}
		_ = fb.Present()
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"Tandem panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	}
	return lines
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
