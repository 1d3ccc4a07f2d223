package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

const (
	cellHeight = 3
	gridTop    = 2
)

var (
	styleHeader   = tcell.StyleDefault.Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePlaying  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func (a *App) draw() {
	s := a.screen
	s.Clear()
	width, height := s.Size()
	if width == 0 || height < gridTop+cellHeight+2 {
		s.Show()
		return
	}

	drawText(s, 0, 0, styleHeader, truncate("vibe dj: "+a.theme, width))

	columns := a.controller.Columns()
	cellWidth := width / columns
	if cellWidth < 8 {
		columns = 1
		cellWidth = width
	}
	visibleRows := (height - gridTop - 2) / cellHeight

	total := a.controller.Len() + 1
	selectedRow := a.controller.Selected() / columns
	a.rowOffset = scrollOffset(selectedRow, a.rowOffset, visibleRows)

	for i := 0; i < total; i++ {
		row := i/columns - a.rowOffset
		if row < 0 || row >= visibleRows {
			continue
		}
		x := (i % columns) * cellWidth
		y := gridTop + row*cellHeight
		a.drawCell(x, y, cellWidth, i)
	}

	if a.errLine != "" {
		drawText(s, 0, height-2, styleError, truncate(a.errLine, width))
	}
	drawText(s, 0, height-1, styleDim, truncate("w/a/s/d or arrows: move   space: play/pause   q: quit", width))
	s.Show()
}

func (a *App) drawCell(x, y, w, index int) {
	selected := index == a.controller.Selected()

	if index == a.controller.Len() {
		label := "[ Load More ]"
		if a.controller.Extending() {
			label = "Loading..."
		}
		style := styleDim
		if selected {
			style = styleSelected
		}
		drawText(a.screen, x+1, y, style, truncate(label, w-2))
		return
	}

	song := a.controller.Song(index)
	titleStyle := tcell.StyleDefault
	if selected {
		titleStyle = styleSelected
	}

	marker := "  "
	markerStyle := titleStyle
	switch {
	case index == a.controller.Playing():
		marker = "> "
		markerStyle = stylePlaying
	case !a.controller.Ready(index):
		marker = ". "
		markerStyle = styleDim
	}

	drawText(a.screen, x+1, y, markerStyle, marker)
	drawText(a.screen, x+3, y, titleStyle, truncate(song.Title, w-4))
	drawText(a.screen, x+3, y+1, styleDim, truncate(fmt.Sprintf("by %s", song.Artist), w-4))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// scrollOffset keeps the selected row inside the visible window while moving
// the viewport as little as possible.
func scrollOffset(selectedRow, offset, visible int) int {
	if visible < 1 {
		return 0
	}
	if selectedRow < offset {
		return selectedRow
	}
	if selectedRow >= offset+visible {
		return selectedRow - visible + 1
	}
	return offset
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(runes[:w-1]) + "…"
}
