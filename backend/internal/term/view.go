package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"fractal-marble/backend/internal/vecmath"
)

// Canvas то, на чем рисует View. tcell.Screen ему удовлетворяет.
type Canvas interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Frame все, что нужно для одного кадра вида сверху
type Frame struct {
	Level      string
	LevelIndex int
	LevelCount int

	Marble   vecmath.Vec
	Radius   float64
	Flag     vecmath.Vec
	Velocity vecmath.Vec

	Contact   bool
	Paused    bool
	Completed bool
	Steps     uint64
	Time      float64

	Status string
}

// View вид сверху на плоскость XZ с шариком в центре
type View struct {
	// RowsPerRadius сколько строк экрана приходится на радиус шарика
	RowsPerRadius float64
	// CellAspect ширина символа относительно высоты
	CellAspect float64
}

// DefaultView масштаб по умолчанию
var DefaultView = View{RowsPerRadius: 1, CellAspect: 0.5}

var (
	styleGrid   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleMarble = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHit    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFlag   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const helpLine = "WASD катить  стрелки камера  1-9 уровень  n следующий  p пауза  r сброс  q выход"

// Project переводит точку мира в клетку экрана. -Z смотрит вверх.
func (v View) Project(f Frame, p vecmath.Vec, width, height int) (x, y int, ok bool) {
	rows := v.RowsPerRadius / f.Radius
	cols := rows / v.CellAspect

	x = width/2 + int(math.Round((p[0]-f.Marble[0])*cols))
	y = height/2 + int(math.Round((p[2]-f.Marble[2])*rows))
	ok = x >= 0 && x < width && y >= 1 && y < height-1
	return x, y, ok
}

// Render рисует кадр. Первая строка статус, последняя подсказка.
func (v View) Render(c Canvas, f Frame) {
	width, height := c.Size()
	if width <= 0 || height < 3 || !(f.Radius > 0) {
		return
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	v.drawGrid(c, f, width, height)

	if x, y, ok := v.Project(f, f.Flag, width, height); ok {
		c.SetContent(x, y, 'F', nil, styleFlag)
	} else {
		v.drawFlagHint(c, f, width, height)
	}

	marble := styleMarble
	if f.Contact {
		marble = styleHit
	}
	c.SetContent(width/2, height/2, 'O', nil, marble)

	drawText(c, 0, width, statusLine(f), styleStatus)
	drawText(c, height-1, width, helpLine, styleHelp)
}

// drawGrid точки сетки мира с шагом в четыре радиуса
func (v View) drawGrid(c Canvas, f Frame, width, height int) {
	step := 4 * f.Radius
	rows := v.RowsPerRadius / f.Radius
	cols := rows / v.CellAspect

	halfW := float64(width) / 2 / cols
	halfH := float64(height) / 2 / rows

	for gz := math.Floor((f.Marble[2]-halfH)/step) * step; gz <= f.Marble[2]+halfH; gz += step {
		for gx := math.Floor((f.Marble[0]-halfW)/step) * step; gx <= f.Marble[0]+halfW; gx += step {
			if x, y, ok := v.Project(f, vecmath.NewVec(gx, 0, gz), width, height); ok {
				c.SetContent(x, y, '·', nil, styleGrid)
			}
		}
	}
}

// drawFlagHint стрелка на краю экрана в сторону флага
func (v View) drawFlagHint(c Canvas, f Frame, width, height int) {
	dx := f.Flag[0] - f.Marble[0]
	dz := f.Flag[2] - f.Marble[2]
	if dx == 0 && dz == 0 {
		return
	}

	var arrow rune
	x, y := width/2, height/2
	if math.Abs(dx)*v.CellAspect > math.Abs(dz) {
		if dx > 0 {
			arrow, x = '>', width-1
		} else {
			arrow, x = '<', 0
		}
	} else {
		if dz > 0 {
			arrow, y = 'v', height-2
		} else {
			arrow, y = '^', 1
		}
	}
	c.SetContent(x, y, arrow, nil, styleFlag)
}

func statusLine(f Frame) string {
	state := "игра"
	switch {
	case f.Completed:
		state = "флаг!"
	case f.Paused:
		state = "пауза"
	}

	line := fmt.Sprintf(" %d/%d %s | %s | t=%.1fs шаг %d | v=%.3f | до флага %.2f",
		f.LevelIndex+1, f.LevelCount, f.Level, state, f.Time, f.Steps,
		f.Velocity.Len(), f.Flag.Sub(f.Marble).Len())
	if f.Status != "" {
		line += " | " + f.Status
	}
	return line
}

func drawText(c Canvas, y, width int, text string, style tcell.Style) {
	x := 0
	for _, r := range text {
		if x >= width {
			return
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		c.SetContent(x, y, ' ', nil, style)
	}
}
