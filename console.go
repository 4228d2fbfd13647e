package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/pcscatter/scene"
)

const defaultSelectRange = 1

type console struct {
	scene *scene.Scene
	now   func() time.Time
}

var (
	errArgumentNumber = errors.New("invalid number of arguments")
	errInvalidCommand = errors.New("invalid command")
	errNoPoint        = errors.New("no point in range")
)

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func toggleCommand(get func() bool, set func(bool)) func(c *console, args []float32) ([][]float32, error) {
	return func(c *console, args []float32) ([][]float32, error) {
		switch len(args) {
		case 0:
		case 1:
			set(args[0] != 0)
		default:
			return nil, errArgumentNumber
		}
		return [][]float32{{boolFloat(get())}}, nil
	}
}

var consoleCommands = map[string]func(c *console, args []float32) ([][]float32, error){
	"axes": func(c *console, args []float32) ([][]float32, error) {
		return toggleCommand(c.scene.AxesVisible, c.scene.SetAxesVisible)(c, args)
	},
	"grid": func(c *console, args []float32) ([][]float32, error) {
		return toggleCommand(c.scene.GridVisible, c.scene.SetGridVisible)(c, args)
	},
	"select": func(c *console, args []float32) ([][]float32, error) {
		r := float32(defaultSelectRange)
		switch len(args) {
		case 3:
		case 4:
			r = args[3]
		default:
			return nil, errArgumentNumber
		}
		if !c.scene.SelectNearest(mat.Vec3{args[0], args[1], args[2]}, r, c.now()) {
			return nil, errNoPoint
		}
		h, _ := c.scene.Selection()
		p := h.Point.Pos
		return [][]float32{{p[0], p[1], p[2]}}, nil
	},
	"selected": func(c *console, args []float32) ([][]float32, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		h, ok := c.scene.Selection()
		if !ok {
			return nil, nil
		}
		p := h.Point.Pos
		return [][]float32{{p[0], p[1], p[2]}}, nil
	},
	"unselect": func(c *console, args []float32) ([][]float32, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		c.scene.ClearSelection()
		return nil, nil
	},
	"target": func(c *console, args []float32) ([][]float32, error) {
		o := c.scene.Orbit()
		switch len(args) {
		case 0:
		case 3:
			o.SetTarget(mat.Vec3{args[0], args[1], args[2]})
		default:
			return nil, errArgumentNumber
		}
		return [][]float32{{o.Target[0], o.Target[1], o.Target[2]}}, nil
	},
	"distance": func(c *console, args []float32) ([][]float32, error) {
		o := c.scene.Orbit()
		switch len(args) {
		case 0:
		case 1:
			o.SetDistance(args[0])
		default:
			return nil, errArgumentNumber
		}
		return [][]float32{{o.Distance}}, nil
	},
	"reset_view": func(c *console, args []float32) ([][]float32, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		c.scene.Orbit().Reset()
		return nil, nil
	},
}

// Run executes a command line and returns the result values,
// one line per row, space separated.
func (c *console) Run(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	fn, ok := consoleCommands[args[0]]
	if !ok {
		return "", errInvalidCommand
	}
	var argsFloat []float32
	for i := 1; i < len(args); i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return "", err
		}
		argsFloat = append(argsFloat, float32(f))
	}
	res, err := fn(c, argsFloat)
	if err != nil {
		return "", err
	}
	var resStr []string
	for _, vv := range res {
		var resLine []string
		for _, v := range vv {
			resLine = append(resLine, strconv.FormatFloat(float64(v), 'f', 3, 32))
		}
		resStr = append(resStr, strings.Join(resLine, " "))
	}
	return strings.Join(resStr, "\n"), nil
}
