package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"go.uber.org/zap"
)

// InputSource produces the input for one step. Device polling and scripted
// scenarios both implement it.
type InputSource interface {
	Read(w *ecs.World) (component.Input, error)
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func(w *ecs.World) (component.Input, error)

func (f InputSourceFunc) Read(w *ecs.World) (component.Input, error) {
	return f(w)
}

// InputSystem copies the source's input into every Input component.
type InputSystem struct {
	Source InputSource
	log    *zap.Logger
}

func NewInputSystem(src InputSource, log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &InputSystem{Source: src, log: log.Named("input")}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var in component.Input
	if i.Source != nil {
		read, err := i.Source.Read(w)
		if err != nil {
			i.log.Warn("read input", zap.Int("tick", w.Tick()), zap.Error(err))
		} else {
			in = read
		}
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, dst *component.Input) {
		*dst = in
	})
}
