package event

import (
	"io"

	"github.com/labstack/gommon/log"
)

// Printer writes one status line per event. The underlying logger
// serializes writers.
type Printer struct {
	logger *log.Logger
}

func NewPrinter(w io.Writer) *Printer {
	l := log.New("runway")
	l.SetOutput(w)
	l.SetHeader("[${time_rfc3339}]")
	l.SetLevel(log.INFO)
	return &Printer{logger: l}
}

func (p *Printer) Emit(e Event) {
	if e.Kind == PREEMPTION {
		p.logger.Warn(e.String())
		return
	}
	p.logger.Info(e.String())
}
