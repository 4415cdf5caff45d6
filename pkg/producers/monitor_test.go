// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/invowk/wirekit/pkg/inject"
)

type panickingMonitor struct{}

func (panickingMonitor) ProducerMonitorFor(string) ProducerMonitor { panic("monitor bug") }

func TestComponentMonitor(t *testing.T) {
	t.Parallel()

	if _, ok := ComponentMonitor(nil, nil).(noOpMonitor); !ok {
		t.Error("no factories should yield the no-op monitor")
	}
	none := MonitorFactoryFunc(func(any) Monitor { return nil })
	if _, ok := ComponentMonitor(nil, []MonitorFactory{none, nil}).(noOpMonitor); !ok {
		t.Error("factories returning nil should yield the no-op monitor")
	}

	first, second := &recordingMonitor{}, &recordingMonitor{}
	var created []any
	factories := []MonitorFactory{
		MonitorFactoryFunc(func(c any) Monitor { created = append(created, c); return first }),
		MonitorFactoryFunc(func(any) Monitor { return panickingMonitor{} }),
		MonitorFactoryFunc(func(any) Monitor { return second }),
	}
	m := ComponentMonitor("component", factories)
	if diff := cmp.Diff([]any{"component"}, created); diff != "" {
		t.Errorf("factory arguments mismatch (-want +got):\n%s", diff)
	}

	pm := m.ProducerMonitorFor("M.P")
	pm.Requested()
	pm.Failed(errors.New("x"))
	for _, rec := range []*recordingMonitor{first, second} {
		if diff := cmp.Diff([]string{"M.P requested", "M.P failed x"}, rec.Events()); diff != "" {
			t.Errorf("delegated events mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLogMonitorFactory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	monitor := ComponentMonitor(struct{}{}, []MonitorFactory{LogMonitorFactory(logger)})

	p := NewProducer("AModule.A", inject.Instance(DirectExecutor()), inject.Instance(monitor), nil,
		func([]Dependency) (*Future[int], error) { return Return(5) })
	if _, err := p.Get().Get(context.Background()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"producer requested", "producer succeeded", "producer=AModule.A", "value=5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output should contain %q:\n%s", want, out)
		}
	}
}
