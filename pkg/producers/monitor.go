// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"fmt"

	"github.com/charmbracelet/log"
)

type (
	// ProducerMonitor observes the lifecycle of one producer. Calls arrive in
	// order: Requested, then MethodStarting and MethodFinished when the body
	// runs, then exactly one of Succeeded or Failed.
	ProducerMonitor interface {
		Requested()
		MethodStarting()
		MethodFinished()
		Succeeded(value any)
		Failed(err error)
	}

	// Monitor hands out producer monitors for one component instance.
	Monitor interface {
		ProducerMonitorFor(token string) ProducerMonitor
	}

	// MonitorFactory creates a Monitor for a component instance. It may
	// return nil to not monitor that component.
	MonitorFactory interface {
		Create(component any) Monitor
	}

	// MonitorFactoryFunc adapts a function to MonitorFactory.
	MonitorFactoryFunc func(component any) Monitor

	noOpMonitor struct{}

	noOpProducerMonitor struct{}

	delegatingMonitor []Monitor

	delegatingProducerMonitor []ProducerMonitor

	logMonitor struct {
		logger *log.Logger
	}

	logProducerMonitor struct {
		logger *log.Logger
	}
)

// Create calls f.
func (f MonitorFactoryFunc) Create(component any) Monitor {
	return f(component)
}

// NoOpMonitor returns a monitor that ignores every event.
func NoOpMonitor() Monitor {
	return noOpMonitor{}
}

func (noOpMonitor) ProducerMonitorFor(string) ProducerMonitor { return noOpProducerMonitor{} }

func (noOpProducerMonitor) Requested()      {}
func (noOpProducerMonitor) MethodStarting() {}
func (noOpProducerMonitor) MethodFinished() {}
func (noOpProducerMonitor) Succeeded(any)   {}
func (noOpProducerMonitor) Failed(error)    {}

// ComponentMonitor builds the monitor of a component from its factories.
// Factories returning nil are skipped; with none left the no-op monitor is
// used. A panicking monitor never fails a producer.
func ComponentMonitor(component any, factories []MonitorFactory) Monitor {
	var monitors delegatingMonitor
	for _, f := range factories {
		if f == nil {
			continue
		}
		var m Monitor
		guard(func() { m = f.Create(component) })
		if m != nil {
			monitors = append(monitors, m)
		}
	}
	if len(monitors) == 0 {
		return NoOpMonitor()
	}
	return monitors
}

func (d delegatingMonitor) ProducerMonitorFor(token string) ProducerMonitor {
	var pms delegatingProducerMonitor
	for _, m := range d {
		var pm ProducerMonitor
		guard(func() { pm = m.ProducerMonitorFor(token) })
		if pm != nil {
			pms = append(pms, pm)
		}
	}
	if len(pms) == 0 {
		return noOpProducerMonitor{}
	}
	return pms
}

func (d delegatingProducerMonitor) Requested() {
	for _, pm := range d {
		guard(pm.Requested)
	}
}

func (d delegatingProducerMonitor) MethodStarting() {
	for _, pm := range d {
		guard(pm.MethodStarting)
	}
}

// MethodFinished notifies in reverse order so monitors nest like scopes.
func (d delegatingProducerMonitor) MethodFinished() {
	for i := len(d) - 1; i >= 0; i-- {
		guard(d[i].MethodFinished)
	}
}

func (d delegatingProducerMonitor) Succeeded(value any) {
	for _, pm := range d {
		guard(func() { pm.Succeeded(value) })
	}
}

func (d delegatingProducerMonitor) Failed(err error) {
	for _, pm := range d {
		guard(func() { pm.Failed(err) })
	}
}

func guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("producer monitor panicked", "panic", r)
		}
	}()
	fn()
}

// LogMonitorFactory returns a factory whose monitors log producer events to
// logger: lifecycle at debug level, failures at error level.
func LogMonitorFactory(logger *log.Logger) MonitorFactory {
	return MonitorFactoryFunc(func(component any) Monitor {
		return logMonitor{logger: logger.With("component", fmt.Sprintf("%T", component))}
	})
}

func (m logMonitor) ProducerMonitorFor(token string) ProducerMonitor {
	return logProducerMonitor{logger: m.logger.With("producer", token)}
}

func (m logProducerMonitor) Requested()      { m.logger.Debug("producer requested") }
func (m logProducerMonitor) MethodStarting() { m.logger.Debug("producer method starting") }
func (m logProducerMonitor) MethodFinished() { m.logger.Debug("producer method finished") }

func (m logProducerMonitor) Succeeded(value any) {
	m.logger.Debug("producer succeeded", "value", fmt.Sprintf("%v", value))
}

func (m logProducerMonitor) Failed(err error) {
	m.logger.Error("producer failed", "error", err)
}
