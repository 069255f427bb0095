package module

import "reflect"

// PortSet is whatever a module returns from Ports; each module declares its own struct
type PortSet = any

// PortsOf resolves a port of type T from m.Ports() without going through the registry.
// The port set itself may satisfy T, or any exported field of the (possibly pointer) struct
func PortsOf[T any](m Module) (T, bool) {
	return portFrom[T](m.Ports())
}

// MustPortsOf is PortsOf for composition roots, where a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		var zero T
		panic("module " + m.Name() + ": no port of type " + reflect.TypeOf(&zero).Elem().String())
	}
	return v
}

func portFrom[T any](set PortSet) (T, bool) {
	var zero T
	if set == nil {
		return zero, false
	}
	if v, ok := set.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(set)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() || (f.Kind() == reflect.Interface && f.IsNil()) {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}
