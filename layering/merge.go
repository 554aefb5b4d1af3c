// Package layering merges profile snapshots ordered from strongest to
// weakest. Zero values are treated as absent, matching the property
// store's rule that an empty value defers to the next source.
package layering

import "reflect"

// MergeLayers composes snapshots ordered from strongest to weakest. For
// each struct field, the first non-zero value wins. Map entries are
// atomic: a key present in a stronger layer replaces the weaker entry
// whole, while keys only present in weaker layers are kept.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := cloneValue(reflect.ValueOf(layers[len(layers)-1]))
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeValue(reflect.ValueOf(layers[i]), merged)
	}

	if !merged.IsValid() {
		return zero
	}
	if merged.Type() != reflect.TypeOf(zero) {
		result := reflect.New(reflect.TypeOf(zero)).Elem()
		result.Set(merged.Convert(reflect.TypeOf(zero)))
		return result.Interface().(T)
	}
	return merged.Interface().(T)
}

// Clone returns a deep copy of value.
func Clone[T any](value T) T {
	var zero T
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return zero
	}
	return cloned.Interface().(T)
}

func mergeValue(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return cloneValue(weak)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	case reflect.Interface:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	case reflect.Struct:
		result := reflect.New(strong.Type()).Elem()
		var weakStruct reflect.Value
		if weak.IsValid() && weak.Type() == strong.Type() {
			weakStruct = weak
		}
		for i := 0; i < strong.NumField(); i++ {
			field := result.Field(i)
			if !field.CanSet() {
				continue
			}
			var weakField reflect.Value
			if weakStruct.IsValid() {
				weakField = weakStruct.Field(i)
			}
			field.Set(mergeValue(strong.Field(i), weakField))
		}
		return result
	case reflect.Map:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		result := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && weak.Kind() == reflect.Map && !weak.IsNil() {
			iter := weak.MapRange()
			for iter.Next() {
				result.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
			}
		}
		iter := strong.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return result
	case reflect.Slice:
		if strong.IsNil() || strong.Len() == 0 {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	default:
		if strong.IsZero() && weak.IsValid() {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	}
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
