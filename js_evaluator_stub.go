//go:build !js_eval

package devinfo

// NewJSEvaluator returns nil unless built with the js_eval tag. Profiles
// naming the js engine fail with ErrNoEvaluator instead.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSSettings(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
