package common

import "fmt"

// Checker is a named chain of CheckerFuncs; `RunChecker` walks them in order.
type Checker interface {
	GetFuncs() []CheckerFunc
}

type CheckerFunc func(Checker, ...interface{}) error

// CheckerErrorStop ends a checker chain early, carrying the reason the
// remaining funcs were skipped. The caller decides whether a stop counts as
// success.
type CheckerErrorStop struct {
	Message string
}

func (c CheckerErrorStop) Error() string {
	return fmt.Sprintf("stop checker and return: %s", c.Message)
}

type CheckerDeferFunc func(int, Checker, error)

var DefaultDeferFunc CheckerDeferFunc = func(int, Checker, error) {}

type DefaultChecker struct {
	Funcs []CheckerFunc
}

func (c *DefaultChecker) GetFuncs() []CheckerFunc {
	return c.Funcs
}

// RunChecker runs the chain until a func errors; deferFunc observes every
// step, failed or not.
func RunChecker(checker Checker, deferFunc CheckerDeferFunc, args ...interface{}) error {
	if deferFunc == nil {
		deferFunc = DefaultDeferFunc
	}

	for i, f := range checker.GetFuncs() {
		err := f(checker, args...)
		deferFunc(i, checker, err)
		if err != nil {
			return err
		}
	}

	return nil
}
