// Package validators holds custom go-playground validator functions and the
// pattern helpers shared by configuration and rule evaluation.
package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegexpValidation accepts strings that compile as regular expressions.
func RegexpValidation(fl validator.FieldLevel) bool {
	_, err := CompileAnchored(fl.Field().String())
	return err == nil
}

// CompileAnchored compiles pattern so that it only matches at the start of the
// input. The end of the input is not anchored; patterns wanting a full match must
// end with $.
func CompileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)`)
}
