package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var runSchema string

// checkSchema unifies the YAML document with #Run and reports every
// violation.
func checkSchema(filename string, data []byte) ValidationErrors {
	ctx := cuecontext.New()

	schema := ctx.CompileString(runSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		panic(fmt.Sprintf("config: compile run schema: %v", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Run"))

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fromCUEError(filename, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fromCUEError(filename, err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fromCUEError(filename, err)
	}
	return nil
}

// fromCUEError flattens a CUE error list, keeping the line in filename where
// one is known.
func fromCUEError(filename string, err error) ValidationErrors {
	var out ValidationErrors
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchema,
		}
		for _, pos := range errors.Positions(e) {
			if pos.Filename() == filename {
				ve.Line = pos.Line()
				break
			}
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "file", Message: err.Error(), Code: ErrSchema})
	}
	return out
}

func fieldPath(path []string) string {
	if len(path) > 0 && path[0] == "#Run" {
		path = path[1:]
	}
	if len(path) == 0 {
		return "file"
	}
	return strings.Join(path, ".")
}
