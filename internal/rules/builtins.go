package rules

import (
	"go.starlark.net/starlark"
)

// predeclared are the globals available to every rule script.
var predeclared = starlark.StringDict{
	"problem": starlark.NewBuiltin("problem", problemBuiltin),
}

// problemBuiltin builds a finding dict:
//
//	problem(id, description, type="ERROR")
func problemBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id, description string
	typ := "ERROR"
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id, "description", &description, "type?", &typ); err != nil {
		return nil, err
	}

	dict := starlark.NewDict(3)
	_ = dict.SetKey(starlark.String("id"), starlark.String(id))
	_ = dict.SetKey(starlark.String("description"), starlark.String(description))
	_ = dict.SetKey(starlark.String("type"), starlark.String(typ))
	return dict, nil
}
