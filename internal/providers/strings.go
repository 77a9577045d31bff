package providers

import (
	"strings"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Strings contributes the text operations. Indices count runes, not bytes,
// so multi-byte characters behave like single characters. Search predicates
// return Integer 1 or 0 rather than Boolean.
type Strings struct{}

func (p *Strings) Name() string { return "Strings" }

func (p *Strings) Operations() []*operation.Operation {
	return []*operation.Operation{
		opConcat(), opSubstring(), opToUpper(), opToLower(), opTrim(),
		opSplit(), opJoin(), opReplace(), opContains(), opStartsWith(),
		opEndsWith(), opIndexOf(), opCharAt(), opReverseString(), opRepeat(),
	}
}

func str(name string, v object.Object) (string, *object.RuntimeError) {
	if s, ok := v.(*object.String); ok {
		return s.Value, nil
	}
	return "", object.NewError(object.TypeError, "%s must be a string, got %s", name, v.TypeName())
}

func opConcat() *operation.Operation {
	info := arg("strings", "Strings to concatenate")
	return &operation.Operation{
		Identifier:  "Concat",
		Name:        "Concatenate",
		Description: "Concatenates strings together",
		Category:    "Strings/Create",
		Variadic:    true,
		VariadicArg: &info,
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			var b strings.Builder
			for _, a := range args {
				b.WriteString(a.Inspect())
			}
			return &object.String{Value: b.String()}
		},
	}
}

func opSubstring() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Substring",
		Name:        "Substring",
		Description: "Extracts a portion of a string",
		Category:    "Strings/Extract",
		Required: []operation.ArgInfo{
			arg("string", "The source string"),
			arg("start", "Start index (0-based)"),
		},
		Optional: []operation.ArgInfo{arg("length", "Number of characters (defaults to rest of string)")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			start, ierr := integer("start", args[1])
			if ierr != nil {
				return ierr
			}
			runes := []rune(s)
			if start < 0 {
				return object.NewError(object.IndexError, "Start index cannot be negative: %d", start)
			}
			if start > int64(len(runes)) {
				return object.NewError(object.IndexError, "Start index %d exceeds string length %d", start, len(runes))
			}
			if len(args) > 2 {
				length, lerr := integer("length", args[2])
				if lerr != nil {
					return lerr
				}
				if length < 0 {
					return object.NewError(object.IndexError, "Length cannot be negative: %d", length)
				}
				end := start + length
				if end > int64(len(runes)) {
					end = int64(len(runes))
				}
				return &object.String{Value: string(runes[start:end])}
			}
			return &object.String{Value: string(runes[start:])}
		},
	}
}

// strTransform builds a one-argument string operation.
func strTransform(ident, name, desc, category, argDesc string, fn func(string) string) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    category,
		Required:    []operation.ArgInfo{arg("string", argDesc)},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, err := str("string", args[0])
			if err != nil {
				return err
			}
			return &object.String{Value: fn(s)}
		},
	}
}

func opToUpper() *operation.Operation {
	return strTransform("ToUpper", "To Uppercase", "Converts a string to uppercase",
		"Strings/Transform", "The string to convert", strings.ToUpper)
}

func opToLower() *operation.Operation {
	return strTransform("ToLower", "To Lowercase", "Converts a string to lowercase",
		"Strings/Transform", "The string to convert", strings.ToLower)
}

func opTrim() *operation.Operation {
	return strTransform("Trim", "Trim", "Removes leading and trailing whitespace",
		"Strings/Transform", "The string to trim", strings.TrimSpace)
}

func opReverseString() *operation.Operation {
	return strTransform("Reverse", "Reverse String", "Reverses a string",
		"Strings/Transform", "The string to reverse", func(s string) string {
			runes := []rune(s)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes)
		})
}

func opSplit() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Split",
		Name:        "Split",
		Description: "Splits a string by a delimiter into a list",
		Category:    "Strings/Transform",
		Required: []operation.ArgInfo{
			arg("string", "The string to split"),
			arg("delimiter", "The delimiter to split by"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			delim, derr := str("delimiter", args[1])
			if derr != nil {
				return derr
			}
			parts := strings.Split(s, delim)
			items := make([]object.Object, len(parts))
			for i, p := range parts {
				items[i] = &object.String{Value: p}
			}
			return &object.List{Items: items}
		},
	}
}

func opJoin() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Join",
		Name:        "Join",
		Description: "Joins a list of strings with a delimiter",
		Category:    "Strings/Transform",
		Required: []operation.ArgInfo{
			arg("list", "List of strings to join"),
			arg("delimiter", "Delimiter to insert between elements"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			lst, ok := args[0].(*object.List)
			if !ok {
				return object.NewError(object.TypeError, "Join expects a list, got %s", args[0].TypeName())
			}
			delim, derr := str("delimiter", args[1])
			if derr != nil {
				return derr
			}
			parts := make([]string, len(lst.Items))
			for i, it := range lst.Items {
				parts[i] = it.Inspect()
			}
			return &object.String{Value: strings.Join(parts, delim)}
		},
	}
}

func opReplace() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Replace",
		Name:        "Replace",
		Description: "Replaces occurrences of a substring",
		Category:    "Strings/Transform",
		Required: []operation.ArgInfo{
			arg("string", "The source string"),
			arg("find", "Substring to find"),
			arg("replace_with", "Replacement string"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			find, ferr := str("find", args[1])
			if ferr != nil {
				return ferr
			}
			repl, rerr := str("replace_with", args[2])
			if rerr != nil {
				return rerr
			}
			return &object.String{Value: strings.ReplaceAll(s, find, repl)}
		},
	}
}

// strPredicate builds a two-string operation returning Integer 1 or 0.
func strPredicate(ident, name, desc, secondName, secondDesc string, fn func(s, sub string) bool) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    "Strings/Search",
		Required: []operation.ArgInfo{
			arg("string", "The string to search in"),
			arg(secondName, secondDesc),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			sub, suberr := str(secondName, args[1])
			if suberr != nil {
				return suberr
			}
			if fn(s, sub) {
				return &object.Integer{Value: 1}
			}
			return &object.Integer{Value: 0}
		},
	}
}

func opContains() *operation.Operation {
	return strPredicate("Contains", "Contains", "Checks if a string contains a substring",
		"substring", "The substring to find", strings.Contains)
}

func opStartsWith() *operation.Operation {
	return strPredicate("StartsWith", "Starts With", "Checks if a string starts with a prefix",
		"prefix", "The prefix to look for", strings.HasPrefix)
}

func opEndsWith() *operation.Operation {
	return strPredicate("EndsWith", "Ends With", "Checks if a string ends with a suffix",
		"suffix", "The suffix to look for", strings.HasSuffix)
}

func opIndexOf() *operation.Operation {
	return &operation.Operation{
		Identifier:  "IndexOf",
		Name:        "Index Of",
		Description: "Returns the index of the first occurrence of a substring, or -1 if not found",
		Category:    "Strings/Search",
		Required: []operation.ArgInfo{
			arg("string", "The string to search in"),
			arg("substring", "The substring to find"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			sub, suberr := str("substring", args[1])
			if suberr != nil {
				return suberr
			}
			byteIdx := strings.Index(s, sub)
			if byteIdx < 0 {
				return &object.Integer{Value: -1}
			}
			// Report the position in characters.
			return &object.Integer{Value: int64(len([]rune(s[:byteIdx])))}
		},
	}
}

func opCharAt() *operation.Operation {
	return &operation.Operation{
		Identifier:  "CharAt",
		Name:        "Character At",
		Description: "Returns the character at a given index",
		Category:    "Strings/Extract",
		Required: []operation.ArgInfo{
			arg("string", "The source string"),
			arg("index", "The index (0-based)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			idx, ierr := integer("index", args[1])
			if ierr != nil {
				return ierr
			}
			runes := []rune(s)
			if idx < 0 || idx >= int64(len(runes)) {
				return object.NewError(object.IndexError, "Index %d out of range for string of length %d", idx, len(runes))
			}
			return &object.String{Value: string(runes[idx])}
		},
	}
}

func opRepeat() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Repeat",
		Name:        "Repeat",
		Description: "Repeats a string n times",
		Category:    "Strings/Create",
		Required: []operation.ArgInfo{
			arg("string", "The string to repeat"),
			arg("count", "Number of times to repeat"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			s, serr := str("string", args[0])
			if serr != nil {
				return serr
			}
			count, cerr := integer("count", args[1])
			if cerr != nil {
				return cerr
			}
			if count < 0 {
				return object.NewError(object.TypeError, "Count cannot be negative: %d", count)
			}
			return &object.String{Value: strings.Repeat(s, int(count))}
		},
	}
}
