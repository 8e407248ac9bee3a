package main

import (
	"fmt"
	"strings"
)

const defaultNamespace = "user"

type cliOptions struct {
	namespace string
	prelude   string
	dump      bool
	rest      []string
}

// parseOptions pulls --ns, --prelude and (when allowDump is set) --dump out
// of args; everything else is returned in rest.
func parseOptions(args []string, allowDump bool) (cliOptions, error) {
	opts := cliOptions{rest: make([]string, 0, len(args))}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			opts.rest = append(opts.rest, args[i+1:]...)
			break
		}
		switch {
		case arg == "--ns" || arg == "--prelude":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s expects a value", arg)
			}
			if err := opts.set(arg, args[i+1]); err != nil {
				return opts, err
			}
			i++
		case strings.HasPrefix(arg, "--ns="):
			if err := opts.set("--ns", strings.TrimPrefix(arg, "--ns=")); err != nil {
				return opts, err
			}
		case strings.HasPrefix(arg, "--prelude="):
			if err := opts.set("--prelude", strings.TrimPrefix(arg, "--prelude=")); err != nil {
				return opts, err
			}
		case arg == "--dump" && allowDump:
			opts.dump = true
		case strings.HasPrefix(arg, "--"):
			return opts, fmt.Errorf("unknown flag %s", arg)
		default:
			opts.rest = append(opts.rest, arg)
		}
	}
	return opts, nil
}

func (o *cliOptions) set(flag, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s expects a value", flag)
	}
	switch flag {
	case "--ns":
		if strings.Contains(value, "/") {
			return fmt.Errorf("invalid namespace name '%s'", value)
		}
		o.namespace = value
	case "--prelude":
		o.prelude = value
	}
	return nil
}
