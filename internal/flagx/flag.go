// Package flagx contains helpers for parsing a subset of the command line
// without tripping over flags that belong to other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Keep returns the subset of args that belongs to the given flag names,
// including each flag's value when it is passed as a separate argument.
//
// Both "-f value" and "--flag=value" forms are recognized. Anything else is
// dropped, which lets several flag sets parse the same command line
// independently.
func Keep(args []string, names []string) []string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form: match on the part before '='.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			if _, ok := wanted[strings.SplitN(arg, "=", 2)[0]]; ok {
				kept = append(kept, arg)
			}
			continue
		}

		if _, ok := wanted[arg]; !ok {
			continue
		}
		kept = append(kept, arg)
		// A following argument that does not look like a flag is this
		// flag's value.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}
	return kept
}

// ConfigFile extracts the JSON config file path passed via -c or -config.
// Returns an empty string when neither flag is present.
func ConfigFile() string {
	var path string

	args := Keep(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
