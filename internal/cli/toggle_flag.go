package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/fop/internal/config"
)

const (
	toggleFlagTypeName        = "bool"
	toggleImpliedValue        = "true"
	toggleFlagPrefix          = "--"
	invalidToggleValueMessage = "invalid value %q for --%s (use true/false, yes/no, on/off, t/f, y/n or 1/0)"
)

// toggleFlag is an on/off setting that reads the same literals as .fopconfig.
type toggleFlag struct {
	name   string
	target *bool
}

func (flag *toggleFlag) Set(input string) error {
	parsed, known := config.LookupBool(input)
	if !known {
		return fmt.Errorf(invalidToggleValueMessage, input, flag.name)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{name: name, target: target}, name, usage)
	flagSet.Lookup(name).NoOptDefVal = toggleImpliedValue
}

// joinToggleValues rewrites "--name literal" as "--name=literal" for toggle flags.
// Anything that is not a boolean literal stays a positional argument, so
// "sort --copy lists" still treats lists as a location.
func joinToggleValues(command *cobra.Command, arguments []string) []string {
	toggles := toggleFlagNames(command)
	joined := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == toggleFlagPrefix {
			return append(joined, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, toggleFlagPrefix)
		_, isToggle := toggles[name]
		if isLongFlag && isToggle && index+1 < len(arguments) {
			if _, known := config.LookupBool(arguments[index+1]); known {
				joined = append(joined, argument+"="+arguments[index+1])
				index++
				continue
			}
		}
		joined = append(joined, argument)
	}
	return joined
}

// toggleFlagNames collects toggle flags registered anywhere in the command tree.
func toggleFlagNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	var walk func(*cobra.Command)
	walk = func(current *cobra.Command) {
		for _, flagSet := range []*pflag.FlagSet{current.PersistentFlags(), current.Flags()} {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				if _, isToggle := flag.Value.(*toggleFlag); isToggle {
					names[flag.Name] = struct{}{}
				}
			})
		}
		for _, child := range current.Commands() {
			walk(child)
		}
	}
	if command != nil {
		walk(command)
	}
	return names
}
