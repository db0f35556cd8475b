// Package args parses command line arguments into a caller supplied struct.
//
// Each exported field is an option. Its long form is the field name in
// kebab-case (MaxJobs becomes --max-jobs), its value before the call is its
// default, and its type decides how the text after the flag is read:
//
//	type Options struct {
//	    Verbose bool          `short:"v" help:"Enable verbose output"`
//	    Port    uint16        `short:"p" help:"Port to listen on"`
//	    Level   Level         `help:"Log level"`       // string type with Tags()
//	    Limit   *int          `help:"Optional limit"`  // nil unless given
//	    Include Multi[string] `short:"I" cap:"8"`      // repeatable, at most 8
//	}
//
//	opts := Options{Port: 8080}
//	rest, err := args.Parse(&opts, os.Args[1:])
//	if errors.Is(err, args.ErrHelp) {
//	    args.PrintUsage(os.Stdout, &opts)
//	    return
//	}
//
// Tags:
//   - name: long name override, "-" skips the field.
//   - short: single character alias.
//   - help: description shown by PrintUsage.
//   - cap: capacity of a Multi field, required.
//
// A struct may instead implement MetaProvider to supply short aliases and
// help text from a table, and AboutProvider to name and describe the program.
//
// Token rules:
//   - --name VALUE, --name=VALUE, -n VALUE and -nVALUE set an option.
//   - Boolean options need no value; --name=false sets them false.
//   - A value-taking option always consumes the next argument, even one that
//     starts with a dash.
//   - -h and --help stop parsing with ErrHelp, also with something attached
//     (-hx, --help=true).
//   - -n=VALUE gives -n the value "=VALUE"; only long options split on "=".
//   - Integers are decimal unless prefixed 0x, 0o or 0b. Leading zeros do
//     not mean octal.
//   - "--" ends option parsing; everything after it is positional.
//   - A lone "-" is positional.
//   - Short options are not bundled: -vx gives -v the value "x".
//
// For git style programs, FindSubcmd picks the subcommand from an Enum type
// and ParseMerged parses the global and subcommand options together.
package args
