package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/autobrr/go-webminfo/internal/webm"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Output string
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}

	program := programName(args[0])
	opts := Options{}
	files := make([]string, 0)

	for i := 1; i < len(args); i++ {
		original := args[i]
		normalized := normalizeArg(original)

		switch {
		case normalized == "--help" || normalized == "-h":
			Help(program, stdout)
			return exitOK
		case normalized == "--version":
			Version(stdout)
			return exitOK
		case strings.HasPrefix(normalized, "--output="):
			if value, ok := valueAfterEqual(original); ok {
				opts.Output = value
			} else {
				HelpOutput(program, stdout)
				return exitError
			}
		case strings.HasPrefix(normalized, "--"):
			if normalized == "--" {
				continue
			}
			fmt.Fprintf(stderr, "unknown option %q\n", original)
			return exitError
		default:
			files = append(files, original)
		}
	}

	if len(files) == 0 {
		return Usage(program, stdout)
	}

	output, parsed, err := runCore(opts, files, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	if output != "" {
		fmt.Fprint(stdout, output)
	}

	if parsed > 0 {
		return exitOK
	}
	return exitError
}

func runCore(opts Options, files []string, stderr io.Writer) (string, int, error) {
	reports := make([]webm.Report, 0, len(files))
	parsed := 0
	for _, path := range files {
		info, err := webm.ParseFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", path, err.Error())
			continue
		}
		reports = append(reports, webm.Report{Ref: path, Info: info})
		parsed++
	}

	switch strings.ToUpper(opts.Output) {
	case "", "TEXT":
		return webm.RenderText(reports), parsed, nil
	case "JSON":
		return webm.RenderJSON(reports), parsed, nil
	}
	return "", parsed, fmt.Errorf("unsupported output format %q", opts.Output)
}

func programName(arg0 string) string {
	name := filepath.Base(arg0)
	if runtime.GOOS == "windows" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func normalizeArg(arg string) string {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		eq = len(arg)
	}
	return strings.ToLower(arg[:eq]) + arg[eq:]
}

func valueAfterEqual(arg string) (string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		return "", false
	}
	return arg[eq+1:], true
}
