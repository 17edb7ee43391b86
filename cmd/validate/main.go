package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/script-engine/pkg/engine"
	"github.com/jwebster45206/script-engine/pkg/script"
)

// validate parses script files and reports structural errors, dangling
// jump targets and references to unregistered commands. Dangling targets
// and unknown commands are warnings (the engine recovers from both at
// runtime); parse errors fail the run.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <script.txt | directory> [...]\n", os.Args[0])
		os.Exit(1)
	}

	v := &scriptValidator{known: knownCommands()}

	for _, arg := range os.Args[1:] {
		info, err := os.Stat(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot stat %s: %v\n", arg, err)
			os.Exit(1)
		}
		if info.IsDir() {
			err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(path, ".txt") {
					v.validateFile(path)
				}
				return nil
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Walk failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			v.validateFile(arg)
		}
	}

	fmt.Printf("%d file(s) checked, %d error(s), %d warning(s)\n", v.files, v.errors, v.warnings)
	if v.errors > 0 {
		os.Exit(1)
	}
}

type scriptValidator struct {
	known    map[string]bool
	files    int
	errors   int
	warnings int
}

func (v *scriptValidator) validateFile(path string) {
	v.files++

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		v.errors++
		return
	}

	// Decode exactly the way the runtime loader does, so legacy-encoded
	// scripts are validated against the text the engine will execute.
	text, err := script.DecodeText(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		v.errors++
		return
	}

	data, err := script.Parse(text, filepath.Base(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		v.errors++
		return
	}

	for _, code := range data.Codes {
		if code.IsLabel {
			continue
		}
		if !v.known[strings.ToLower(code.Name)] {
			fmt.Printf("%s:%d: warning: unknown command %q\n", path, code.LineNumber, code.Name)
			v.warnings++
		}
		if target := code.JumpTarget(); target != "" {
			if _, ok := data.LabelIndex(target); !ok {
				fmt.Printf("%s:%d: warning: jump to missing label %q\n", path, code.LineNumber, target)
				v.warnings++
			}
		}
	}
}

func knownCommands() map[string]bool {
	known := make(map[string]bool)
	for _, name := range engine.New(engine.Options{}).Registry().Names() {
		known[name] = true
	}
	return known
}
