package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/isdmx/codeexec/sandbox"
)

// smokeCase is one end-to-end check against a live service.
type smokeCase struct {
	name     string
	language string
	code     string
	check    func(sandbox.Result) error
}

func expectStdout(want string) func(sandbox.Result) error {
	return func(r sandbox.Result) error {
		if r.ExitCode != 0 {
			return fmt.Errorf("exit code %d, stderr %q, error %q", r.ExitCode, r.Stderr, r.Error)
		}
		if !strings.Contains(r.Stdout, want) {
			return fmt.Errorf("stdout %q does not contain %q", r.Stdout, want)
		}
		return nil
	}
}

func expectFailure(stderrWant string) func(sandbox.Result) error {
	return func(r sandbox.Result) error {
		if r.ExitCode == 0 || r.ExitCode == sandbox.NoExitCode {
			return fmt.Errorf("expected a non-zero process exit, got %d", r.ExitCode)
		}
		if !strings.Contains(r.Stderr, stderrWant) {
			return fmt.Errorf("stderr %q does not contain %q", r.Stderr, stderrWant)
		}
		return nil
	}
}

func expectTimeout(r sandbox.Result) error {
	if r.ExitCode != sandbox.NoExitCode || r.Error != sandbox.ErrMsgTimedOut {
		return fmt.Errorf("expected a timeout, got exit code %d and error %q", r.ExitCode, r.Error)
	}
	return nil
}

var basicCases = []smokeCase{
	{
		name:     "Python hello world",
		language: "python",
		code:     "print('Hello, World from Python!')",
		check:    expectStdout("Hello, World from Python!"),
	},
	{
		name:     "JavaScript hello world",
		language: "js",
		code:     "console.log('Hello, World from JavaScript!');",
		check:    expectStdout("Hello, World from JavaScript!"),
	},
	{
		name:     "Go hello world",
		language: "golang",
		code: `package main

import "fmt"

func main() {
	fmt.Println("Hello, World from Go!")
}
`,
		check: expectStdout("Hello, World from Go!"),
	},
	{
		name:     "C++ hello world",
		language: "cpp",
		code: `#include <iostream>

int main() {
    std::cout << "Hello, World from C++!" << std::endl;
    return 0;
}
`,
		check: expectStdout("Hello, World from C++!"),
	},
	{
		name:     "Python runtime error",
		language: "python",
		code:     "print('This will work'); undefined_function()",
		check:    expectFailure("NameError"),
	},
	{
		name:     "Infinite loop times out",
		language: "python",
		code:     "while True:\n    pass\n",
		check:    expectTimeout,
	},
}

var dependencyCases = []smokeCase{
	{
		name:     "Python with NumPy",
		language: "python",
		code:     "import numpy as np\nprint(f\"Sum: {np.sum(np.array([1, 2, 3, 4, 5]))}\")\n",
		check:    expectStdout("Sum: 15"),
	},
	{
		name:     "JavaScript with lodash",
		language: "javascript",
		code:     "const _ = require('lodash');\nconsole.log('Sum:', _.sum([1, 2, 3, 4, 5]));\n",
		check:    expectStdout("Sum: 15"),
	},
	{
		name:     "Go with external package",
		language: "go",
		code: `package main

import (
	"fmt"

	"github.com/google/uuid"
)

func main() {
	fmt.Printf("UUID version: %d\n", uuid.New().Version())
}
`,
		check: expectStdout("UUID version: 4"),
	},
	{
		name:     "C++ with Boost",
		language: "c++",
		code: `#include <iostream>
#include <boost/algorithm/string.hpp>

int main() {
    std::string s = "boost";
    boost::to_upper(s);
    std::cout << s << std::endl;
    return 0;
}
`,
		check: expectStdout("BOOST"),
	},
}

// executor is the part of Client the smoke runner needs.
type executor interface {
	Ping(ctx context.Context) (string, error)
	Execute(ctx context.Context, lang, version, code string) (sandbox.Result, error)
}

func newSmokeCommand() *cobra.Command {
	var withDeps bool

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run end-to-end checks against the service",
		Long: `Run end-to-end checks against a running service: hello world in every
language, a runtime error, and a timeout. With --deps, also check that
third-party imports are installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases := basicCases
			if withDeps {
				cases = append(append([]smokeCase{}, basicCases...), dependencyCases...)
			}
			return runSmoke(cmd.Context(), clientFromFlags(cmd), cases, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&withDeps, "deps", false, "Include cases that install third-party packages")
	return cmd
}

func runSmoke(ctx context.Context, exec executor, cases []smokeCase, out io.Writer) error {
	msg, err := exec.Ping(ctx)
	if err != nil {
		return fmt.Errorf("service is not reachable: %w", err)
	}
	fmt.Fprintf(out, "service: %s\n", msg)

	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	failed := 0
	for _, tc := range cases {
		start := time.Now()
		result, err := exec.Execute(ctx, tc.language, sandbox.DefaultVersion, tc.code)
		if err == nil {
			err = tc.check(result)
		}
		elapsed := time.Since(start).Round(time.Millisecond)

		if err != nil {
			failed++
			fmt.Fprintf(out, "%s %s (%s): %v\n", fail("FAIL"), tc.name, elapsed, err)
			continue
		}
		fmt.Fprintf(out, "%s %s (%s)\n", pass("PASS"), tc.name, elapsed)
	}

	fmt.Fprintf(out, "%d passed, %d failed\n", len(cases)-failed, failed)
	if failed > 0 {
		return errors.New("smoke checks failed")
	}
	return nil
}
