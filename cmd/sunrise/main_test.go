package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"sunrise": func() { os.Exit(run()) },
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Keep ~/.sunrise inside the temp dir.
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"SUNRISE_HOME="+filepath.Join(e.WorkDir, ".sunrise"),
			)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// dir-not-exists asserts that a directory does not exist.
			// Usage: [!] dir-not-exists <path>
			"dir-not-exists": cmdDirNotExists,

			// glob-count asserts how many paths match a pattern.
			// Usage: glob-count <pattern> <n>
			"glob-count": cmdGlobCount,

			// setup-git-repo commits the contents of a directory into a new git repo.
			// Usage: setup-git-repo <dir>
			"setup-git-repo": cmdSetupGitRepo,
		},
	})
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), args[1])
	if neg && contains {
		ts.Fatalf("file %s contains %q (expected not to)", args[0], args[1])
	}
	if !neg && !contains {
		ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], args[1], data)
	}
}

// cmdDirNotExists checks that a directory does not exist.
func cmdDirNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: dir-not-exists <path>")
	}
	_, err := os.Stat(ts.MkAbs(args[0]))
	doesNotExist := os.IsNotExist(err)

	if neg && doesNotExist {
		ts.Fatalf("%s does not exist (expected it to exist)", args[0])
	}
	if !neg && !doesNotExist {
		ts.Fatalf("%s exists (expected it not to)", args[0])
	}
}

// cmdGlobCount checks the number of paths matching a glob.
func cmdGlobCount(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("glob-count does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: glob-count <pattern> <n>")
	}
	matches, err := filepath.Glob(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("bad pattern %q: %v", args[0], err)
	}
	want, err := strconv.Atoi(args[1])
	if err != nil {
		ts.Fatalf("bad count %q: %v", args[1], err)
	}
	if got := len(matches); got != want {
		ts.Fatalf("%d paths match %s, want %s: %v", got, args[0], args[1], matches)
	}
}

// cmdSetupGitRepo turns an existing directory into a git repo with one
// commit on main.
func cmdSetupGitRepo(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("setup-git-repo does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: setup-git-repo <dir>")
	}
	dir := ts.MkAbs(args[0])

	gitEnv := append(os.Environ(),
		"HOME="+ts.Getenv("HOME"),
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)
	runGit := func(gitArgs ...string) {
		c := exec.Command("git", gitArgs...)
		c.Dir = dir
		c.Env = gitEnv
		out, err := c.CombinedOutput()
		if err != nil {
			ts.Fatalf("git %v: %v\n%s", gitArgs, err, out)
		}
	}

	runGit("init")
	runGit("checkout", "-b", "main")
	runGit("add", ".")
	runGit("commit", "-m", "initial")
}
