package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// repl reads one line at a time and runs each as its own program. Errors
// are reported and the loop continues; state persists between lines.
// Lines are not length-limited.
func (s *session) repl(stdin io.Reader, interactive bool) int {
	reader := bufio.NewReader(stdin)
	for {
		if interactive {
			fmt.Fprint(s.stdout, s.cfg.REPL.Prompt)
		}
		line, err := reader.ReadString('\n')
		if line != "" {
			s.execute(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Errorf("reading input: %s", err)
			return exitIOError
		}
	}
	if interactive {
		fmt.Fprintln(s.stdout)
	}
	return 0
}
