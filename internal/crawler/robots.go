package crawler

import (
	"bufio"
	"io"
	"strings"
)

// robotsRules holds the Disallow prefixes that apply to every user agent.
// A zero value allows everything.
type robotsRules struct {
	disallow []string
}

func parseRobots(r io.Reader) robotsRules {
	var rules robotsRules
	applies := false
	inAgents := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if !inAgents {
				applies = false
			}
			inAgents = true
			if value == "*" {
				applies = true
			}
		case "disallow":
			inAgents = false
			if applies && value != "" {
				rules.disallow = append(rules.disallow, value)
			}
		default:
			inAgents = false
		}
	}
	return rules
}

func (r robotsRules) allowed(path string) bool {
	for _, prefix := range r.disallow {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
