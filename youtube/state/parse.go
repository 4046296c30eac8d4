package state

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kokiebisu/sonus/must"
)

const Marker = "ytInitialData"

var (
	ErrStateNotFound  = errors.New("embedded state not found")
	ErrStateMalformed = errors.New("embedded state is malformed")
)

var assignment = regexp.MustCompile(`(?:var\s+ytInitialData|window\[\s*["']ytInitialData["']\s*\])\s*=\s*`)

// Parse extracts the ytInitialData object assigned in the first inline script
// that carries it. Later scripts are ignored even if they also assign it.
func Parse(body string) (Tree, error) {
	script, ok := findStateScript(body)
	if !ok {
		return Tree{}, ErrStateNotFound
	}

	loc := assignment.FindStringIndex(script)
	must.Be(len(loc) == 2, "assignment match has a start and an end")

	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(script[loc[1]:])).Decode(&raw); nil != err {
		return Tree{}, fmt.Errorf("%w: %v", ErrStateMalformed, err)
	}

	tree := FromJSON(string(raw))
	if !tree.IsObject() {
		return Tree{}, fmt.Errorf("%w: expected an object", ErrStateMalformed)
	}

	return tree, nil
}

func findStateScript(body string) (string, bool) {
	var (
		z        = html.NewTokenizer(strings.NewReader(body))
		inScript bool
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			inScript = atom.Lookup(name) == atom.Script
		case html.EndTagToken:
			inScript = false
		case html.TextToken:
			if !inScript {
				continue
			}
			text := string(z.Text())
			if strings.Contains(text, Marker) && assignment.MatchString(text) {
				return text, true
			}
		}
	}
}
